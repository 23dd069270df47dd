// Package render rasterizes screen-space geometry onto a grid of terminal
// cells and exports graphs as PNG images.
//
// Screen space is in device pixels. Every cell covers a fixed CellW x CellH
// pixel box; a pixel rectangle covers the cells whose centers fall inside it.
package render

import (
	"image"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"

	"stickies/internal/geom"
)

// Layer selects the style a cell is drawn with.
type Layer int

const (
	LayerBlank Layer = iota
	LayerLink
	LayerArrow
	LayerNode
	LayerBorder
	LayerPending
	LayerCursor
)

type cell struct {
	r       rune
	layer   Layer
	overlay bool
}

// Surface is a cols x rows character grid.
type Surface struct {
	cols, rows   int
	cellW, cellH float64
	cells        [][]cell
	theme        Theme
}

func NewSurface(cols, rows int, cellW, cellH float64, theme Theme) *Surface {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	s := &Surface{cols: cols, rows: rows, cellW: cellW, cellH: cellH, theme: theme}
	s.cells = make([][]cell, rows)
	for y := range s.cells {
		s.cells[y] = make([]cell, cols)
		for x := range s.cells[y] {
			s.cells[y][x] = cell{r: ' '}
		}
	}
	return s
}

func (s *Surface) Size() (int, int) { return s.cols, s.rows }

// Bounds is the surface's client area in device pixels.
func (s *Surface) Bounds() geom.Rect {
	return geom.R(0, 0, float64(s.cols)*s.cellW, float64(s.rows)*s.cellH)
}

// PixelOf returns the pixel at the center of cell (x, y).
func PixelOf(x, y int, cellW, cellH float64) geom.Point {
	return geom.Pt((float64(x)+0.5)*cellW, (float64(y)+0.5)*cellH)
}

// CellOf returns the cell containing pixel p.
func CellOf(p geom.Point, cellW, cellH float64) (int, int) {
	return int(math.Floor(p.X / cellW)), int(math.Floor(p.Y / cellH))
}

// CellRect converts a pixel rectangle to the cells whose centers it covers.
func (s *Surface) CellRect(r geom.Rect) image.Rectangle {
	px := r.Pixels()
	x0 := int(math.Round(float64(px.Min.X) / s.cellW))
	y0 := int(math.Round(float64(px.Min.Y) / s.cellH))
	x1 := int(math.Round(float64(px.Max.X) / s.cellW))
	y1 := int(math.Round(float64(px.Max.Y) / s.cellH))
	if x1 <= x0 {
		x1 = x0 + 1
	}
	if y1 <= y0 {
		y1 = y0 + 1
	}
	return image.Rect(x0, y0, x1, y1)
}

func (s *Surface) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.cols && y < s.rows
}

func (s *Surface) Set(x, y int, r rune, l Layer) {
	if s.in(x, y) {
		s.cells[y][x] = cell{r: r, layer: l}
	}
}

func (s *Surface) At(x, y int) rune {
	if !s.in(x, y) {
		return 0
	}
	return s.cells[y][x].r
}

// Overlay marks the cells of rc as shaded without changing their content.
func (s *Surface) Overlay(rc image.Rectangle) {
	for y := rc.Min.Y; y < rc.Max.Y; y++ {
		for x := rc.Min.X; x < rc.Max.X; x++ {
			if s.in(x, y) {
				s.cells[y][x].overlay = true
			}
		}
	}
}

// Box draws a filled, bordered box over the cells of rc.
func (s *Surface) Box(rc image.Rectangle, border Layer) {
	for y := rc.Min.Y; y < rc.Max.Y; y++ {
		for x := rc.Min.X; x < rc.Max.X; x++ {
			top, bottom := y == rc.Min.Y, y == rc.Max.Y-1
			left, right := x == rc.Min.X, x == rc.Max.X-1
			switch {
			case top && left:
				s.Set(x, y, '╭', border)
			case top && right:
				s.Set(x, y, '╮', border)
			case bottom && left:
				s.Set(x, y, '╰', border)
			case bottom && right:
				s.Set(x, y, '╯', border)
			case top || bottom:
				s.Set(x, y, '─', border)
			case left || right:
				s.Set(x, y, '│', border)
			default:
				s.Set(x, y, ' ', LayerNode)
			}
		}
	}
}

// Text writes text wrapped to the interior of rc, clipping what does not fit.
func (s *Surface) Text(rc image.Rectangle, text string) {
	inner := rc.Inset(1)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return
	}
	for i, line := range Wrap(text, inner.Dx()) {
		y := inner.Min.Y + i
		if y >= inner.Max.Y {
			break
		}
		x := inner.Min.X
		for _, r := range line {
			if x >= inner.Max.X {
				break
			}
			s.Set(x, y, r, LayerNode)
			x++
		}
	}
}

// Wrap word-wraps text to width columns, hard-breaking words that are longer
// than a line.
func Wrap(text string, width int) []string {
	if width < 1 {
		return nil
	}
	text = strings.ReplaceAll(text, "\t", "    ")
	return strings.Split(wrap.String(wordwrap.String(text, width), width), "\n")
}

// Line draws the segment a→b, given in pixels, with line-drawing characters
// chosen from its slope. Cells already holding something other than a link
// are left alone so links pass under nodes.
func (s *Surface) Line(a, b geom.Point, l Layer) {
	x0, y0 := CellOf(a, s.cellW, s.cellH)
	x1, y1 := CellOf(b, s.cellW, s.cellH)
	r := slopeRune(a, b, s.cellW, s.cellH)
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if s.in(x0, y0) {
			c := s.cells[y0][x0]
			if c.layer == LayerBlank || c.layer == LayerLink {
				s.Set(x0, y0, r, l)
			}
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Arrow places an arrowhead pointing along from→tip in the cell just before
// tip, so that an arrow ending on a node's border stays outside the node.
func (s *Surface) Arrow(from, tip geom.Point) {
	x, y := CellOf(tip, s.cellW, s.cellH)
	dx := (tip.X - from.X) / s.cellW
	dy := (tip.Y - from.Y) / s.cellH
	var r rune
	switch {
	case math.Abs(dx) >= math.Abs(dy) && dx >= 0:
		r, x = '▶', x-1
	case math.Abs(dx) >= math.Abs(dy):
		r, x = '◀', x+1
	case dy >= 0:
		r, y = '▼', y-1
	default:
		r, y = '▲', y+1
	}
	s.Set(x, y, r, LayerArrow)
}

func (s *Surface) Lines() []string {
	out := make([]string, s.rows)
	var b strings.Builder
	for y, row := range s.cells {
		b.Reset()
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].layer == row[start].layer && row[x].overlay == row[start].overlay {
				continue
			}
			run := make([]rune, 0, x-start)
			for _, c := range row[start:x] {
				run = append(run, c.r)
			}
			b.WriteString(s.theme.style(row[start].layer, row[start].overlay).Render(string(run)))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

// Plain returns the grid without styling.
func (s *Surface) Plain() []string {
	out := make([]string, s.rows)
	for y, row := range s.cells {
		rs := make([]rune, len(row))
		for x, c := range row {
			rs[x] = c.r
		}
		out[y] = string(rs)
	}
	return out
}

func (s *Surface) String() string { return strings.Join(s.Lines(), "\n") }

// slopeRune picks a line character for the segment's direction in cell space.
func slopeRune(a, b geom.Point, cellW, cellH float64) rune {
	dx := (b.X - a.X) / cellW
	dy := (b.Y - a.Y) / cellH
	switch {
	case math.Abs(dy) <= math.Abs(dx)*0.4:
		return '─'
	case math.Abs(dx) <= math.Abs(dy)*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// Theme holds the lipgloss styles for each layer. The zero Theme renders
// without color.
type Theme struct {
	Blank, Link, Arrow, Node, Border, Pending, Cursor lipgloss.Style
	Overlay                                           lipgloss.Style
	set                                               bool
}

// DefaultTheme is the single palette notes are drawn with.
func DefaultTheme() Theme {
	paper := lipgloss.Color("229")
	ink := lipgloss.Color("236")
	return Theme{
		Blank:   lipgloss.NewStyle(),
		Link:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Arrow:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true),
		Node:    lipgloss.NewStyle().Foreground(ink).Background(paper),
		Border:  lipgloss.NewStyle().Foreground(lipgloss.Color("136")).Background(paper),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Background(paper).Bold(true),
		Cursor:  lipgloss.NewStyle().Reverse(true),
		Overlay: lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("67")),
		set:     true,
	}
}

func (t Theme) style(l Layer, overlay bool) lipgloss.Style {
	if !t.set {
		return lipgloss.NewStyle()
	}
	if overlay && l != LayerBlank {
		return t.Overlay
	}
	switch l {
	case LayerLink:
		return t.Link
	case LayerArrow:
		return t.Arrow
	case LayerNode:
		return t.Node
	case LayerBorder:
		return t.Border
	case LayerPending:
		return t.Pending
	case LayerCursor:
		return t.Cursor
	default:
		return t.Blank
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
