package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"stickies/internal/canvas"
	"stickies/internal/geom"
	"stickies/internal/render"
)

// screen is the terminal geometry shared by every buffer.
type screen struct {
	cols, rows   int // canvas area in cells
	top          int // first terminal row of the canvas
	cellW, cellH float64
}

func (s *screen) area() geom.Rect {
	return geom.R(0, 0, float64(s.cols)*s.cellW, float64(s.rows)*s.cellH)
}

// pixel maps a terminal cell to the device pixel at its center, reporting
// whether the cell lies on the canvas.
func (s *screen) pixel(x, y int) (geom.Point, bool) {
	y -= s.top
	return render.PixelOf(x, y, s.cellW, s.cellH), x >= 0 && y >= 0 && x < s.cols && y < s.rows
}

// buffer is one open document and the cached rendering of it.
type buffer struct {
	doc     *canvas.Document
	scr     *screen
	dirty   bool
	lines   []string
	savedAt time.Time
}

func (b *buffer) ClientArea() geom.Rect { return b.scr.area() }

func (b *buffer) Invalidate() { b.dirty = true }

// render returns the canvas lines, redrawing only after an invalidation or a
// resize.
func (b *buffer) render(theme render.Theme) []string {
	if !b.dirty && len(b.lines) == b.scr.rows {
		return b.lines
	}
	s := render.NewSurface(b.scr.cols, b.scr.rows, b.scr.cellW, b.scr.cellH, theme)
	b.doc.Draw(s)
	b.lines = s.Lines()
	b.dirty = false
	return b.lines
}

var (
	barStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	barActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
)

// bufferBar lists open buffers, highlighting the current one. It is only
// shown with more than one buffer.
func (m Model) bufferBar() string {
	parts := make([]string, len(m.buffers))
	for i, b := range m.buffers {
		name := fmt.Sprintf("%d:%s", i+1, b.doc.SuggestedTitle())
		if i == m.current {
			parts[i] = barActiveStyle.Render("[" + name + "]")
		} else {
			parts[i] = barStyle.Render(" " + name + " ")
		}
	}
	return lipgloss.NewStyle().MaxWidth(m.width).Render(strings.Join(parts, barStyle.Render("|")))
}
