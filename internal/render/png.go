package render

import (
	"image/color"
	"math"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"stickies/internal/errs"
	"stickies/internal/geom"
	"stickies/internal/graph"
)

const (
	pngPadding  = 24.0
	pngFontSize = 12.0
	pngLineGap  = 1.3
	pngInset    = 8.0
)

var (
	pngPaper  = color.RGBA{0xff, 0xf5, 0x9d, 0xff}
	pngBorder = color.RGBA{0xc9, 0xa2, 0x27, 0xff}
	pngInk    = color.RGBA{0x30, 0x30, 0x30, 0xff}
	pngLink   = color.RGBA{0x55, 0x55, 0x55, 0xff}
)

// ExportPNG draws g in world space, one world unit per pixel, cropped to the
// nodes' bounding box plus padding.
func ExportPNG(filename string, g *graph.Graph) error {
	if g.Len() == 0 {
		return errs.New(errs.CodeNothingToExport, "nothing to export")
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes() {
		minX = math.Min(minX, n.Rect.X)
		minY = math.Min(minY, n.Rect.Y)
		maxX = math.Max(maxX, n.Rect.Right())
		maxY = math.Max(maxY, n.Rect.Bottom())
	}
	origin := geom.Pt(minX-pngPadding, minY-pngPadding)
	width := int(math.Ceil(maxX - minX + 2*pngPadding))
	height := int(math.Ceil(maxY - minY + 2*pngPadding))

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return errs.Wrap(errs.CodeInternal, err, "parse font")
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{
		Size:    pngFontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	dc.SetFontFace(face)

	rect := func(id graph.NodeID) geom.Rect {
		n, _ := g.Node(id)
		return n.Rect.Translate(origin.Mul(-1))
	}

	// Links first so that nodes cover their center-to-center segments.
	for _, l := range g.Links() {
		from, to := rect(l.From), rect(l.To)
		a, b := from.Center(), to.Center()
		dc.SetLineWidth(1.5)
		dc.SetColor(pngLink)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
		dc.Stroke()
		drawArrowPNG(dc, a, to.BorderPoint(a))
	}

	for _, n := range g.Nodes() {
		drawNodePNG(dc, n, rect(n.ID))
	}

	if err := dc.SavePNG(filename); err != nil {
		return errs.Wrap(errs.CodeIO, err, "write %s", filename)
	}
	return nil
}

func drawArrowPNG(dc *gg.Context, from, tip geom.Point) {
	dx := tip.X - from.X
	dy := tip.Y - from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 10.0
	arrowAngle := 0.5

	baseX1 := tip.X - arrowSize*dx + arrowSize*dy*arrowAngle
	baseY1 := tip.Y - arrowSize*dy - arrowSize*dx*arrowAngle
	baseX2 := tip.X - arrowSize*dx - arrowSize*dy*arrowAngle
	baseY2 := tip.Y - arrowSize*dy + arrowSize*dx*arrowAngle

	dc.SetColor(pngLink)
	dc.MoveTo(tip.X, tip.Y)
	dc.LineTo(baseX1, baseY1)
	dc.LineTo(baseX2, baseY2)
	dc.ClosePath()
	dc.Fill()
}

func drawNodePNG(dc *gg.Context, n *graph.Node, r geom.Rect) {
	dc.SetColor(pngPaper)
	dc.DrawRoundedRectangle(r.X, r.Y, r.W, r.H, 4)
	dc.FillPreserve()
	dc.SetColor(pngBorder)
	dc.SetLineWidth(1.0)
	dc.Stroke()

	charW, _ := dc.MeasureString("M")
	lineH := dc.FontHeight() * pngLineGap
	cols := int((r.W - 2*pngInset) / charW)
	dc.SetColor(pngInk)
	y := r.Y + pngInset + dc.FontHeight()
	for _, line := range Wrap(n.Text, cols) {
		if y > r.Bottom()-pngInset {
			break
		}
		dc.DrawString(line, r.X+pngInset, y)
		y += lineH
	}
}

// PNGName derives an image filename from a document path.
func PNGName(docPath string) string {
	if docPath == "" {
		return "untitled.png"
	}
	return strings.TrimSuffix(docPath, filepath.Ext(docPath)) + ".png"
}
