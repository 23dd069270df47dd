package geom

import "math"

// Viewport is the pan/zoom pair owned by a document.
type Viewport struct {
	Pan  Point
	Zoom float64
}

// Identity is the viewport of a blank document.
func Identity() Viewport { return Viewport{Zoom: 1} }

func (v Viewport) ToScreen(p Point) Point { return WorldToScreen(p, v.Pan, v.zoom()) }
func (v Viewport) ToWorld(p Point) Point { return ScreenToWorld(p, v.Pan, v.zoom()) }

func (v Viewport) RectToScreen(r Rect) Rect { return RectToScreen(r, v.Pan, v.zoom()) }
func (v Viewport) RectToWorld(r Rect) Rect { return RectToWorld(r, v.Pan, v.zoom()) }

// ZoomAt sets the zoom to the clamped value of zoom while keeping the world
// point under cursor fixed on screen.
func (v Viewport) ZoomAt(cursor Point, zoom float64) Viewport {
	anchor := v.ToWorld(cursor)
	v.Zoom = ClampZoom(zoom)
	v.Pan = cursor.Sub(anchor.Mul(v.Zoom))
	return v
}

// ZoomSteps scales the zoom geometrically by step^n about cursor.
func (v Viewport) ZoomSteps(cursor Point, step float64, n int) Viewport {
	return v.ZoomAt(cursor, v.zoom()*math.Pow(step, float64(n)))
}

func (v Viewport) PanBy(d Point) Viewport {
	v.Pan = v.Pan.Add(d)
	return v
}

// zoom guards against a zero-value Viewport.
func (v Viewport) zoom() float64 {
	if v.Zoom == 0 {
		return 1
	}
	return ClampZoom(v.Zoom)
}
