// Package geom maps between world coordinates, where nodes live, and screen
// coordinates, where the pointer and the renderer live.
//
// Screen space is measured in device pixels. The mapping is the affine
// transform
//
//	screen = world*zoom + pan
//	world  = (screen - pan) / zoom
//
// with zoom clamped to [MinZoom, MaxZoom] so the inverse always exists.
// Everything here is a pure function of its arguments.
package geom

import (
	"image"
	"math"
)

const (
	MinZoom = 0.2
	MaxZoom = 4.0
)

// Point is a position in either world or screen space.
type Point struct {
	X, Y float64
}

func Pt(x, y float64) Point { return Point{X: x, Y: y} }

func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle given by its top-left corner and extent.
type Rect struct {
	X, Y, W, H float64
}

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Min() Point { return Point{r.X, r.Y} }
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }
func (r Rect) Right() float64 { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y + r.H }

func (r Rect) Center() Point {
	return Point{r.X + r.W/2, r.Y + r.H/2}
}

// Contains reports whether p lies inside r. The right and bottom edges are
// exclusive, matching image.Rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

func (r Rect) Translate(d Point) Rect {
	return Rect{r.X + d.X, r.Y + d.Y, r.W, r.H}
}

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// KeepInside shifts r so that it lies inside c without changing its size. On
// an axis where r is larger than c, r takes the coordinate of pinned.
func (r Rect) KeepInside(c, pinned Rect) Rect {
	if c.Empty() {
		return r
	}
	if r.W <= c.W {
		r.X = clamp(r.X, c.X, c.Right()-r.W)
	} else {
		r.X = pinned.X
	}
	if r.H <= c.H {
		r.Y = clamp(r.Y, c.Y, c.Bottom()-r.H)
	} else {
		r.Y = pinned.Y
	}
	return r
}

// Pixels rounds r to whole device pixels for on-screen placement. The result
// must never be fed back into a logical rectangle.
func (r Rect) Pixels() image.Rectangle {
	x0 := int(math.Round(r.X))
	y0 := int(math.Round(r.Y))
	return image.Rect(x0, y0, x0+int(math.Round(r.W)), y0+int(math.Round(r.H)))
}

func (r Rect) Eq(s Rect, eps float64) bool {
	return math.Abs(r.X-s.X) <= eps && math.Abs(r.Y-s.Y) <= eps &&
		math.Abs(r.W-s.W) <= eps && math.Abs(r.H-s.H) <= eps
}

// BorderPoint returns where the segment from p to r's center crosses r's
// border. If p is inside r, p itself is returned.
func (r Rect) BorderPoint(p Point) Point {
	c := r.Center()
	d := p.Sub(c)
	if d.X == 0 && d.Y == 0 {
		return c
	}
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, r.W/2/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, r.H/2/math.Abs(d.Y))
	}
	if t > 1 {
		t = 1
	}
	return c.Add(d.Mul(t))
}

func WorldToScreen(p, pan Point, zoom float64) Point {
	return Point{p.X*zoom + pan.X, p.Y*zoom + pan.Y}
}

func ScreenToWorld(p, pan Point, zoom float64) Point {
	return Point{(p.X - pan.X) / zoom, (p.Y - pan.Y) / zoom}
}

func RectToScreen(r Rect, pan Point, zoom float64) Rect {
	o := WorldToScreen(r.Min(), pan, zoom)
	return Rect{o.X, o.Y, r.W * zoom, r.H * zoom}
}

func RectToWorld(r Rect, pan Point, zoom float64) Rect {
	o := ScreenToWorld(r.Min(), pan, zoom)
	return Rect{o.X, o.Y, r.W / zoom, r.H / zoom}
}

func ClampZoom(z float64) float64 {
	if math.IsNaN(z) {
		return 1
	}
	return clamp(z, MinZoom, MaxZoom)
}

// DistToSegment returns the distance from p to the segment ab. The projection
// of p onto the line is clamped to the segment's endpoints.
func DistToSegment(p, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = clamp(t, 0, 1)
	return p.Dist(Point{a.X + t*dx, a.Y + t*dy})
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
