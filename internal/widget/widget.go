// Package widget implements the on-screen projection of a graph node: it
// turns pointer gestures on the node into move, resize, click and
// link-request notifications, and draws the node onto a cell surface.
//
// A Node works purely in screen space. Outside of a gesture its Bounds are
// whatever the owner projected from the node's world rectangle. During a
// gesture the widget owns Bounds until Release.
package widget

import (
	"math"
	"strings"

	"stickies/internal/geom"
	"stickies/internal/graph"
	"stickies/internal/render"
)

// DefaultGripMargin is the width of the resize bands along a node's border,
// in device pixels.
const DefaultGripMargin = 10.0

// Edges is the set of borders a resize gesture moves.
type Edges uint8

const (
	EdgeLeft Edges = 1 << iota
	EdgeTop
	EdgeRight
	EdgeBottom

	EdgeNone Edges = 0
)

func (e Edges) Has(f Edges) bool { return e&f != 0 }

func (e Edges) String() string {
	if e == EdgeNone {
		return "none"
	}
	var parts []string
	for _, x := range []struct {
		e    Edges
		name string
	}{{EdgeTop, "top"}, {EdgeBottom, "bottom"}, {EdgeLeft, "left"}, {EdgeRight, "right"}} {
		if e.Has(x.e) {
			parts = append(parts, x.name)
		}
	}
	return strings.Join(parts, "-")
}

// Listener receives a node's notifications. Clicked is asked first on every
// press; returning true consumes the press and no gesture starts.
type Listener interface {
	Clicked(id graph.NodeID) bool
	Changed(id graph.NodeID)
	GestureEnded(id graph.NodeID)
	LinkRequested(id graph.NodeID)
}

type gestureKind int

const (
	gestureNone gestureKind = iota
	gestureMove
	gestureResize
)

type gesture struct {
	kind  gestureKind
	edges Edges
	start geom.Point
	orig  geom.Rect
}

// Node is the interactive projection of one graph node.
type Node struct {
	ID       graph.NodeID
	Bounds   geom.Rect
	Text     string
	Selected bool
	// LinkSource marks the node a pending link starts from.
	LinkSource bool

	// Container is the client area the node must stay inside. The zero
	// rect disables clamping.
	Container geom.Rect
	// MinSize is the smallest screen size a resize may produce.
	MinSize    geom.Point
	GripMargin float64

	listener Listener
	g        gesture
}

func New(id graph.NodeID, l Listener) *Node {
	return &Node{
		ID:         id,
		MinSize:    geom.Pt(graph.MinWidth, graph.MinHeight),
		GripMargin: DefaultGripMargin,
		listener:   l,
	}
}

func (n *Node) Center() geom.Point { return n.Bounds.Center() }

func (n *Node) Contains(p geom.Point) bool { return n.Bounds.Contains(p) }

// Active reports whether a move or resize gesture is in progress.
func (n *Node) Active() bool { return n.g.kind != gestureNone }

// Resizing reports the edges of the resize in progress, if any.
func (n *Node) Resizing() Edges {
	if n.g.kind != gestureResize {
		return EdgeNone
	}
	return n.g.edges
}

// Project replaces the screen bounds unless a gesture owns them.
func (n *Node) Project(r geom.Rect) {
	if !n.Active() {
		n.Bounds = r
	}
}

// GripAt returns the resize edges for a press at p, EdgeNone for the interior
// or for points outside the node. Bands shrink on small nodes so that a
// movable interior always remains.
func (n *Node) GripAt(p geom.Point) Edges {
	b := n.Bounds
	if !b.Contains(p) {
		return EdgeNone
	}
	mx := math.Min(n.GripMargin, b.W/3)
	my := math.Min(n.GripMargin, b.H/3)
	var e Edges
	switch {
	case p.X < b.X+mx:
		e |= EdgeLeft
	case p.X >= b.Right()-mx:
		e |= EdgeRight
	}
	switch {
	case p.Y < b.Y+my:
		e |= EdgeTop
	case p.Y >= b.Bottom()-my:
		e |= EdgeBottom
	}
	return e
}

// Press handles a primary-button press at p. It returns true when a gesture
// started.
func (n *Node) Press(p geom.Point) bool {
	if n.listener != nil && n.listener.Clicked(n.ID) {
		return false
	}
	n.g = gesture{kind: gestureMove, start: p, orig: n.Bounds}
	if e := n.GripAt(p); e != EdgeNone {
		n.g.kind = gestureResize
		n.g.edges = e
	}
	return true
}

// Drag updates the gesture in progress for a pointer now at p. The result is
// computed from the rectangle captured at Press plus the total delta.
func (n *Node) Drag(p geom.Point) {
	if !n.Active() {
		return
	}
	d := p.Sub(n.g.start)
	var r geom.Rect
	if n.g.kind == gestureMove {
		r = n.g.orig.Translate(d).KeepInside(n.Container, n.g.orig)
	} else {
		r = resize(n.g.orig, n.g.edges, d, n.MinSize, n.Container)
	}
	if r == n.Bounds {
		return
	}
	n.Bounds = r
	if n.listener != nil {
		n.listener.Changed(n.ID)
	}
}

// Release ends the gesture in progress.
func (n *Node) Release() {
	if !n.Active() {
		return
	}
	n.g = gesture{}
	if n.listener != nil {
		n.listener.GestureEnded(n.ID)
	}
}

// RequestLink asks the owner to start a link from this node.
func (n *Node) RequestLink() {
	if n.listener != nil {
		n.listener.LinkRequested(n.ID)
	}
}

// resize moves the edges of orig by d. A moving left/top edge is pinned so
// the opposite edge stays put when the size reaches minSize.
func resize(orig geom.Rect, e Edges, d, minSize geom.Point, c geom.Rect) geom.Rect {
	x0, y0 := orig.X, orig.Y
	x1, y1 := orig.Right(), orig.Bottom()

	if e.Has(EdgeLeft) {
		x0 += d.X
		if !c.Empty() {
			x0 = math.Max(x0, c.X)
		}
		x0 = math.Min(x0, x1-minSize.X)
	}
	if e.Has(EdgeRight) {
		x1 += d.X
		if !c.Empty() {
			x1 = math.Min(x1, c.Right())
		}
		x1 = math.Max(x1, x0+minSize.X)
	}
	if e.Has(EdgeTop) {
		y0 += d.Y
		if !c.Empty() {
			y0 = math.Max(y0, c.Y)
		}
		y0 = math.Min(y0, y1-minSize.Y)
	}
	if e.Has(EdgeBottom) {
		y1 += d.Y
		if !c.Empty() {
			y1 = math.Min(y1, c.Bottom())
		}
		y1 = math.Max(y1, y0+minSize.Y)
	}
	r := geom.R(x0, y0, x1-x0, y1-y0)
	return r.KeepInside(c, r)
}

// Draw renders the node onto s.
func (n *Node) Draw(s *render.Surface) {
	rc := s.CellRect(n.Bounds)
	border := render.LayerBorder
	if n.LinkSource {
		border = render.LayerPending
	}
	s.Box(rc, border)
	s.Text(rc, n.Text)
	if n.Selected {
		s.Overlay(rc)
	}
}
