package widget

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickies/internal/geom"
	"stickies/internal/graph"
	"stickies/internal/render"
)

type recorder struct {
	consume bool
	events  []string
}

func (r *recorder) Clicked(graph.NodeID) bool {
	r.events = append(r.events, "clicked")
	return r.consume
}
func (r *recorder) Changed(graph.NodeID) { r.events = append(r.events, "changed") }
func (r *recorder) GestureEnded(graph.NodeID) { r.events = append(r.events, "ended") }
func (r *recorder) LinkRequested(graph.NodeID) { r.events = append(r.events, "link") }

func newNode(l Listener, r geom.Rect) *Node {
	n := New(1, l)
	n.Bounds = r
	n.Container = geom.R(0, 0, 1000, 800)
	return n
}

func TestGripAt(t *testing.T) {
	n := newNode(nil, geom.R(100, 100, 140, 90))
	tests := []struct {
		name string
		p    geom.Point
		want Edges
	}{
		{"interior", geom.Pt(170, 145), EdgeNone},
		{"left", geom.Pt(102, 145), EdgeLeft},
		{"right", geom.Pt(235, 145), EdgeRight},
		{"top", geom.Pt(170, 101), EdgeTop},
		{"bottom", geom.Pt(170, 185), EdgeBottom},
		{"top-left", geom.Pt(101, 101), EdgeTop | EdgeLeft},
		{"bottom-right", geom.Pt(239, 189), EdgeBottom | EdgeRight},
		{"outside", geom.Pt(50, 50), EdgeNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.GripAt(tt.p), "got %s", n.GripAt(tt.p))
		})
	}
}

func TestEdgesString(t *testing.T) {
	assert.Equal(t, "none", EdgeNone.String())
	assert.Equal(t, "top-left", (EdgeLeft | EdgeTop).String())
	assert.Equal(t, "bottom-right", (EdgeBottom | EdgeRight).String())
}

func TestMoveGesture(t *testing.T) {
	rec := &recorder{}
	n := newNode(rec, geom.R(100, 100, 140, 90))
	require.True(t, n.Press(geom.Pt(170, 145)))
	assert.True(t, n.Active())
	assert.Equal(t, EdgeNone, n.Resizing())

	n.Drag(geom.Pt(180, 150))
	n.Drag(geom.Pt(200, 175))
	assert.Equal(t, geom.R(130, 130, 140, 90), n.Bounds)

	n.Release()
	assert.False(t, n.Active())
	assert.Equal(t, []string{"clicked", "changed", "changed", "ended"}, rec.events)
}

func TestResizeBottomRightClampsAndPinsTopLeft(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, 100, 140, 90))
	require.True(t, n.Press(geom.Pt(239, 189)))
	require.Equal(t, EdgeBottom|EdgeRight, n.Resizing())

	n.Drag(geom.Pt(100, 120))
	assert.Equal(t, graph.MinWidth, n.Bounds.W)
	assert.Equal(t, graph.MinHeight, n.Bounds.H)
	assert.Equal(t, geom.Pt(100, 100), n.Bounds.Min())
}

func TestResizeTopLeftPinsBottomRight(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, 100, 140, 90))
	require.True(t, n.Press(geom.Pt(101, 101)))

	n.Drag(geom.Pt(400, 400))
	assert.Equal(t, graph.MinWidth, n.Bounds.W)
	assert.Equal(t, graph.MinHeight, n.Bounds.H)
	assert.Equal(t, geom.Pt(240, 190), n.Bounds.Max())
}

func TestResizeUsesOriginalRect(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, 100, 140, 90))
	require.True(t, n.Press(geom.Pt(235, 145)))

	// Shrink past the minimum and come back: no drift from the clamp.
	n.Drag(geom.Pt(0, 145))
	n.Drag(geom.Pt(245, 145))
	assert.Equal(t, geom.R(100, 100, 150, 90), n.Bounds)
}

func TestGesturesStayInContainer(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, 100, 140, 90))
	require.True(t, n.Press(geom.Pt(170, 145)))
	n.Drag(geom.Pt(-500, -500))
	assert.Equal(t, geom.Pt(0, 0), n.Bounds.Min())
	n.Release()

	require.True(t, n.Press(geom.Pt(139, 89)))
	require.Equal(t, EdgeBottom|EdgeRight, n.Resizing())
	n.Drag(geom.Pt(5000, 5000))
	assert.Equal(t, geom.Pt(1000, 800), n.Bounds.Max())
	assert.Equal(t, geom.Pt(0, 0), n.Bounds.Min())
}

func TestMoveNeverResizesOversizeNode(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, -8, 200, 384))
	n.Container = geom.R(0, 0, 640, 368)
	require.True(t, n.Press(geom.Pt(200, 150)))
	require.Equal(t, EdgeNone, n.Resizing())

	n.Drag(geom.Pt(208, 158))
	assert.Equal(t, geom.R(108, -8, 200, 384), n.Bounds, "taller than the container: y stays put")
	n.Release()

	n.Bounds = geom.R(-40, -8, 720, 384)
	require.True(t, n.Press(geom.Pt(300, 150)))
	n.Drag(geom.Pt(308, 158))
	assert.Equal(t, geom.R(-40, -8, 720, 384), n.Bounds)
}

func TestConsumedPressStartsNoGesture(t *testing.T) {
	rec := &recorder{consume: true}
	n := newNode(rec, geom.R(100, 100, 140, 90))
	assert.False(t, n.Press(geom.Pt(170, 145)))
	n.Drag(geom.Pt(300, 300))
	n.Release()
	assert.Equal(t, geom.R(100, 100, 140, 90), n.Bounds)
	assert.Equal(t, []string{"clicked"}, rec.events)
}

func TestProjectIsIgnoredDuringGesture(t *testing.T) {
	n := newNode(&recorder{}, geom.R(100, 100, 140, 90))
	n.Project(geom.R(0, 0, 140, 90))
	assert.Equal(t, geom.R(0, 0, 140, 90), n.Bounds)

	require.True(t, n.Press(geom.Pt(70, 45)))
	n.Project(geom.R(500, 500, 140, 90))
	assert.Equal(t, geom.R(0, 0, 140, 90), n.Bounds)
}

func TestRequestLink(t *testing.T) {
	rec := &recorder{}
	n := newNode(rec, geom.R(0, 0, 100, 50))
	n.RequestLink()
	assert.Equal(t, []string{"link"}, rec.events)
}

func TestDraw(t *testing.T) {
	s := render.NewSurface(20, 6, 8, 16, render.Theme{})
	n := newNode(nil, geom.R(0, 0, 80, 64))
	n.Text = "hi"
	n.Draw(s)
	lines := s.Plain()
	assert.True(t, strings.HasPrefix(lines[0], "╭────────╮"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "│hi"), lines[1])
	assert.True(t, strings.HasPrefix(lines[3], "╰────────╯"), lines[3])
}
