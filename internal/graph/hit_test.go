package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stickies/internal/geom"
)

func identity(g *Graph) (func(NodeID) geom.Rect, func(NodeID) geom.Point) {
	rect := func(id NodeID) geom.Rect {
		n, _ := g.Node(id)
		return n.Rect
	}
	center := func(id NodeID) geom.Point { return rect(id).Center() }
	return rect, center
}

func TestNodeAtPrefersTopmost(t *testing.T) {
	g := New()
	a := g.AddNode("a", geom.R(0, 0, 100, 100))
	b := g.AddNode("b", geom.R(50, 50, 100, 100))
	rect, _ := identity(g)

	id, ok := g.NodeAt(geom.Pt(75, 75), rect)
	assert.True(t, ok)
	assert.Equal(t, b, id)

	id, ok = g.NodeAt(geom.Pt(10, 10), rect)
	assert.True(t, ok)
	assert.Equal(t, a, id)

	_, ok = g.NodeAt(geom.Pt(500, 500), rect)
	assert.False(t, ok)
}

func TestLinkNear(t *testing.T) {
	g := New()
	a := g.AddNode("a", geom.R(0, 0, 100, 100))   // center 50,50
	b := g.AddNode("b", geom.R(300, 0, 100, 100)) // center 350,50
	c := g.AddNode("c", geom.R(0, 300, 100, 100)) // center 50,350
	g.AddLink(a, b)
	g.AddLink(a, c)
	_, center := identity(g)

	i, ok := g.LinkNear(geom.Pt(200, 54), 6, center)
	assert.True(t, ok)
	assert.Equal(t, 0, i)

	i, ok = g.LinkNear(geom.Pt(47, 200), 6, center)
	assert.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = g.LinkNear(geom.Pt(200, 70), 6, center)
	assert.False(t, ok)

	// Past the segment's end the clamped projection measures to the endpoint.
	_, ok = g.LinkNear(geom.Pt(360, 50), 6, center)
	assert.False(t, ok)
}

func TestLinkNearTieGoesToNewest(t *testing.T) {
	g := New()
	a := g.AddNode("a", geom.R(0, 0, 100, 100))
	b := g.AddNode("b", geom.R(300, 0, 100, 100))
	g.AddLink(a, b)
	g.AddLink(b, a)
	_, center := identity(g)

	i, ok := g.LinkNear(geom.Pt(200, 52), 6, center)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
}
