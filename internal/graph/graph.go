// Package graph holds the node/link model of one document.
//
// Nodes live in an arena addressed by NodeID. Each node's Rect is its logical
// (world-space) bounds and is the single source of truth for where the node
// is; screen rectangles are always derived from it.
//
// Links are an unvalidated directed multigraph: parallel links are kept and
// self-links are not rejected here. The only invariant the model enforces is
// that a link never outlives either of its endpoints.
package graph

import (
	"fmt"

	"stickies/internal/geom"
)

const (
	MinWidth  = 80.0
	MinHeight = 40.0
)

// NodeID identifies a node for the lifetime of a Graph. IDs are never reused.
type NodeID int

// None is the zero value returned where no node applies.
const None NodeID = -1

type Node struct {
	ID       NodeID
	Rect     geom.Rect
	Text     string
	Selected bool
}

type Link struct {
	From, To NodeID
}

func (l Link) Touches(id NodeID) bool { return l.From == id || l.To == id }

type Graph struct {
	nodes  []*Node
	index  map[NodeID]*Node
	links  []Link
	nextID NodeID
}

func New() *Graph {
	return &Graph{
		nodes: make([]*Node, 0),
		index: make(map[NodeID]*Node),
		links: make([]Link, 0),
	}
}

// AddNode appends a node and returns its id. The rectangle is grown to the
// minimum size if needed.
func (g *Graph) AddNode(text string, rect geom.Rect) NodeID {
	id := g.nextID
	g.nextID++
	n := &Node{ID: id, Rect: ClampSize(rect), Text: text}
	g.nodes = append(g.nodes, n)
	g.index[id] = n
	return id
}

// RemoveNode deletes the node and every link touching it.
func (g *Graph) RemoveNode(id NodeID) bool {
	if _, ok := g.index[id]; !ok {
		return false
	}
	delete(g.index, id)
	for i, n := range g.nodes {
		if n.ID == id {
			g.nodes = append(g.nodes[:i], g.nodes[i+1:]...)
			break
		}
	}
	g.RemoveLinks(func(l Link) bool { return l.Touches(id) })
	return true
}

// AddLink appends from→to. Nothing is checked; callers keep from != to and
// both endpoints present.
func (g *Graph) AddLink(from, to NodeID) {
	g.links = append(g.links, Link{From: from, To: to})
}

// RemoveLinks drops every link matching pred and returns how many went.
func (g *Graph) RemoveLinks(pred func(Link) bool) int {
	kept := g.links[:0]
	removed := 0
	for _, l := range g.links {
		if pred(l) {
			removed++
			continue
		}
		kept = append(kept, l)
	}
	g.links = kept
	return removed
}

func (g *Graph) RemoveLinkAt(i int) bool {
	if i < 0 || i >= len(g.links) {
		return false
	}
	g.links = append(g.links[:i], g.links[i+1:]...)
	return true
}

func (g *Graph) Clear() {
	g.nodes = g.nodes[:0]
	g.index = make(map[NodeID]*Node)
	g.links = g.links[:0]
}

func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.index[id]
	return n, ok
}

// Nodes returns the nodes in insertion order. The slice is shared; do not
// modify it.
func (g *Graph) Nodes() []*Node { return g.nodes }

func (g *Graph) Links() []Link { return g.links }

func (g *Graph) Len() int { return len(g.nodes) }

func (g *Graph) Empty() bool { return len(g.nodes) == 0 && len(g.links) == 0 }

// IndexOf returns the insertion-order position of id, or -1.
func (g *Graph) IndexOf(id NodeID) int {
	for i, n := range g.nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func (g *Graph) SetRect(id NodeID, r geom.Rect) bool {
	n, ok := g.index[id]
	if !ok {
		return false
	}
	n.Rect = ClampSize(r)
	return true
}

func (g *Graph) SetText(id NodeID, text string) bool {
	n, ok := g.index[id]
	if !ok {
		return false
	}
	n.Text = text
	return true
}

func (g *Graph) SetSelected(id NodeID, on bool) {
	if n, ok := g.index[id]; ok {
		n.Selected = on
	}
}

func (g *Graph) ClearSelection() {
	for _, n := range g.nodes {
		n.Selected = false
	}
}

// Check returns an error if any link references a node not in the graph.
func (g *Graph) Check() error {
	for i, l := range g.links {
		if _, ok := g.index[l.From]; !ok {
			return fmt.Errorf("link %d: dangling source %d", i, l.From)
		}
		if _, ok := g.index[l.To]; !ok {
			return fmt.Errorf("link %d: dangling target %d", i, l.To)
		}
	}
	return nil
}

// ClampSize grows r to at least MinWidth x MinHeight, keeping its origin.
func ClampSize(r geom.Rect) geom.Rect {
	if r.W < MinWidth {
		r.W = MinWidth
	}
	if r.H < MinHeight {
		r.H = MinHeight
	}
	return r
}
