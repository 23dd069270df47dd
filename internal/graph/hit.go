package graph

import "stickies/internal/geom"

// NodeAt returns the topmost node whose screen rectangle contains p. Nodes are
// drawn in insertion order, so the search runs newest first. screen maps a
// node to its current screen rectangle.
func (g *Graph) NodeAt(p geom.Point, screen func(NodeID) geom.Rect) (NodeID, bool) {
	for i := len(g.nodes) - 1; i >= 0; i-- {
		id := g.nodes[i].ID
		if screen(id).Contains(p) {
			return id, true
		}
	}
	return None, false
}

// LinkNear returns the index of the link whose center-to-center segment is
// closest to p, provided it is within threshold. Links are scanned newest
// first and only a strictly closer link replaces the current best, so ties go
// to the most recently added link.
func (g *Graph) LinkNear(p geom.Point, threshold float64, center func(NodeID) geom.Point) (int, bool) {
	best, bestDist := -1, threshold
	for i := len(g.links) - 1; i >= 0; i-- {
		l := g.links[i]
		d := geom.DistToSegment(p, center(l.From), center(l.To))
		if d > threshold {
			continue
		}
		if best == -1 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, best >= 0
}
