package canvas

import (
	"stickies/internal/graph"
	"stickies/internal/render"
)

// Draw paints links and nodes onto s. Links run between node centers and
// are drawn first so nodes cover them; arrowheads go on last, just outside
// the target's border.
func (d *Document) Draw(s *render.Surface) {
	links := d.g.Links()
	for _, l := range links {
		s.Line(d.center(l.From), d.center(l.To), render.LayerLink)
	}
	if d.mode == ModeLinkPendingMenu && d.source != graph.None {
		s.Line(d.center(d.source), d.pointer, render.LayerPending)
	}

	for _, n := range d.g.Nodes() {
		if w, ok := d.widgets[n.ID]; ok {
			w.Draw(s)
		}
	}

	for _, l := range links {
		if l.From == l.To {
			continue
		}
		from := d.center(l.From)
		to := d.screenRect(l.To)
		s.Arrow(from, to.BorderPoint(from))
	}
}
