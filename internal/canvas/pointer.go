package canvas

import (
	"stickies/internal/geom"
	"stickies/internal/graph"
)

// PointerDown handles a primary-button press at a screen point.
func (d *Document) PointerDown(p geom.Point) {
	d.pointer = p
	d.endGesture()
	if id, ok := d.NodeAt(p); ok {
		if d.widgets[id].Press(p) {
			d.active = id
		}
		return
	}

	switch d.mode {
	case ModeDelete:
		d.deleteLinkNear(p)
		return
	case ModeLinkPendingMenu:
		d.CancelModes()
	}
	d.panning = true
	d.last = p
}

// PointerMove pans or drives the active gesture.
func (d *Document) PointerMove(p geom.Point) {
	d.pointer = p
	switch {
	case d.panning:
		delta := p.Sub(d.last)
		d.last = p
		d.view = d.view.PanBy(delta)
		d.reproject()
	case d.active != graph.None:
		d.widgets[d.active].Drag(p)
	case d.mode == ModeLinkPendingMenu:
		d.invalidate()
	}
}

// PointerUp ends panning and any gesture.
func (d *Document) PointerUp(p geom.Point) {
	d.pointer = p
	d.PointerLeave()
}

func (d *Document) PointerLeave() {
	d.panning = false
	d.endGesture()
}

// SecondaryClick asks the node under p to start a link.
func (d *Document) SecondaryClick(p geom.Point) bool {
	d.pointer = p
	id, ok := d.NodeAt(p)
	if !ok {
		return false
	}
	d.RequestLink(id)
	return true
}

// Wheel zooms about p by ZoomStep per step; negative steps zoom out.
func (d *Document) Wheel(p geom.Point, steps int) {
	d.zoomSteps(p, steps)
}

func (d *Document) deleteLinkNear(p geom.Point) {
	i, ok := d.g.LinkNear(p, d.opts.LinkThreshold, d.center)
	if !ok {
		return
	}
	l := d.g.Links()[i]
	d.g.RemoveLinkAt(i)
	d.touch()
	d.log.Debug("link removed", "from", l.From, "to", l.To)
}

// nodeClicked routes a click on a node by mode. It returns true when the
// click was used up and no gesture should start.
func (d *Document) nodeClicked(id graph.NodeID) bool {
	switch d.mode {
	case ModeDelete:
		d.RemoveNode(id)
		return true
	case ModeLinkPendingKeyboard:
		if d.first == graph.None {
			d.first = id
			d.selectNode(id)
			d.invalidate()
			return true
		}
		if id != d.first {
			d.AddLink(d.first, id)
		}
		d.CancelModes()
		return true
	case ModeLinkPendingMenu:
		if id == d.source {
			return true
		}
		d.AddLink(d.source, id)
		d.CancelModes()
		return true
	}
	return false
}

func (d *Document) linkRequested(id graph.NodeID) {
	d.clearPending()
	d.clearSelection()
	d.source = id
	d.setMode(ModeLinkPendingMenu)
	if w, ok := d.widgets[id]; ok {
		w.LinkSource = true
	}
}

// gestureEnded writes the widget's final screen rectangle back to the model.
func (d *Document) gestureEnded(id graph.NodeID) {
	w, ok := d.widgets[id]
	if !ok {
		return
	}
	n, _ := d.g.Node(id)
	world := d.view.RectToWorld(w.Bounds)
	if n != nil && !world.Eq(n.Rect, 1e-9) {
		d.g.SetRect(id, world)
		d.modified = true
	}
	if d.active == id {
		d.active = graph.None
	}
	d.sync(id)
	d.invalidate()
}

// listener adapts widget notifications to the document.
type listener struct{ d *Document }

func (l listener) Clicked(id graph.NodeID) bool { return l.d.nodeClicked(id) }
func (l listener) Changed(graph.NodeID) { l.d.invalidate() }
func (l listener) GestureEnded(id graph.NodeID) { l.d.gestureEnded(id) }
func (l listener) LinkRequested(id graph.NodeID) { l.d.linkRequested(id) }
