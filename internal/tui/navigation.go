package tui

import "stickies/internal/geom"

// panCells is how far one pan key moves the view, in cells.
const panCells = 4

// handlePan moves the view for a direction key. Moving "right" reveals what
// is to the right, so the content shifts left.
func (m *Model) handlePan(key string) bool {
	b := m.buffer()
	if b == nil {
		return false
	}
	speed := float64(panCells * moveSpeed(key))
	dx, dy := speed*m.scr.cellW, speed*m.scr.cellH/2
	var d geom.Point
	switch key {
	case "h", "left", "H", "shift+left":
		d = geom.Pt(dx, 0)
	case "l", "right", "L", "shift+right":
		d = geom.Pt(-dx, 0)
	case "k", "up", "K", "shift+up":
		d = geom.Pt(0, dy)
	case "j", "down", "J", "shift+down":
		d = geom.Pt(0, -dy)
	default:
		return false
	}
	b.doc.PanBy(d)
	return true
}

func moveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
