package canvas

// Mode is the document's exclusive interaction state. Panning and per-node
// gestures are tracked separately because they can run in any mode.
type Mode int

const (
	ModeIdle Mode = iota
	// ModeLinkPendingMenu waits for a target after a node asked to be linked.
	ModeLinkPendingMenu
	// ModeLinkPendingKeyboard links the next two clicked nodes.
	ModeLinkPendingKeyboard
	// ModeDelete removes clicked nodes and links.
	ModeDelete
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeLinkPendingMenu:
		return "link"
	case ModeLinkPendingKeyboard:
		return "link (keyboard)"
	case ModeDelete:
		return "delete"
	default:
		return "unknown"
	}
}
