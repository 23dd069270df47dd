package tui

import (
	"fmt"
	"strings"
)

var helpLines = []string{
	"Stickies Help",
	"=============",
	"",
	"Mouse:",
	"------",
	"  Left drag on a note     Move it; drag its border to resize",
	"  Left drag on empty      Pan the canvas",
	"  Right click on a note   Link from it; then click the target",
	"  Wheel                   Zoom about the pointer",
	"",
	"Notes:",
	"------",
	"  b                Add a note at the pointer and edit it",
	"  e / Enter        Edit the note under the pointer",
	"  A                Link from the note under the pointer",
	"  a                Keyboard linking: click the source, then the target",
	"  d                Delete mode: click notes or links to delete them",
	"  c                Copy the text of the note under the pointer",
	"  p                Paste clipboard text as a new note",
	"  Esc              Cancel linking or delete mode",
	"",
	"While editing:",
	"--------------",
	"  Enter            New line",
	"  Ctrl+S           Keep the text",
	"  Esc              Discard changes",
	"",
	"View:",
	"-----",
	"  h/←/j/↓/k/↑/l/→  Pan",
	"  Shift+h/j/k/l    Pan 2x faster",
	"  + / -            Zoom in / out",
	"",
	"Files:",
	"------",
	"  s                Save",
	"  S                Save as",
	"  o                Open a file in this buffer",
	"  O                Open a file in a new buffer",
	"  P                Export as PNG",
	"  T                Export the visible view as text",
	"",
	"Buffers:",
	"--------",
	"  {                Previous buffer",
	"  }                Next buffer",
	"  n                New document in this buffer",
	"  N                New document in a new buffer",
	"  x                Close this buffer",
	"",
	"General:",
	"  ?                Toggle this help screen",
	"  q/Ctrl+C         Quit",
}

func (m Model) helpView() string {
	visible := m.height - 1
	if visible < 1 {
		visible = 1
	}
	start := m.helpScroll
	if start > len(helpLines)-visible {
		start = len(helpLines) - visible
	}
	if start < 0 {
		start = 0
	}
	end := start + visible
	if end > len(helpLines) {
		end = len(helpLines)
	}

	status := fmt.Sprintf("Help (%d-%d of %d lines) | j/k to scroll, Esc to close",
		start+1, end, len(helpLines))
	return strings.Join(helpLines[start:end], "\n") + "\n" + statusStyle.Render(status)
}
