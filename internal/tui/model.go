// Package tui hosts canvas documents in a bubbletea program: it maps mouse
// cells to device pixels, binds keys to document commands, and supplies the
// file prompts, text editor and buffer list the engine leaves to its host.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"stickies/internal/canvas"
	"stickies/internal/config"
	"stickies/internal/errs"
	"stickies/internal/geom"
	"stickies/internal/graph"
	"stickies/internal/render"
	"stickies/internal/store"
	"stickies/internal/watch"
)

type uiState int

const (
	stateNormal uiState = iota
	stateEditing
	statePrompt
	stateConfirm
)

type fileOp int

const (
	opOpen fileOp = iota
	opOpenNew
	opSaveAs
	opExportPNG
	opExportTXT
)

type confirmAction int

const (
	confirmQuit confirmAction = iota
	confirmNew
	confirmClose
)

const (
	editorRows = 6
	// Changes reported this soon after our own save are our own.
	selfChangeWindow = time.Second
)

type Options struct {
	Config  *config.Config
	Logger  *log.Logger
	Watcher *watch.Watcher
}

// fileChangedMsg reports that a watched file changed on disk.
type fileChangedMsg watch.Event

// fileAnswer is a canvas.FileDialog whose answer the prompt already collected.
type fileAnswer struct{ path string }

func (a fileAnswer) OpenPath() (string, bool) { return a.path, a.path != "" }

func (a fileAnswer) SavePath(string) (string, bool) { return a.path, a.path != "" }

type Model struct {
	width, height int
	scr           *screen
	buffers       []*buffer
	current       int
	theme         render.Theme

	cfg     *config.Config
	log     *log.Logger
	watcher *watch.Watcher

	state      uiState
	help       bool
	helpScroll int

	editor  textarea.Model
	editing graph.NodeID

	prompt  textinput.Model
	fileOp  fileOp
	confirm confirmAction

	pointer    geom.Point
	hasPointer bool

	message      string
	errorMessage string
}

// New creates the model with one buffer per file, or a single blank buffer.
func New(opts Options, files ...string) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{CellWidth: 8, CellHeight: 16, ZoomStep: 1.1, GripMargin: 10, LinkThreshold: 8, NodeWidth: 160, NodeHeight: 96}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.Placeholder = "Note text…"
	editor.CharLimit = 0
	editor.SetHeight(editorRows - 2)

	m := Model{
		scr:     &screen{cols: 80, rows: 23, cellW: cfg.CellWidth, cellH: cfg.CellHeight},
		theme:   render.DefaultTheme(),
		cfg:     cfg,
		log:     logger,
		watcher: opts.Watcher,
		editor:  editor,
		editing: graph.None,
		prompt:  textinput.New(),
	}

	var failed []string
	for _, f := range files {
		b := m.addBuffer()
		if err := b.doc.LoadFromFile(m.resolve(f)); err != nil {
			failed = append(failed, err.Error())
			continue
		}
		m.watchBuffer(b)
	}
	if len(m.buffers) == 0 {
		m.addBuffer()
	}
	m.current = 0
	if len(failed) > 0 {
		m.errorMessage = strings.Join(failed, "; ")
	}
	m.layout()
	return m
}

// Run starts the program on the terminal and blocks until it exits.
func Run(ctx context.Context, opts Options, files ...string) error {
	p := tea.NewProgram(New(opts, files...),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (m *Model) canvasOptions() canvas.Options {
	return canvas.Options{
		ZoomStep:      m.cfg.ZoomStep,
		GripMargin:    m.cfg.GripMargin,
		LinkThreshold: m.cfg.LinkThreshold,
		NodeSize:      geom.Pt(m.cfg.NodeWidth, m.cfg.NodeHeight),
		Logger:        m.log,
	}
}

func (m *Model) addBuffer() *buffer {
	b := &buffer{scr: m.scr, dirty: true}
	b.doc = canvas.New(b, m.canvasOptions())
	m.buffers = append(m.buffers, b)
	m.current = len(m.buffers) - 1
	return b
}

func (m *Model) buffer() *buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return m.buffers[m.current]
}

func (m *Model) closeBuffer() {
	b := m.buffer()
	m.unwatchBuffer(b)
	if len(m.buffers) == 1 {
		b.doc.NewBlank()
		return
	}
	m.buffers = append(m.buffers[:m.current], m.buffers[m.current+1:]...)
	if m.current >= len(m.buffers) {
		m.current = len(m.buffers) - 1
	}
	m.layout()
}

func (m *Model) switchBuffer(delta int) {
	if len(m.buffers) < 2 {
		return
	}
	m.buffer().doc.PointerLeave()
	m.current = (m.current + delta + len(m.buffers)) % len(m.buffers)
	m.buffer().dirty = true
}

// layout sizes the canvas area around the buffer bar, editor and status line.
func (m *Model) layout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	top := 0
	if len(m.buffers) > 1 {
		top = 1
	}
	rows := m.height - top - 1
	if m.state == stateEditing {
		rows -= editorRows
	}
	if rows < 1 {
		rows = 1
	}
	m.scr.cols, m.scr.rows, m.scr.top = m.width, rows, top
	m.editor.SetWidth(m.width - 4)
	m.prompt.Width = m.width - 20
	for _, b := range m.buffers {
		b.dirty = true
		b.doc.Refresh()
	}
}

// resolve maps a user-typed name to a path, adding the default extension.
func (m *Model) resolve(name string) string {
	path := m.cfg.SavePath(name)
	if filepath.Ext(path) == "" {
		path += store.Ext
	}
	return path
}

func (m *Model) watchBuffer(b *buffer) {
	if m.watcher == nil || b.doc.Path() == "" {
		return
	}
	if err := m.watcher.Add(b.doc.Path()); err != nil {
		m.log.Warn("cannot watch file", "path", b.doc.Path(), "err", err)
	}
}

func (m *Model) unwatchBuffer(b *buffer) {
	if m.watcher == nil || b.doc.Path() == "" {
		return
	}
	for _, other := range m.buffers {
		if other != b && other.doc.Path() == b.doc.Path() {
			return
		}
	}
	m.watcher.Remove(b.doc.Path())
}

func (m Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return fileChangedMsg(ev)
	}
}

func (m *Model) handleFileChanged(ev watch.Event) {
	for _, b := range m.buffers {
		path, err := filepath.Abs(b.doc.Path())
		if b.doc.Path() == "" || err != nil || path != ev.Path {
			continue
		}
		if ev.Time.Sub(b.savedAt) < selfChangeWindow {
			continue
		}
		name := filepath.Base(path)
		reloaded, err := b.doc.Reload()
		switch {
		case err != nil:
			m.errorMessage = err.Error()
		case reloaded:
			m.message = "Reloaded " + name
		default:
			m.message = name + " changed on disk; unsaved changes kept"
		}
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case fileChangedMsg:
		m.handleFileChanged(watch.Event(msg))
		return m, m.waitForChange()

	case tea.MouseMsg:
		if m.state == stateNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	switch m.state {
	case stateEditing:
		m.editor, cmd = m.editor.Update(msg)
	case statePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	doc := m.buffer().doc
	p, inside := m.scr.pixel(msg.X, msg.Y)
	if inside {
		m.pointer, m.hasPointer = p, true
	}
	switch msg.Action {
	case tea.MouseActionPress:
		if !inside {
			return
		}
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.clearMessages()
			doc.PointerDown(p)
		case tea.MouseButtonRight:
			doc.SecondaryClick(p)
		case tea.MouseButtonWheelUp:
			doc.Wheel(p, 1)
		case tea.MouseButtonWheelDown:
			doc.Wheel(p, -1)
		}
	case tea.MouseActionMotion:
		if inside {
			doc.PointerMove(p)
		} else {
			doc.PointerLeave()
		}
	case tea.MouseActionRelease:
		doc.PointerUp(p)
	}
}

func (m *Model) pointerOrCenter() geom.Point {
	if m.hasPointer {
		return m.pointer
	}
	return m.scr.area().Center()
}

func (m *Model) clearMessages() {
	m.message, m.errorMessage = "", ""
}

// report shows the outcome of a command. A cancelled file choice is silent.
func (m *Model) report(err error, success string) {
	switch {
	case err == nil:
		m.message = success
	case errs.Is(err, errs.CodeNoPath):
	default:
		m.errorMessage = err.Error()
		m.log.Error("command failed", "err", err)
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.help:
		m.handleHelpKey(key)
		return m, nil
	case m.state == stateEditing:
		return m.handleEditorKey(msg)
	case m.state == statePrompt:
		return m.handlePromptKey(msg)
	case m.state == stateConfirm:
		return m.handleConfirmKey(key)
	}

	m.clearMessages()
	b := m.buffer()
	doc := b.doc
	switch key {
	case "q":
		if m.anyModified() {
			m.ask(confirmQuit)
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help, m.helpScroll = true, 0
	case "esc":
		doc.CancelModes()
	case "d":
		doc.ToggleDeleteMode()
	case "a":
		doc.ToggleKeyboardLinkMode()
	case "A":
		if id, ok := doc.NodeAt(m.pointerOrCenter()); ok {
			doc.RequestLink(id)
		}
	case "b":
		return m.startEditing(doc.AddNodeInteractive(m.pointerOrCenter()))
	case "e", "enter":
		if id, ok := doc.NodeAt(m.pointerOrCenter()); ok {
			return m.startEditing(id)
		}
	case "c":
		m.copyNode()
	case "p":
		m.pasteNode()
	case "+", "=":
		doc.ZoomIn()
	case "-", "_":
		doc.ZoomOut()
	case "s":
		if doc.Path() == "" {
			return m.askFile(opSaveAs, "untitled"+store.Ext)
		}
		err := doc.Save(fileAnswer{})
		if err == nil {
			b.savedAt = time.Now()
		}
		m.report(err, "Saved "+doc.Path())
	case "S":
		return m.askFile(opSaveAs, doc.Path())
	case "o":
		return m.askFile(opOpen, "")
	case "O":
		return m.askFile(opOpenNew, "")
	case "P":
		return m.askFile(opExportPNG, render.PNGName(doc.Path()))
	case "T":
		return m.askFile(opExportTXT, strings.TrimSuffix(render.PNGName(doc.Path()), ".png")+".txt")
	case "n":
		if doc.Modified() {
			m.ask(confirmNew)
			return m, nil
		}
		m.unwatchBuffer(b)
		doc.NewBlank()
	case "N":
		m.addBuffer()
		m.layout()
	case "x":
		if doc.Modified() {
			m.ask(confirmClose)
			return m, nil
		}
		m.closeBuffer()
	case "{":
		m.switchBuffer(-1)
	case "}":
		m.switchBuffer(1)
	default:
		m.handlePan(key)
	}
	return m, nil
}

func (m *Model) handleHelpKey(key string) {
	switch key {
	case "esc", "q", "?":
		m.help, m.helpScroll = false, 0
	case "j", "down":
		if m.helpScroll < len(helpLines)-1 {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	}
}

func (m *Model) anyModified() bool {
	for _, b := range m.buffers {
		if b.doc.Modified() {
			return true
		}
	}
	return false
}

func (m *Model) copyNode() {
	doc := m.buffer().doc
	id, ok := doc.NodeAt(m.pointerOrCenter())
	if !ok {
		m.errorMessage = "no note under the pointer"
		return
	}
	text, _ := doc.NodeText(id)
	if err := writeClipboard(text); err != nil {
		m.errorMessage = "clipboard: " + err.Error()
		return
	}
	m.message = "Copied note text"
}

func (m *Model) pasteNode() {
	raw, err := readClipboard()
	if err != nil {
		m.errorMessage = "clipboard: " + err.Error()
		return
	}
	text := cleanClipboardText(raw)
	if text == "" {
		m.errorMessage = "clipboard is empty"
		return
	}
	doc := m.buffer().doc
	id := doc.AddNodeInteractive(m.pointerOrCenter())
	doc.SetNodeText(id, text)
	m.message = "Pasted note"
}

func (m Model) startEditing(id graph.NodeID) (tea.Model, tea.Cmd) {
	text, ok := m.buffer().doc.NodeText(id)
	if !ok {
		return m, nil
	}
	m.editing = id
	m.state = stateEditing
	m.editor.SetValue(text)
	m.layout()
	return m, m.editor.Focus()
}

func (m *Model) stopEditing() {
	m.editor.Blur()
	m.editing = graph.None
	m.state = stateNormal
	m.layout()
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.stopEditing()
		return m, nil
	case "ctrl+s":
		m.buffer().doc.SetNodeText(m.editing, m.editor.Value())
		m.stopEditing()
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

var promptLabels = map[fileOp]string{
	opOpen:      "Open: ",
	opOpenNew:   "Open in new buffer: ",
	opSaveAs:    "Save as: ",
	opExportPNG: "Export PNG: ",
	opExportTXT: "Export text: ",
}

func (m Model) askFile(op fileOp, suggestion string) (tea.Model, tea.Cmd) {
	m.fileOp = op
	m.state = statePrompt
	m.prompt.Prompt = promptLabels[op]
	m.prompt.SetValue(suggestion)
	m.prompt.CursorEnd()
	return m, m.prompt.Focus()
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.prompt.Blur()
		m.state = stateNormal
		return m, nil
	case "enter":
		m.prompt.Blur()
		m.state = stateNormal
		m.submitFile(strings.TrimSpace(m.prompt.Value()))
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) submitFile(name string) {
	if name == "" {
		return
	}
	b := m.buffer()
	switch m.fileOp {
	case opOpen:
		old := b.doc.Path()
		err := b.doc.Open(fileAnswer{m.resolve(name)})
		if err == nil && old != b.doc.Path() {
			m.unwatchPath(old)
			m.watchBuffer(b)
		}
		m.report(err, "Opened "+b.doc.Path())
	case opOpenNew:
		prev := m.current
		nb := m.addBuffer()
		if err := nb.doc.Open(fileAnswer{m.resolve(name)}); err != nil {
			m.buffers = m.buffers[:len(m.buffers)-1]
			m.current = prev
			m.report(err, "")
			return
		}
		m.watchBuffer(nb)
		m.layout()
		m.report(nil, "Opened "+nb.doc.Path())
	case opSaveAs:
		old := b.doc.Path()
		err := b.doc.SaveAs(fileAnswer{m.cfg.SavePath(name)})
		if err == nil {
			b.savedAt = time.Now()
			if old != b.doc.Path() {
				m.unwatchPath(old)
				m.watchBuffer(b)
			}
		}
		m.report(err, "Saved "+b.doc.Path())
	case opExportPNG:
		path := m.cfg.SavePath(name)
		m.report(b.doc.ExportPNG(path), "Exported "+path)
	case opExportTXT:
		path := m.cfg.SavePath(name)
		m.report(exportVisualTXT(path, b.doc, m.scr.cols, m.scr.rows, m.scr.cellW, m.scr.cellH), "Exported "+path)
	}
}

func (m *Model) unwatchPath(path string) {
	if m.watcher == nil || path == "" {
		return
	}
	for _, b := range m.buffers {
		if b.doc.Path() == path {
			return
		}
	}
	m.watcher.Remove(path)
}

var confirmMessages = map[confirmAction]string{
	confirmQuit:  "Unsaved changes will be lost. Quit? (y/n)",
	confirmNew:   "Discard this document and start a new one? (y/n)",
	confirmClose: "Close this buffer? Unsaved changes will be lost. (y/n)",
}

func (m *Model) ask(a confirmAction) {
	m.confirm = a
	m.state = stateConfirm
}

func (m Model) handleConfirmKey(key string) (tea.Model, tea.Cmd) {
	m.state = stateNormal
	if key != "y" && key != "Y" {
		return m, nil
	}
	switch m.confirm {
	case confirmQuit:
		return m, tea.Quit
	case confirmNew:
		b := m.buffer()
		m.unwatchBuffer(b)
		b.doc.NewBlank()
	case confirmClose:
		m.closeBuffer()
	}
	return m, nil
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("238"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("238")).Bold(true)
	editorStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("136"))
)

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	if m.help {
		return m.helpView()
	}
	var parts []string
	if len(m.buffers) > 1 {
		parts = append(parts, m.bufferBar())
	}
	parts = append(parts, strings.Join(m.buffer().render(m.theme), "\n"))
	if m.state == stateEditing {
		parts = append(parts, editorStyle.Width(m.width-2).Render(m.editor.View()))
	}
	parts = append(parts, m.statusLine())
	return strings.Join(parts, "\n")
}

func (m Model) statusLine() string {
	style := statusStyle.Width(m.width).MaxWidth(m.width)
	doc := m.buffer().doc
	switch m.state {
	case statePrompt:
		return style.Render(m.prompt.View())
	case stateConfirm:
		return style.Render(confirmMessages[m.confirm])
	case stateEditing:
		return style.Render("Mode: EDIT | Ctrl+S=keep, Esc=discard")
	}

	mode := strings.ToUpper(doc.Mode().String())
	if doc.Panning() {
		mode = "PAN"
	}
	status := "Mode: " + mode + " | " + doc.SuggestedTitle() +
		" | " + zoomLabel(doc.Viewport().Zoom)
	if m.errorMessage != "" {
		return errorStyle.Width(m.width).MaxWidth(m.width).Render(status + " | ERROR: " + m.errorMessage)
	}
	if m.message != "" {
		return style.Render(status + " | " + m.message)
	}
	return style.Render(status + " | ? for help | q to quit")
}

func zoomLabel(z float64) string {
	return fmt.Sprintf("zoom %d%%", int(math.Round(z*100)))
}
