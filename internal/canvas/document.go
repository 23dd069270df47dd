// Package canvas is the interaction engine of one open document. It owns the
// graph and the viewport, keeps a widget per node projected through the
// viewport, and routes pointer input according to the current Mode.
//
// Node rectangles in the graph are authoritative. Widget bounds are derived
// from them on every viewport change, except while a widget runs a move or
// resize gesture; the widget's final screen rectangle is written back to the
// graph once, when the gesture ends.
package canvas

import (
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"stickies/internal/errs"
	"stickies/internal/geom"
	"stickies/internal/graph"
	"stickies/internal/render"
	"stickies/internal/store"
	"stickies/internal/widget"
)

// FileDialog asks the user for a path. ok is false when the user cancelled.
type FileDialog interface {
	OpenPath() (path string, ok bool)
	SavePath(suggested string) (path string, ok bool)
}

// Container hosts the document on screen.
type Container interface {
	// ClientArea is the visible area in device pixels.
	ClientArea() geom.Rect
	// Invalidate requests a repaint.
	Invalidate()
}

type Options struct {
	ZoomStep      float64
	GripMargin    float64
	LinkThreshold float64
	// NodeSize is the world size of nodes created interactively.
	NodeSize geom.Point
	Logger   *log.Logger
}

func DefaultOptions() Options {
	return Options{
		ZoomStep:      1.1,
		GripMargin:    widget.DefaultGripMargin,
		LinkThreshold: 6,
		NodeSize:      geom.Pt(140, 90),
	}
}

// Document is one open graph with its viewport and interaction state.
type Document struct {
	g       *graph.Graph
	view    geom.Viewport
	widgets map[graph.NodeID]*widget.Node

	mode    Mode
	first   graph.NodeID // keyboard link: first endpoint
	source  graph.NodeID // menu link: pending source
	active  graph.NodeID // widget owning a gesture
	panning bool
	last    geom.Point
	pointer geom.Point

	path     string
	modified bool

	host Container
	opts Options
	log  *log.Logger
}

func New(host Container, opts Options) *Document {
	def := DefaultOptions()
	if opts.ZoomStep <= 1 {
		opts.ZoomStep = def.ZoomStep
	}
	if opts.GripMargin <= 0 {
		opts.GripMargin = def.GripMargin
	}
	if opts.LinkThreshold <= 0 {
		opts.LinkThreshold = def.LinkThreshold
	}
	if opts.NodeSize.X <= 0 || opts.NodeSize.Y <= 0 {
		opts.NodeSize = def.NodeSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	d := &Document{host: host, opts: opts, log: logger}
	d.NewBlank()
	return d
}

// NewBlank discards the current graph and resets the viewport.
func (d *Document) NewBlank() {
	d.reset(graph.New(), "")
	d.log.Debug("new blank document")
}

func (d *Document) reset(g *graph.Graph, path string) {
	d.g = g
	d.view = geom.Identity()
	d.widgets = make(map[graph.NodeID]*widget.Node)
	d.mode = ModeIdle
	d.first, d.source, d.active = graph.None, graph.None, graph.None
	d.panning = false
	d.path = path
	d.modified = false
	for _, n := range g.Nodes() {
		d.widgets[n.ID] = widget.New(n.ID, listener{d})
	}
	d.reproject()
}

// LoadFromFile replaces the document with the graph stored at path. On error
// the document is left as it was.
func (d *Document) LoadFromFile(path string) error {
	g, st, err := store.LoadFile(path)
	if err != nil {
		d.log.Error("load failed", "path", path, "err", err)
		return err
	}
	if st.Dropped > 0 {
		d.log.Warn("dropped dangling links", "path", path, "count", st.Dropped)
	}
	d.reset(g, path)
	d.log.Info("loaded", "path", path, "nodes", st.Nodes, "links", st.Links)
	return nil
}

// Open asks dlg for a file and loads it.
func (d *Document) Open(dlg FileDialog) error {
	path, ok := dlg.OpenPath()
	if !ok {
		return errs.New(errs.CodeNoPath, "no file chosen")
	}
	return d.LoadFromFile(path)
}

// Reload re-reads the document's file unless there are unsaved changes. It
// reports whether the document was replaced. The viewport is kept.
func (d *Document) Reload() (bool, error) {
	if d.path == "" || d.modified {
		return false, nil
	}
	view := d.view
	if err := d.LoadFromFile(d.path); err != nil {
		return false, err
	}
	d.view = view
	d.reproject()
	return true, nil
}

// Save writes to the document's path, asking dlg for one if there is none yet.
func (d *Document) Save(dlg FileDialog) error {
	if d.path == "" {
		return d.SaveAs(dlg)
	}
	return d.SaveToFile(d.path)
}

// SaveAs asks dlg for a path and writes there. A cancelled dialog returns a
// CodeNoPath error.
func (d *Document) SaveAs(dlg FileDialog) error {
	path, ok := dlg.SavePath(d.suggestedFile())
	if !ok || path == "" {
		return errs.New(errs.CodeNoPath, "no file chosen")
	}
	if filepath.Ext(path) == "" {
		path += store.Ext
	}
	return d.SaveToFile(path)
}

func (d *Document) SaveToFile(path string) error {
	d.endGesture()
	if err := store.SaveFile(path, d.g); err != nil {
		d.log.Error("save failed", "path", path, "err", err)
		return err
	}
	d.path = path
	d.modified = false
	d.log.Info("saved", "path", path, "nodes", d.g.Len(), "links", len(d.g.Links()))
	d.invalidate()
	return nil
}

// ExportPNG renders the graph in world space to an image file.
func (d *Document) ExportPNG(path string) error {
	d.endGesture()
	if err := render.ExportPNG(path, d.g); err != nil {
		return err
	}
	d.log.Info("exported", "path", path)
	return nil
}

// SuggestedTitle labels the document for a tab or window title.
func (d *Document) SuggestedTitle() string {
	title := "Untitled"
	if d.path != "" {
		title = filepath.Base(d.path)
	}
	if d.modified {
		title += "*"
	}
	return title
}

func (d *Document) suggestedFile() string {
	if d.path != "" {
		return d.path
	}
	return "untitled" + store.Ext
}

func (d *Document) Path() string { return d.path }

func (d *Document) Modified() bool { return d.modified }

func (d *Document) Mode() Mode { return d.mode }

func (d *Document) Panning() bool { return d.panning }

func (d *Document) Viewport() geom.Viewport { return d.view }

// Graph exposes the model for read-only use.
func (d *Document) Graph() *graph.Graph { return d.g }

// AddNode adds a node at a world rectangle.
func (d *Document) AddNode(text string, world geom.Rect) graph.NodeID {
	id := d.g.AddNode(text, world)
	d.widgets[id] = widget.New(id, listener{d})
	d.sync(id)
	d.touch()
	d.log.Debug("node added", "id", id)
	return id
}

// AddNodeInteractive adds an empty node of the default size centered on a
// screen point.
func (d *Document) AddNodeInteractive(screen geom.Point) graph.NodeID {
	c := d.view.ToWorld(screen)
	size := d.opts.NodeSize
	return d.AddNode("", geom.R(c.X-size.X/2, c.Y-size.Y/2, size.X, size.Y))
}

// RemoveNode deletes a node, its links and its widget.
func (d *Document) RemoveNode(id graph.NodeID) bool {
	if !d.g.RemoveNode(id) {
		return false
	}
	delete(d.widgets, id)
	if d.active == id {
		d.active = graph.None
	}
	if d.first == id {
		d.first = graph.None
	}
	if d.source == id {
		d.source = graph.None
		d.setMode(ModeIdle)
	}
	d.touch()
	d.log.Debug("node removed", "id", id)
	return true
}

// AddLink links two nodes. Like the model, it accepts any pair.
func (d *Document) AddLink(from, to graph.NodeID) {
	d.g.AddLink(from, to)
	d.touch()
	d.log.Debug("link added", "from", from, "to", to)
}

func (d *Document) SetNodeText(id graph.NodeID, text string) bool {
	if !d.g.SetText(id, text) {
		return false
	}
	d.sync(id)
	d.touch()
	return true
}

func (d *Document) NodeText(id graph.NodeID) (string, bool) {
	n, ok := d.g.Node(id)
	if !ok {
		return "", false
	}
	return n.Text, true
}

// NodeAt returns the topmost node under a screen point.
func (d *Document) NodeAt(p geom.Point) (graph.NodeID, bool) {
	return d.g.NodeAt(p, d.screenRect)
}

// ScreenRect is where a node is currently shown.
func (d *Document) ScreenRect(id graph.NodeID) (geom.Rect, bool) {
	w, ok := d.widgets[id]
	if !ok {
		return geom.Rect{}, false
	}
	return w.Bounds, true
}

func (d *Document) ToggleDeleteMode() {
	if d.mode == ModeDelete {
		d.clearSelection()
		d.setMode(ModeIdle)
		return
	}
	d.clearPending()
	d.clearSelection()
	d.setMode(ModeDelete)
}

// ToggleKeyboardLinkMode enters two-click linking. Toggling again with a first
// endpoint chosen restarts the selection; toggling with none chosen leaves the
// mode.
func (d *Document) ToggleKeyboardLinkMode() {
	if d.mode == ModeLinkPendingKeyboard && d.first == graph.None {
		d.setMode(ModeIdle)
		return
	}
	d.clearPending()
	d.clearSelection()
	d.setMode(ModeLinkPendingKeyboard)
}

// RequestLink starts a menu link from a node, as if the node asked for it.
func (d *Document) RequestLink(id graph.NodeID) {
	if w, ok := d.widgets[id]; ok {
		w.RequestLink()
	}
}

// CancelModes returns to ModeIdle, dropping any pending link and selection.
func (d *Document) CancelModes() {
	d.clearPending()
	d.clearSelection()
	d.setMode(ModeIdle)
}

func (d *Document) ZoomIn() { d.zoomSteps(d.clientCenter(), 1) }

func (d *Document) ZoomOut() { d.zoomSteps(d.clientCenter(), -1) }

// PanBy shifts the view by a screen-space delta.
func (d *Document) PanBy(delta geom.Point) {
	d.endGesture()
	d.view = d.view.PanBy(delta)
	d.reproject()
}

// Refresh re-projects every node, e.g. after the container was resized.
func (d *Document) Refresh() { d.reproject() }

func (d *Document) zoomSteps(p geom.Point, steps int) {
	d.endGesture()
	d.view = d.view.ZoomSteps(p, d.opts.ZoomStep, steps)
	d.reproject()
	d.log.Debug("zoom", "zoom", d.view.Zoom)
}

func (d *Document) clientCenter() geom.Point {
	if d.host == nil {
		return geom.Point{}
	}
	return d.host.ClientArea().Center()
}

func (d *Document) setMode(m Mode) {
	if d.mode != m {
		d.log.Debug("mode", "from", d.mode, "to", m)
	}
	d.mode = m
	d.invalidate()
}

func (d *Document) clearPending() {
	if d.source != graph.None {
		if w, ok := d.widgets[d.source]; ok {
			w.LinkSource = false
		}
	}
	d.first, d.source = graph.None, graph.None
}

func (d *Document) clearSelection() {
	d.g.ClearSelection()
	for _, w := range d.widgets {
		w.Selected = false
	}
}

func (d *Document) selectNode(id graph.NodeID) {
	d.g.SetSelected(id, true)
	if w, ok := d.widgets[id]; ok {
		w.Selected = true
	}
}

// endGesture finishes a widget gesture before the viewport changes under it.
func (d *Document) endGesture() {
	if d.active == graph.None {
		return
	}
	if w, ok := d.widgets[d.active]; ok {
		w.Release()
	}
	d.active = graph.None
}

// sync copies a node's model state onto its widget and re-projects it.
func (d *Document) sync(id graph.NodeID) {
	n, ok := d.g.Node(id)
	w, wok := d.widgets[id]
	if !ok || !wok {
		return
	}
	w.Text = n.Text
	w.Selected = n.Selected
	w.LinkSource = d.mode == ModeLinkPendingMenu && d.source == id
	w.GripMargin = d.opts.GripMargin
	w.MinSize = geom.Pt(graph.MinWidth, graph.MinHeight).Mul(d.view.Zoom)
	if d.host != nil {
		w.Container = d.host.ClientArea()
	}
	w.Project(d.view.RectToScreen(n.Rect))
}

func (d *Document) reproject() {
	for _, n := range d.g.Nodes() {
		d.sync(n.ID)
	}
	d.invalidate()
}

func (d *Document) screenRect(id graph.NodeID) geom.Rect {
	if w, ok := d.widgets[id]; ok {
		return w.Bounds
	}
	return geom.Rect{}
}

func (d *Document) center(id graph.NodeID) geom.Point { return d.screenRect(id).Center() }

// touch marks the document modified and repaints.
func (d *Document) touch() {
	d.modified = true
	d.invalidate()
}

func (d *Document) invalidate() {
	if d.host != nil {
		d.host.Invalidate()
	}
}
