// Package store reads and writes graph files.
//
// A file is a gzip stream wrapping one JSON document:
//
//	{
//	  "nodes": [{"text": "...", "x": 100, "y": 100, "width": 140, "height": 90}],
//	  "links": [{"fromNodeIndex": 0, "toNodeIndex": 1}]
//	}
//
// Coordinates are world units rounded to integers. Link indices are positions
// in "nodes". On load, a link with an index outside "nodes" is dropped without
// error.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"stickies/internal/errs"
	"stickies/internal/geom"
	"stickies/internal/graph"
)

// Ext is the default file extension.
const Ext = ".stk"

type fileNode struct {
	Text   string `json:"text"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type fileLink struct {
	From int `json:"fromNodeIndex"`
	To   int `json:"toNodeIndex"`
}

type document struct {
	Nodes []fileNode `json:"nodes"`
	Links []fileLink `json:"links"`
}

// Stats describes what Decode did with the input.
type Stats struct {
	Nodes   int
	Links   int
	Dropped int
}

// Encode writes g to w. Links whose endpoints are not in g are skipped.
func Encode(w io.Writer, g *graph.Graph) error {
	doc := document{
		Nodes: make([]fileNode, 0, g.Len()),
		Links: make([]fileLink, 0, len(g.Links())),
	}
	pos := make(map[graph.NodeID]int, g.Len())
	for i, n := range g.Nodes() {
		pos[n.ID] = i
		doc.Nodes = append(doc.Nodes, fileNode{
			Text:   n.Text,
			X:      round(n.Rect.X),
			Y:      round(n.Rect.Y),
			Width:  round(n.Rect.W),
			Height: round(n.Rect.H),
		})
	}
	for _, l := range g.Links() {
		from, ok1 := pos[l.From]
		to, ok2 := pos[l.To]
		if !ok1 || !ok2 {
			continue
		}
		doc.Links = append(doc.Links, fileLink{From: from, To: to})
	}

	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(&doc); err != nil {
		zw.Close()
		return errs.Wrap(errs.CodeIO, err, "encode graph")
	}
	if err := zw.Close(); err != nil {
		return errs.Wrap(errs.CodeIO, err, "compress graph")
	}
	return nil
}

// Decode reads a graph from r. The returned graph is only built once the whole
// input has been decompressed and parsed.
func Decode(r io.Reader) (*graph.Graph, Stats, error) {
	var st Stats
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, st, errs.Wrap(errs.CodeMalformedFile, err, "not a graph file")
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, st, errs.Wrap(errs.CodeMalformedFile, err, "decompress graph")
	}
	var doc document
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&doc); err != nil {
		return nil, st, errs.Wrap(errs.CodeMalformedFile, err, "parse graph")
	}

	g := graph.New()
	ids := make([]graph.NodeID, len(doc.Nodes))
	for i, n := range doc.Nodes {
		r := geom.R(float64(n.X), float64(n.Y), float64(n.Width), float64(n.Height))
		ids[i] = g.AddNode(n.Text, r)
	}
	for _, l := range doc.Links {
		if l.From < 0 || l.From >= len(ids) || l.To < 0 || l.To >= len(ids) {
			st.Dropped++
			continue
		}
		g.AddLink(ids[l.From], ids[l.To])
	}
	st.Nodes = g.Len()
	st.Links = len(g.Links())
	return g, st, nil
}

// LoadFile decodes the graph stored at path.
func LoadFile(path string) (*graph.Graph, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, Stats{}, errs.Wrap(errs.CodeFileNotFound, err, "open %s", path)
		}
		return nil, Stats{}, errs.Wrap(errs.CodeIO, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f)
}

// SaveFile writes g to path. The data goes to a temporary file in the same
// directory first and is renamed over path only once fully written.
func SaveFile(path string, g *graph.Graph) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errs.Wrap(errs.CodeIO, err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return errs.Wrap(errs.CodeIO, err, "write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return errs.Wrap(errs.CodeIO, err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errs.Wrap(errs.CodeIO, err, "write %s", path)
	}
	return nil
}

func round(v float64) int { return int(math.Round(v)) }
