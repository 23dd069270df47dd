package store

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stickies/internal/errs"
	"stickies/internal/geom"
	"stickies/internal/graph"
)

func compressed(t *testing.T, v any) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	require.NoError(t, json.NewEncoder(zw).Encode(v))
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	g := graph.New()
	a := g.AddNode("alpha\nsecond line", geom.R(100.4, 99.6, 140, 90))
	b := g.AddNode("beta", geom.R(400, 100, 140.5, 90))
	c := g.AddNode("", geom.R(-30, -70.2, 80, 40))
	g.AddLink(a, b)
	g.AddLink(b, c)
	g.AddLink(a, b)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))
	got, st, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, Stats{Nodes: 3, Links: 3}, st)

	want := []struct {
		text string
		rect geom.Rect
	}{
		{"alpha\nsecond line", geom.R(100, 100, 140, 90)},
		{"beta", geom.R(400, 100, 141, 90)},
		{"", geom.R(-30, -70, 80, 40)},
	}
	require.Equal(t, len(want), got.Len())
	for i, n := range got.Nodes() {
		assert.Equal(t, want[i].text, n.Text)
		assert.Equal(t, want[i].rect, n.Rect)
	}
	nodes := got.Nodes()
	assert.Equal(t, []graph.Link{
		{From: nodes[0].ID, To: nodes[1].ID},
		{From: nodes[1].ID, To: nodes[2].ID},
		{From: nodes[0].ID, To: nodes[1].ID},
	}, got.Links())
}

func TestDecodeDropsOutOfRangeLinks(t *testing.T) {
	data := compressed(t, map[string]any{
		"nodes": []map[string]any{
			{"text": "a", "x": 0, "y": 0, "width": 100, "height": 50},
			{"text": "b", "x": 200, "y": 0, "width": 100, "height": 50},
		},
		"links": []map[string]any{
			{"fromNodeIndex": 0, "toNodeIndex": 1},
			{"fromNodeIndex": 0, "toNodeIndex": 2},
			{"fromNodeIndex": -1, "toNodeIndex": 0},
		},
	})
	g, st, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2, st.Dropped)
	assert.Len(t, g.Links(), 1)
	assert.NoError(t, g.Check())
}

func TestEncodeSkipsDanglingLinks(t *testing.T) {
	g := graph.New()
	a := g.AddNode("a", geom.R(0, 0, 100, 50))
	g.AddLink(a, graph.NodeID(99))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, g))
	got, _, err := Decode(&buf)
	require.NoError(t, err)
	assert.Empty(t, got.Links())
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"not gzip", []byte("FLOWCHART\nBOXES:0\n")},
		{"empty", nil},
		{"bad json", compressed(t, "just a string")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(bytes.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.CodeMalformedFile), "got %v", err)
		})
	}
}

func TestLoadFileNotFound(t *testing.T) {
	_, _, err := LoadFile(filepath.Join(t.TempDir(), "missing"+Ext))
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.CodeFileNotFound))
}

func TestSaveFileReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc"+Ext)

	g := graph.New()
	g.AddNode("first", geom.R(0, 0, 100, 50))
	require.NoError(t, SaveFile(path, g))

	g.AddNode("second", geom.R(0, 100, 100, 50))
	require.NoError(t, SaveFile(path, g))

	got, _, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files left behind")
}
