package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, log.DebugLevel, Level("debug"))
	assert.Equal(t, log.WarnLevel, Level("warn"))
	assert.Equal(t, log.InfoLevel, Level("nonsense"))
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel)
	l.Info("hidden")
	l.Warn("shown", "path", "a.stk")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "path=a.stk")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stickies.log")
	l, c, err := OpenFile(path, log.InfoLevel)
	require.NoError(t, err)
	l.Info("hello")
	NewProgress(l).Done("saved")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "saved (")

	l, c, err = OpenFile("", log.InfoLevel)
	require.NoError(t, err)
	l.Info("dropped")
	assert.NoError(t, c.Close())
}

func TestContext(t *testing.T) {
	l := New(&bytes.Buffer{}, log.InfoLevel)
	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, log.Default(), FromContext(context.Background()))
}
