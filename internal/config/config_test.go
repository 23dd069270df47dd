package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func missing(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "none.toml")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(missing(t), nil)
	require.NoError(t, err)
	assert.Equal(t, 8.0, cfg.CellWidth)
	assert.Equal(t, 16.0, cfg.CellHeight)
	assert.Equal(t, 1.1, cfg.ZoomStep)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.Watch)
}

func TestLoadPriority(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
cell_width = 9
cell_height = 18
save_directory = "/tmp/notes"
watch = true
`), 0o644))
	t.Setenv("STICKIES_CELL_HEIGHT", "20")

	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Float64("cell-width", 8, "")
	f.Float64("cell-height", 16, "")
	f.String("log-file", "", "")
	require.NoError(t, f.Parse([]string{"--log-file", "/tmp/x.log"}))

	cfg, err := Load(path, f)
	require.NoError(t, err)
	assert.Equal(t, 9.0, cfg.CellWidth, "unchanged flag must not override the file")
	assert.Equal(t, 20.0, cfg.CellHeight, "env overrides file")
	assert.Equal(t, "/tmp/x.log", cfg.LogFile)
	assert.Equal(t, "/tmp/notes", cfg.SaveDirectory)
	assert.True(t, cfg.Watch)

	require.NoError(t, f.Parse([]string{"--cell-height", "12"}))
	cfg, err = Load(path, f)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.CellHeight, "flag overrides env")
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("zoom_step = 0.5\n"), 0o644))
	_, err := Load(path, nil)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte("this is = = not toml"), 0o644))
	_, err = Load(path, nil)
	assert.Error(t, err)
}

func TestSavePath(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{SaveDirectory: filepath.Join(dir, "saves")}
	assert.Equal(t, filepath.Join(dir, "saves", "a.stk"), cfg.SavePath("a.stk"))
	assert.DirExists(t, cfg.SaveDirectory)
	assert.Equal(t, "sub/a.stk", cfg.SavePath("sub/a.stk"))
	assert.Equal(t, "/abs/a.stk", cfg.SavePath("/abs/a.stk"))

	assert.Equal(t, "a.stk", (&Config{}).SavePath("a.stk"))
}

func TestLogPath(t *testing.T) {
	assert.Equal(t, "/var/log/s.log", (&Config{LogFile: "/var/log/s.log"}).LogPath())
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "stickies", "stickies.log"), (&Config{}).LogPath())
}
