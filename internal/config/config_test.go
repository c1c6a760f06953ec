package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/memonoa/internal/notes/segment"
)

// isolate points the user config lookup and the working directory at empty
// temp directories.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	require.NoError(t, Validate(d))
	assert.Equal(t, []string{".md", ".txt"}, d.Extensions)
	assert.Equal(t, segment.NameScript, d.Segmenter)
	assert.Equal(t, 500*time.Millisecond, d.WatchDebounce)
	assert.True(t, d.Recursive)
	assert.True(t, d.Watch)
	assert.Empty(t, d.Log.File)
}

func TestValidate(t *testing.T) {
	type tc struct {
		mutate  func(c *Config)
		wantErr string
	}

	tests := map[string]tc{
		"defaults": {
			mutate: func(*Config) {},
		},
		"every segmenter": {
			mutate: func(c *Config) { c.Segmenter = segment.NameSpace },
		},
		"unknown segmenter": {
			mutate:  func(c *Config) { c.Segmenter = "mecab" },
			wantErr: "segmenter",
		},
		"extension without dot": {
			mutate:  func(c *Config) { c.Extensions = []string{"md"} },
			wantErr: "extensions",
		},
		"bare dot extension": {
			mutate:  func(c *Config) { c.Extensions = []string{"."} },
			wantErr: "extensions",
		},
		"no extensions means every file": {
			mutate: func(c *Config) { c.Extensions = nil },
		},
		"zero debounce": {
			mutate:  func(c *Config) { c.WatchDebounce = 0 },
			wantErr: "watch_debounce",
		},
		"bad log level": {
			mutate:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: "log.level",
		},
		"bad log size": {
			mutate:  func(c *Config) { c.Log.MaxSizeMB = 0 },
			wantErr: "log.max_size_mb",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := Defaults()
			tt.mutate(&c)
			err := Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	isolate(t)

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, used)
	assert.Equal(t, Defaults(), cfg)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
root: /notes
extensions: [".md"]
recursive: false
segmenter: word
watch_debounce: 250ms
log:
  level: debug
`)

	cfg, used, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "/notes", cfg.Root)
	assert.Equal(t, []string{".md"}, cfg.Extensions)
	assert.False(t, cfg.Recursive)
	assert.Equal(t, segment.NameWord, cfg.Segmenter)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.True(t, cfg.Watch)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, _, err := Load(filepath.Join(dir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadLookupOrder(t *testing.T) {
	dir := isolate(t)
	home := os.Getenv("HOME")

	userFile := filepath.Join(home, ".config", "memonoa", "config.yaml")
	writeFile(t, userFile, "segmenter: space\n")

	cfg, used, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, userFile, used)
	assert.Equal(t, segment.NameSpace, cfg.Segmenter)

	writeFile(t, filepath.Join(dir, LocalFile), "segmenter: word\n")
	cfg, used, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, LocalFile, used)
	assert.Equal(t, segment.NameWord, cfg.Segmenter)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalFile), "log:\n  level: info\n")

	t.Setenv("MEMONOA_LOG_LEVEL", "warn")
	t.Setenv("MEMONOA_ROOT", "/from/env")

	cfg, _, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "/from/env", cfg.Root)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, LocalFile), "segmenter: mecab\n")

	_, _, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mecab")
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.yaml")

	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "watch_debounce: 500ms")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	assert.Error(t, WriteDefault(path), "existing file must not be overwritten")
}

func TestConfigHelpers(t *testing.T) {
	c := Defaults()
	c.Root = "/notes"

	seg, err := c.NewSegmenter()
	require.NoError(t, err)
	assert.IsType(t, segment.Script{}, seg)

	assert.Equal(t, "/notes", c.IndexOptions("").Root)
	assert.Equal(t, "/other", c.IndexOptions("/other").Root)
	assert.Equal(t, c.Extensions, c.IndexOptions("").Extensions)
}
