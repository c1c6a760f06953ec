// Package config provides configuration types, defaults and loading for memonoa.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/grindlemire/memonoa/internal/docindex"
	"github.com/grindlemire/memonoa/internal/log"
	"github.com/grindlemire/memonoa/internal/notes"
	"github.com/grindlemire/memonoa/internal/notes/segment"
)

// LocalFile is the per-directory config file checked before the user config.
const LocalFile = ".memonoa.yaml"

// EnvPrefix prefixes environment overrides, e.g. MEMONOA_LOG_LEVEL.
const EnvPrefix = "MEMONOA"

// Config holds all configuration options for memonoa.
type Config struct {
	Root          string        `mapstructure:"root"` // empty: the client's workspace root
	Extensions    []string      `mapstructure:"extensions"`
	Recursive     bool          `mapstructure:"recursive"`
	Segmenter     string        `mapstructure:"segmenter"` // "script" (default), "word" or "space"
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
	Log           LogConfig     `mapstructure:"log"`
}

// LogConfig controls the server log file. Logging is off when File is empty.
type LogConfig struct {
	File      string `mapstructure:"file"`
	Level     string `mapstructure:"level"`
	MaxSizeMB int    `mapstructure:"max_size_mb"`
}

// Defaults returns the configuration used when no file or override sets a key.
func Defaults() Config {
	return Config{
		Extensions:    append([]string(nil), docindex.DefaultExtensions...),
		Recursive:     true,
		Segmenter:     segment.NameScript,
		Watch:         true,
		WatchDebounce: docindex.DefaultDebounce,
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks that every option has a usable value.
func Validate(c Config) error {
	if _, err := segment.ByName(c.Segmenter); err != nil {
		return fmt.Errorf("segmenter: %w", err)
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extensions: %q must start with a dot", ext)
		}
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch_debounce must be positive, got %s", c.WatchDebounce)
	}
	if !isLogLevel(c.Log.Level) {
		return fmt.Errorf("log.level: unknown level %q (valid: %s)", c.Log.Level, strings.Join(logLevels, ", "))
	}
	if c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be positive, got %d", c.Log.MaxSizeMB)
	}
	return nil
}

func isLogLevel(level string) bool {
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

// NewSegmenter returns the configured segmentation backend.
func (c Config) NewSegmenter() (notes.Segmenter, error) {
	return segment.ByName(c.Segmenter)
}

// IndexOptions returns scan options rooted at root, or at c.Root when root
// is empty.
func (c Config) IndexOptions(root string) docindex.Options {
	if root == "" {
		root = c.Root
	}
	return docindex.Options{
		Root:       root,
		Extensions: c.Extensions,
		Recursive:  c.Recursive,
	}
}

// SetDefaults registers the defaults on v so that environment overrides
// are seen by Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("root", d.Root)
	v.SetDefault("extensions", d.Extensions)
	v.SetDefault("recursive", d.Recursive)
	v.SetDefault("segmenter", d.Segmenter)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch_debounce", d.WatchDebounce)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
}

// Load reads the configuration. The lookup order is: path when non-empty,
// then .memonoa.yaml in the working directory, then
// ~/.config/memonoa/config.yaml. A missing file is not an error unless path
// names it explicitly. It returns the config file used, if any.
func Load(path string) (Config, string, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case path != "":
		v.SetConfigFile(path)
	case fileExists(LocalFile):
		v.SetConfigFile(LocalFile)
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "memonoa"))
		}
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, "", fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return Config{}, "", fmt.Errorf("invalid config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, v.ConfigFileUsed(), nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// fileConfig is the on-disk shape written by WriteDefault. Durations are
// written as strings like "500ms".
type fileConfig struct {
	Root          string   `yaml:"root"`
	Extensions    []string `yaml:"extensions"`
	Recursive     bool     `yaml:"recursive"`
	Segmenter     string   `yaml:"segmenter"`
	Watch         bool     `yaml:"watch"`
	WatchDebounce string   `yaml:"watch_debounce"`
	Log           struct {
		File      string `yaml:"file"`
		Level     string `yaml:"level"`
		MaxSizeMB int    `yaml:"max_size_mb"`
	} `yaml:"log"`
}

// Marshal encodes c as YAML in the layout Load reads.
func Marshal(c Config) ([]byte, error) {
	fc := fileConfig{
		Root:          c.Root,
		Extensions:    c.Extensions,
		Recursive:     c.Recursive,
		Segmenter:     c.Segmenter,
		Watch:         c.Watch,
		WatchDebounce: c.WatchDebounce.String(),
	}
	fc.Log.File = c.Log.File
	fc.Log.Level = c.Log.Level
	fc.Log.MaxSizeMB = c.Log.MaxSizeMB

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteDefault creates a config file at path holding the defaults. Parent
// directories are created; an existing file is left untouched.
func WriteDefault(path string) error {
	if fileExists(path) {
		return fmt.Errorf("config file %s already exists", path)
	}

	data, err := Marshal(Defaults())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Debug("Wrote default config to %s", path)
	return nil
}
