// Package log provides centralized logging for memonoa: the language server,
// the note index and its watcher all write through it.
//
// Output is disabled until SetOutput or Open is called, because the language
// server's stdout carries the protocol stream.
package log

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.Mutex
	logger  = zap.NewNop().Sugar()
	enabled bool
	level   = zap.NewAtomicLevelAt(zapcore.DebugLevel)
)

// SetLevel sets the minimum level: debug, info, warn or error.
func SetLevel(name string) error {
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("parsing log level %q: %w", name, err)
	}
	return nil
}

// SetOutput sends log lines to w. Pass nil to disable logging.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if w == nil {
		logger = zap.NewNop().Sugar()
		enabled = false
		return
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	logger = zap.New(core).Sugar()
	enabled = true
}

// Open logs to a size-rotated file at path. The returned func flushes and
// closes it.
func Open(path string, maxSizeMB int) (func() error, error) {
	if path == "" {
		return nil, fmt.Errorf("empty log path")
	}
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: 3,
		LocalTime:  true,
	}
	SetOutput(file)
	return func() error {
		_ = current().Sync()
		SetOutput(nil)
		return file.Close()
	}, nil
}

func current() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Debug writes a debug log message if logging is enabled.
func Debug(format string, args ...any) {
	current().Debugf(format, args...)
}

// Server writes a server-prefixed log message.
func Server(format string, args ...any) {
	current().Named("server").Infof(format, args...)
}

// Index writes an index-prefixed log message.
func Index(format string, args ...any) {
	current().Named("index").Infof(format, args...)
}

// Watch writes a watcher-prefixed log message.
func Watch(format string, args ...any) {
	current().Named("watch").Infof(format, args...)
}

// Warn writes a warning regardless of area.
func Warn(format string, args ...any) {
	current().Warnf(format, args...)
}

// Enabled returns true if logging is enabled.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}
