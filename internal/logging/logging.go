// Package logging builds the slog backend shared by every subsystem:
// stderr plus an optional rotating logfile.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Config controls where logs go and how verbose they are.
type Config struct {
	// LogFile is the rotating logfile path. Empty means stderr only.
	LogFile string

	// DebugLevel is the slog level name (trace, debug, info, warn,
	// error, critical). Defaults to info.
	DebugLevel string

	// MaxLogFiles bounds how many rotated files are kept.
	MaxLogFiles int
}

// Backend hands out per-subsystem loggers sharing one writer and level.
type Backend struct {
	mu      sync.Mutex
	backend *slog.Backend
	rotator *rotator.Rotator
	level   slog.Level
	loggers map[string]slog.Logger
}

// NewBackend creates the logging backend from config.
func NewBackend(cfg Config) (*Backend, error) {
	level := slog.LevelInfo
	if cfg.DebugLevel != "" {
		l, ok := slog.LevelFromString(cfg.DebugLevel)
		if !ok {
			return nil, fmt.Errorf("unknown debug level %q", cfg.DebugLevel)
		}
		level = l
	}

	b := &Backend{
		level:   level,
		loggers: make(map[string]slog.Logger),
	}

	var w io.Writer = os.Stderr
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		maxRolls := cfg.MaxLogFiles
		if maxRolls <= 0 {
			maxRolls = 3
		}
		r, err := rotator.New(cfg.LogFile, 1024, false, maxRolls)
		if err != nil {
			return nil, fmt.Errorf("create log rotator: %w", err)
		}
		b.rotator = r
		w = io.MultiWriter(os.Stderr, r)
	}

	b.backend = slog.NewBackend(w)
	return b, nil
}

// Logger returns the logger for a subsystem tag, creating it on first use.
func (b *Backend) Logger(tag string) slog.Logger {
	b.mu.Lock()
	defer b.mu.Unlock()

	if l, ok := b.loggers[tag]; ok {
		return l
	}
	l := b.backend.Logger(tag)
	l.SetLevel(b.level)
	b.loggers[tag] = l
	return l
}

// Close flushes and closes the rotating logfile, if any.
func (b *Backend) Close() error {
	if b.rotator != nil {
		return b.rotator.Close()
	}
	return nil
}
