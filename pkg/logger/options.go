package logger

import (
	"fmt"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/config"

	"go.uber.org/zap/zapcore"
)

const (
	_defaultMaxSize    = 100
	_defaultMaxBackups = 7
	_defaultMaxAge     = 30
)

type settings struct {
	level      zapcore.Level
	levelSet   bool
	filename   string
	maxSize    int
	maxBackups int
	maxAge     int
}

type Option func(*settings)

// Level overrides the level from config.
func Level(level zapcore.Level) Option {
	return func(s *settings) {
		s.level = level
		s.levelSet = true
	}
}

// Filename overrides the log file path from config. An empty path disables
// the file sink and leaves stdout only.
func Filename(name string) Option {
	return func(s *settings) {
		s.filename = name
	}
}

func defaultSettings() *settings {
	return &settings{
		level:      zapcore.InfoLevel,
		maxSize:    _defaultMaxSize,
		maxBackups: _defaultMaxBackups,
		maxAge:     _defaultMaxAge,
	}
}

func (s *settings) applyConfig(cfg *config.Logger) error {
	if !s.levelSet {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return fmt.Errorf("parse level %q: %w", cfg.Level, err)
		}
		s.level = level
	}
	if s.filename == "" {
		s.filename = cfg.Filename
	}
	if cfg.MaxSize > 0 {
		s.maxSize = cfg.MaxSize
	}
	if cfg.MaxBackups > 0 {
		s.maxBackups = cfg.MaxBackups
	}
	if cfg.MaxAge > 0 {
		s.maxAge = cfg.MaxAge
	}
	return nil
}
