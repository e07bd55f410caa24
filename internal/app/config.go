package app

import (
	"errors"
	"fmt"
)

// Config holds everything an App needs to start.
type Config struct {
	File   string // document opened at start, saved by a bare :w
	DBPath string // bbolt file behind :save, :load and :ls

	Rows int
	Cols int

	Eval     bool // print evaluated File and exit instead of starting the UI
	NoSplash bool

	LogLevel  string
	LogFormat string
	LogFile   string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Eval && cfg.File == "" {
		return nil, errors.New("eval mode needs a file to evaluate")
	}
	if cfg.Rows < 1 || cfg.Cols < 1 {
		return nil, fmt.Errorf("grid size must be at least 1x1, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.DBPath == "" {
		return nil, errors.New("DBPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
