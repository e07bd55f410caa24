package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/gdamore/tcell/v2"
)

// Run starts gridcalc as configured: headless evaluation to stdout, or the
// terminal UI.
func Run(cfg *Config, stdout io.Writer) error {
	logW, closeLog, err := logOutput(cfg)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	defer closeLog()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)

	a := NewApp(cfg, logger)
	defer a.Close()

	if cfg.Eval {
		return a.Eval(cfg.File, stdout)
	}

	// a missing file is created by the first :w
	if cfg.File != "" {
		if _, err := a.Open(cfg.File); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("cannot create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("cannot init screen: %w", err)
	}
	defer s.Fini()

	logger.Debug("ui started", "rows", cfg.Rows, "cols", cfg.Cols, "file", cfg.File)
	return a.Loop(s, !cfg.NoSplash)
}
