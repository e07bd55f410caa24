package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gridcalc/internal/grid"
	"gridcalc/internal/sheet"
	"gridcalc/internal/storage"
)

var (
	ErrUnknownCommand  = errors.New("unknown command")
	ErrMissingArgument = errors.New("missing argument")
)

// ExecuteCommand runs a ":" command line. Successful commands leave a short
// note in Status; failures are returned for the caller to report.
func (a *App) ExecuteCommand(cmd string) error {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return nil
	}
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	switch parts[0] {
	case "q", "quit":
		a.Quit = true
	case "cw":
		v, err := strconv.Atoi(arg(1))
		if err != nil || v < 4 {
			return errors.New("cw: width must be a number >= 4")
		}
		for i := range a.ColWidths {
			a.ColWidths[i] = v
		}
	case "rh":
		v, err := strconv.Atoi(arg(1))
		if err != nil || v < 1 {
			return errors.New("rh: height must be a number >= 1")
		}
		for i := range a.RowHeights {
			a.RowHeights[i] = v
		}
	case "w":
		filename := arg(1)
		if filename == "" {
			filename = a.File
		}
		if filename == "" {
			return fmt.Errorf("w: %w: file name", ErrMissingArgument)
		}
		return a.Save(withFormat(filename, arg(2)))
	case "o":
		if arg(1) == "" {
			return fmt.Errorf("o: %w: file name", ErrMissingArgument)
		}
		_, err := a.Open(withFormat(arg(1), arg(2)))
		return err
	case "save":
		if arg(1) == "" {
			return fmt.Errorf("save: %w: sheet name", ErrMissingArgument)
		}
		return a.SaveNamed(arg(1))
	case "load":
		if arg(1) == "" {
			return fmt.Errorf("load: %w: sheet name", ErrMissingArgument)
		}
		return a.LoadNamed(arg(1))
	case "rm":
		if arg(1) == "" {
			return fmt.Errorf("rm: %w: sheet name", ErrMissingArgument)
		}
		store, err := a.openStore()
		if err != nil {
			return err
		}
		if err := store.Delete(arg(1)); err != nil {
			return err
		}
		a.Status = "removed " + arg(1)
	case "ls":
		store, err := a.openStore()
		if err != nil {
			return err
		}
		names, err := store.Names()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			a.Status = "no saved sheets"
		} else {
			a.Status = "sheets: " + strings.Join(names, ", ")
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, parts[0])
	}
	return nil
}

// withFormat appends the extension for an explicit format argument
// ("w data csv" writes data.csv).
func withFormat(filename, format string) string {
	if format == "" {
		return filename
	}
	ext := "." + strings.ToLower(format)
	if strings.EqualFold(filepath.Ext(filename), ext) {
		return filename
	}
	return filename + ext
}

// Save re-evaluates every formula and writes the sheet to filename. It
// becomes the file a bare :w writes to.
func (a *App) Save(filename string) error {
	a.Sheet.EvaluateAll()
	if err := storage.SaveDocument(a.Sheet.Grid(), filename); err != nil {
		return err
	}
	a.File = filename
	a.Status = "written " + filename
	a.logger.Info("document saved", "file", filename)
	return nil
}

// Open loads filename into the sheet and evaluates it. The returned cell
// errors are formulas that failed; they are not an error for Open.
func (a *App) Open(filename string) ([]sheet.CellError, error) {
	g, err := storage.LoadDocument(filename)
	if err != nil {
		return nil, err
	}
	failed := a.replace(g)
	a.File = filename
	a.Status = loadedStatus(filename, failed)
	a.logger.Info("document loaded", "file", filename, "cells", g.Len(), "failed", len(failed))
	return failed, nil
}

func (a *App) SaveNamed(name string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	a.Sheet.EvaluateAll()
	if err := store.Put(name, a.Sheet.Grid()); err != nil {
		return err
	}
	a.Status = "saved " + name
	a.logger.Info("sheet saved", "name", name, "db", a.dbPath)
	return nil
}

func (a *App) LoadNamed(name string) error {
	store, err := a.openStore()
	if err != nil {
		return err
	}
	g, err := store.Get(name)
	if err != nil {
		return err
	}
	failed := a.replace(g)
	a.Status = loadedStatus(name, failed)
	a.logger.Info("sheet loaded", "name", name, "db", a.dbPath, "failed", len(failed))
	return nil
}

func (a *App) replace(g *grid.Grid) []sheet.CellError {
	failed := a.Sheet.Replace(g)
	a.CurRow, a.CurCol, a.ViewRow, a.ViewCol = 0, 0, 0, 0
	a.syncExtents()
	return failed
}

func loadedStatus(what string, failed []sheet.CellError) string {
	if len(failed) == 0 {
		return "loaded " + what
	}
	return fmt.Sprintf("loaded %s, %d formula(s) failed, first %v", what, len(failed), failed[0])
}

// openStore opens the sheet store on first use.
func (a *App) openStore() (*storage.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.OpenStore(a.dbPath)
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}
