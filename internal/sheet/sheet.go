// Package sheet applies user edits to a grid: literals are stored as
// numbers or text, formulas are evaluated and failures leave an ERROR
// marker next to the formula so the user can fix it.
package sheet

import (
	"errors"
	"io"
	"log/slog"
	"strings"

	"gridcalc/internal/calc"
	"gridcalc/internal/grid"
)

const formulaPrefix = "="

// CellError records a formula that failed during a bulk evaluation.
type CellError struct {
	At  grid.Coord
	Err error
}

func (e CellError) Error() string {
	return e.At.Name() + ": " + e.Err.Error()
}

func (e CellError) Unwrap() error {
	return e.Err
}

type Sheet struct {
	grid   *grid.Grid
	eval   *calc.Evaluator
	logger *slog.Logger
}

// New wraps g. A nil logger discards output.
func New(g *grid.Grid, logger *slog.Logger) *Sheet {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Sheet{
		grid:   g,
		eval:   calc.NewEvaluator(g),
		logger: logger,
	}
}

func (s *Sheet) Grid() *grid.Grid {
	return s.grid
}

// Replace swaps in a freshly loaded grid and evaluates its formulas until
// their values stop changing, so a formula reading a later formula cell sees
// that cell's final value. There are at most as many passes as formula cells.
func (s *Sheet) Replace(g *grid.Grid) []CellError {
	s.grid = g
	s.eval = calc.NewEvaluator(g)

	formulas := 0
	for _, at := range g.Coords() {
		if g.Cell(at.Row, at.Col).HasFormula() {
			formulas++
		}
	}
	var failed []CellError
	for pass := 0; pass < max(formulas, 1); pass++ {
		var changed bool
		failed, changed = s.evaluatePass()
		if !changed {
			break
		}
	}
	return failed
}

// SetInput stores what the user typed into (row, col). A formula that fails
// is kept with an ERROR value and its *calc.FormulaError is returned.
func (s *Sheet) SetInput(row, col int, text string) (grid.Cell, error) {
	text = strings.TrimSpace(text)
	var (
		cell grid.Cell
		err  error
	)
	switch {
	case text == "":
		s.grid.Clear(row, col)
	case strings.HasPrefix(text, formulaPrefix):
		cell, err = s.compute(row, col, text)
		s.grid.Set(row, col, cell)
	default:
		cell = grid.ParseInput(text)
		s.grid.Set(row, col, cell)
	}
	if text != "" {
		s.grid.Grow(row, col)
	}
	s.logger.Debug("cell updated", "cell", grid.ColRowToName(col, row), "input", text, "error", err)
	s.RefreshDependents(row, col)
	return cell, err
}

// RefreshDependents re-evaluates formula cells that refer to (row, col)
// directly. It does not follow dependents of dependents.
func (s *Sheet) RefreshDependents(row, col int) {
	target := grid.Coord{Row: row, Col: col}
	for _, at := range s.grid.Coords() {
		if at == target {
			continue
		}
		c := s.grid.Cell(at.Row, at.Col)
		if !c.HasFormula() || !refersTo(c.Formula, target) {
			continue
		}
		updated, err := s.compute(at.Row, at.Col, c.Formula)
		if err != nil {
			s.logger.Warn("dependent formula failed", "cell", at.Name(), "formula", c.Formula, "error", err)
		}
		s.grid.Set(at.Row, at.Col, updated)
	}
}

// EvaluateAll recomputes every formula cell once, in row-major order.
func (s *Sheet) EvaluateAll() []CellError {
	failed, _ := s.evaluatePass()
	return failed
}

// evaluatePass is one EvaluateAll pass. It also reports whether any formula
// value changed.
func (s *Sheet) evaluatePass() ([]CellError, bool) {
	var failed []CellError
	changed := false
	for _, at := range s.grid.Coords() {
		c := s.grid.Cell(at.Row, at.Col)
		if !c.HasFormula() {
			continue
		}
		updated, err := s.compute(at.Row, at.Col, c.Formula)
		if err != nil {
			s.logger.Warn("formula failed", "cell", at.Name(), "formula", c.Formula, "error", err)
			failed = append(failed, CellError{At: at, Err: err})
		}
		if updated.Value != c.Value {
			changed = true
		}
		s.grid.Set(at.Row, at.Col, updated)
	}
	s.logger.Debug("sheet evaluated", "cells", s.grid.Len(), "failed", len(failed), "changed", changed)
	return failed, changed
}

// Input is the text shown while editing (row, col).
func (s *Sheet) Input(row, col int) string {
	return s.grid.Cell(row, col).Input()
}

// Display is the text shown in (row, col) outside editing.
func (s *Sheet) Display(row, col int) string {
	return s.grid.Cell(row, col).Value.String()
}

func (s *Sheet) AddRow() {
	s.grid.Rows++
}

func (s *Sheet) AddColumn() {
	s.grid.Columns++
}

// DeleteRow drops the last row. The sheet keeps at least one row.
func (s *Sheet) DeleteRow() bool {
	if s.grid.Rows <= 1 {
		return false
	}
	last := s.grid.Rows - 1
	for _, at := range s.grid.Coords() {
		if at.Row == last {
			s.grid.Clear(at.Row, at.Col)
		}
	}
	s.grid.Rows--
	s.EvaluateAll()
	return true
}

// DeleteColumn drops the last column. The sheet keeps at least one column.
func (s *Sheet) DeleteColumn() bool {
	if s.grid.Columns <= 1 {
		return false
	}
	last := s.grid.Columns - 1
	for _, at := range s.grid.Coords() {
		if at.Col == last {
			s.grid.Clear(at.Row, at.Col)
		}
	}
	s.grid.Columns--
	s.EvaluateAll()
	return true
}

func (s *Sheet) compute(row, col int, formula string) (grid.Cell, error) {
	v, err := s.eval.Evaluate(strings.TrimPrefix(formula, formulaPrefix), row, col)
	if err != nil {
		return grid.Cell{Value: grid.ErrorValue(), Formula: formula}, err
	}
	return grid.Cell{Value: grid.Number(v), Formula: formula}, nil
}

func refersTo(formula string, target grid.Coord) bool {
	for _, at := range calc.References(strings.TrimPrefix(formula, formulaPrefix)) {
		if at == target {
			return true
		}
	}
	return false
}

// IsFormulaError reports whether err came from formula evaluation.
func IsFormulaError(err error) bool {
	var fe *calc.FormulaError
	return errors.As(err, &fe)
}
