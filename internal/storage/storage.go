package storage

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gridcalc/internal/grid"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// SaveDocument writes g in the format picked by the file extension:
// .json, .csv or .xlsx.
func SaveDocument(g *grid.Grid, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return SaveJSON(g, filename)
	case ".csv":
		return SaveCSV(g, filename)
	case ".xlsx":
		return SaveXLSX(g, filename)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// LoadDocument is the reading side of SaveDocument. Formulas come back
// unevaluated.
func LoadDocument(filename string) (*grid.Grid, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return LoadJSON(filename)
	case ".csv":
		return LoadCSV(filename)
	case ".xlsx":
		return LoadXLSX(filename)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
}

// SaveCSV writes each cell's input text (formula or literal) to a CSV file.
func SaveCSV(g *grid.Grid, filename string) error {
	maxR, maxC := g.Bounds()
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	if maxR < 0 || maxC < 0 {
		return nil
	}
	out := make([][]string, maxR+1)
	for r := 0; r <= maxR; r++ {
		row := make([]string, maxC+1)
		for c := 0; c <= maxC; c++ {
			row[c] = g.Cell(r, c).Input()
		}
		out[r] = row
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(out); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}
	return f.Close()
}

// LoadCSV reads a CSV file written by SaveCSV. Extents cover at least the
// data and never shrink below the defaults.
func LoadCSV(filename string) (*grid.Grid, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	g := grid.New(grid.DefaultRows, grid.DefaultColumns)
	for rIdx, row := range records {
		for cIdx, val := range row {
			if strings.TrimSpace(val) == "" {
				continue
			}
			g.Set(rIdx, cIdx, grid.ParseInput(val))
			g.Grow(rIdx, cIdx)
		}
	}
	return g, nil
}
