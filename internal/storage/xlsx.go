package storage

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"gridcalc/internal/grid"
)

const (
	valuesSheet   = "Sheet1"
	formulasSheet = "Formulas"
	metaSheet     = "Meta"
)

// SaveXLSX writes computed values to Sheet1 and, when the grid has
// formulas, their text at the same addresses on a Formulas sheet. The grid
// extents go to a hidden Meta sheet.
func SaveXLSX(g *grid.Grid, filename string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeExtents(f, g); err != nil {
		return fmt.Errorf("error writing XLSX: %w", err)
	}

	hasFormulas := false
	for _, at := range g.Coords() {
		c := g.Cell(at.Row, at.Col)
		addr, err := excelize.CoordinatesToCellName(at.Col+1, at.Row+1)
		if err != nil {
			return fmt.Errorf("error writing XLSX: %w", err)
		}
		switch c.Value.Kind {
		case grid.KindNumber:
			err = f.SetCellValue(valuesSheet, addr, c.Value.Number)
		case grid.KindText, grid.KindError:
			err = f.SetCellStr(valuesSheet, addr, c.Value.String())
		}
		if err != nil {
			return fmt.Errorf("error writing XLSX %s: %w", addr, err)
		}
		if !c.HasFormula() {
			continue
		}
		if !hasFormulas {
			if _, err := f.NewSheet(formulasSheet); err != nil {
				return fmt.Errorf("error writing XLSX: %w", err)
			}
			hasFormulas = true
		}
		if err := f.SetCellStr(formulasSheet, addr, c.Formula); err != nil {
			return fmt.Errorf("error writing XLSX %s: %w", addr, err)
		}
	}
	if err := f.SaveAs(filename); err != nil {
		return fmt.Errorf("error writing XLSX: %w", err)
	}
	return nil
}

// LoadXLSX reads a workbook written by SaveXLSX. Plain workbooks work too:
// only the first sheet's values are read then.
func LoadXLSX(filename string) (*grid.Grid, error) {
	f, err := excelize.OpenFile(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := valuesSheet
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("error reading XLSX: %w", err)
	}
	g := grid.New(readExtents(f))
	for r, row := range rows {
		for c, val := range row {
			if val == "" {
				continue
			}
			g.Set(r, c, grid.ParseInput(val))
			g.Grow(r, c)
		}
	}

	if idx, err := f.GetSheetIndex(formulasSheet); err != nil || idx < 0 {
		return g, nil
	}
	formulas, err := f.GetRows(formulasSheet)
	if err != nil {
		return nil, fmt.Errorf("error reading XLSX: %w", err)
	}
	for r, row := range formulas {
		for c, formula := range row {
			if formula == "" {
				continue
			}
			// keep the saved value so formulas reading this cell start from it
			cell := g.Cell(r, c)
			cell.Formula = formula
			if cell.Value.Kind == grid.KindText && cell.Value.Text == grid.ErrorMarker {
				cell.Value = grid.ErrorValue()
			}
			g.Set(r, c, cell)
			g.Grow(r, c)
		}
	}
	return g, nil
}

func writeExtents(f *excelize.File, g *grid.Grid) error {
	if _, err := f.NewSheet(metaSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(metaSheet, "A1", &[]any{"rows", g.Rows}); err != nil {
		return err
	}
	if err := f.SetSheetRow(metaSheet, "A2", &[]any{"columns", g.Columns}); err != nil {
		return err
	}
	return f.SetSheetVisible(metaSheet, false)
}

// readExtents returns the saved grid extents, or zeros (the grid defaults)
// when the workbook has no Meta sheet.
func readExtents(f *excelize.File) (rows, columns int) {
	if idx, err := f.GetSheetIndex(metaSheet); err != nil || idx < 0 {
		return 0, 0
	}
	if v, err := f.GetCellValue(metaSheet, "B1"); err == nil {
		rows, _ = strconv.Atoi(v)
	}
	if v, err := f.GetCellValue(metaSheet, "B2"); err == nil {
		columns, _ = strconv.Atoi(v)
	}
	return rows, columns
}
