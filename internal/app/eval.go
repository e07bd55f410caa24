package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrFormulasFailed = errors.New("formula(s) failed")

// Eval loads filename, evaluates it and writes the display values as
// tab-separated rows covering the occupied area. Failed formulas show as
// ERROR and make Eval return ErrFormulasFailed after the table is written.
func (a *App) Eval(filename string, w io.Writer) error {
	failed, err := a.Open(filename)
	if err != nil {
		return err
	}

	maxR, maxC := a.Sheet.Grid().Bounds()
	bw := bufio.NewWriter(w)
	fields := make([]string, maxC+1)
	for r := 0; r <= maxR; r++ {
		for c := range fields {
			fields[c] = a.Sheet.Display(r, c)
		}
		fmt.Fprintln(bw, strings.Join(fields, "\t"))
	}
	if err := bw.Flush(); err != nil {
		return err
	}

	if len(failed) > 0 {
		return fmt.Errorf("%s: %d %w, first %v", filename, len(failed), ErrFormulasFailed, failed[0])
	}
	return nil
}
