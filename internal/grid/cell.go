package grid

import (
	"math"
	"strconv"
	"strings"
)

// ErrorMarker is what a cell shows when its formula failed.
const ErrorMarker = "ERROR"

type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindError
)

// Value is the content of a cell: nothing, a number, text or an error marker.
type Value struct {
	Kind   Kind
	Number float64
	Text   string
}

func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }
func Text(s string) Value    { return Value{Kind: KindText, Text: s} }
func ErrorValue() Value      { return Value{Kind: KindError} }

// Float converts the value to a number. Text is parsed leniently
// (surrounding whitespace is ignored); empty and error values are not numbers.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func (v Value) IsEmpty() bool {
	return v.Kind == KindEmpty || (v.Kind == KindText && v.Text == "")
}

// String renders the value for display.
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return FormatNumber(v.Number)
	case KindText:
		return v.Text
	case KindError:
		return ErrorMarker
	}
	return ""
}

// Cell holds a value and, for computed cells, the formula text including
// its leading "=".
type Cell struct {
	Value   Value
	Formula string
}

func (c Cell) HasFormula() bool {
	return c.Formula != ""
}

func (c Cell) IsEmpty() bool {
	return c.Value.IsEmpty() && !c.HasFormula()
}

// Input is the text a user edits: the formula if present, else the literal.
func (c Cell) Input() string {
	if c.HasFormula() {
		return c.Formula
	}
	return c.Value.String()
}

// FormatNumber prints integers without a fraction and trims trailing zeros.
func FormatNumber(f float64) string {
	if math.Trunc(f) == f && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseInput turns typed or imported text into a cell. Formulas keep their
// text and an empty value until evaluated; numbers become numbers.
func ParseInput(text string) Cell {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "=") {
		return Cell{Formula: text}
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return Cell{Value: Number(f)}
	}
	return Cell{Value: Text(text)}
}
