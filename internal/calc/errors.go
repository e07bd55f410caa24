package calc

import (
	"errors"
	"fmt"
)

var (
	ErrCircularReference = errors.New("circular reference")
	ErrInvalidReference  = errors.New("invalid cell reference")
	ErrNotANumber        = errors.New("cell is not a number")
	ErrInvalidFormula    = errors.New("invalid formula")
)

// FormulaError is the only error Evaluate returns. Message is meant for the
// user; Err is one of the sentinels above.
type FormulaError struct {
	Message string
	Err     error
}

func (e *FormulaError) Error() string {
	return e.Message
}

func (e *FormulaError) Unwrap() error {
	return e.Err
}

func circularReference() *FormulaError {
	return &FormulaError{Message: "Circular reference detected", Err: ErrCircularReference}
}

func invalidReference(ref string) *FormulaError {
	return &FormulaError{Message: "Invalid cell reference: " + ref, Err: ErrInvalidReference}
}

func notANumber(ref string) *FormulaError {
	return &FormulaError{Message: fmt.Sprintf("Cell %s does not contain a number", ref), Err: ErrNotANumber}
}

func invalidFormula(err error) *FormulaError {
	return &FormulaError{Message: "Invalid formula: " + err.Error(), Err: ErrInvalidFormula}
}
