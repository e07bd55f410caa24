package calc

import (
	"errors"
	"math"
)

type Arity uint8

const (
	Binary Arity = iota + 1
	Unary
)

// Op identifies one entry of the fixed operator table.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	OpFloorDiv
	OpInc
	OpDec
)

// OperatorSpec describes an operator as users write it.
type OperatorSpec struct {
	Op     Op
	Symbol string
	Arity  Arity
}

// Operators is the complete operator set. Symbols of word operators are
// matched case-insensitively.
var Operators = [...]OperatorSpec{
	{OpAdd, "+", Binary},
	{OpSub, "-", Binary},
	{OpMul, "*", Binary},
	{OpDiv, "/", Binary},
	{OpPow, "**", Binary},
	{OpMod, "mod", Binary},
	{OpFloorDiv, "div", Binary},
	{OpInc, "inc", Unary},
	{OpDec, "dec", Unary},
}

var (
	errDivByZero  = errors.New("division by zero")
	errModByZero  = errors.New("modulo by zero")
	errZeroPowNeg = errors.New("zero cannot be raised to a negative power")
	errOutOfRange = errors.New("numeric result out of range")
	errNotUnary   = errors.New("operator is not unary")
	errNotBinary  = errors.New("operator is not binary")
)

// apply evaluates a binary operator.
func (o Op) apply(x, y float64) (float64, error) {
	switch o {
	case OpAdd:
		return x + y, nil
	case OpSub:
		return x - y, nil
	case OpMul:
		return x * y, nil
	case OpDiv:
		if y == 0 {
			return 0, errDivByZero
		}
		return x / y, nil
	case OpPow:
		if x == 0 && y < 0 {
			return 0, errZeroPowNeg
		}
		return math.Pow(x, y), nil
	case OpMod:
		if y == 0 {
			return 0, errModByZero
		}
		// result takes the sign of the divisor
		r := math.Mod(x, y)
		if r != 0 && (r < 0) != (y < 0) {
			r += y
		}
		return r, nil
	case OpFloorDiv:
		if y == 0 {
			return 0, errDivByZero
		}
		return math.Floor(x / y), nil
	}
	return 0, errNotBinary
}

// applyUnary evaluates inc or dec.
func (o Op) applyUnary(x float64) (float64, error) {
	switch o {
	case OpInc:
		return x + 1, nil
	case OpDec:
		return x - 1, nil
	}
	return 0, errNotUnary
}
