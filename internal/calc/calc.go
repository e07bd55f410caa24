package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gridcalc/internal/grid"
)

// Evaluator computes formulas against a grid. It only reads the grid.
type Evaluator struct {
	cells grid.Getter
}

func NewEvaluator(cells grid.Getter) *Evaluator {
	return &Evaluator{cells: cells}
}

// Evaluate computes formula (without its leading "=") for the cell at
// (row, col). Any failure is returned as a *FormulaError.
func (e *Evaluator) Evaluate(formula string, row, col int) (float64, error) {
	formula = strings.TrimSpace(formula)

	// inc(...) and dec(...) are only recognised around the whole formula
	for _, spec := range Operators {
		if spec.Arity != Unary {
			continue
		}
		n := len(spec.Symbol) + 1
		if len(formula) > n && strings.EqualFold(formula[:n], spec.Symbol+"(") && strings.HasSuffix(formula, ")") {
			inner, err := e.Evaluate(formula[n:len(formula)-1], row, col)
			if err != nil {
				return 0, err
			}
			v, err := spec.Op.applyUnary(inner)
			if err != nil {
				return 0, invalidFormula(err)
			}
			return v, nil
		}
	}

	toks := lex(formula)
	if err := e.resolve(toks, row, col); err != nil {
		return 0, err
	}

	p := parser{toks: toks}
	val, err := p.parseAddSub()
	if err != nil {
		return 0, invalidFormula(err)
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return 0, invalidFormula(unexpected(tok))
	}
	// avoid NaN/Inf leaking into cells
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, invalidFormula(errOutOfRange)
	}
	return val, nil
}

// resolve turns every reference token into the value it points at, left to
// right. Each distinct reference is looked up once.
func (e *Evaluator) resolve(toks []token, row, col int) error {
	seen := map[string]float64{}
	for i := range toks {
		tok := &toks[i]
		if tok.kind != tokRef {
			continue
		}
		if f, ok := seen[tok.text]; ok {
			tok.kind, tok.num = tokValue, f
			continue
		}
		at, err := grid.ParseRef(tok.text)
		if err != nil {
			return invalidReference(tok.text)
		}
		if at.Row == row && at.Col == col {
			return circularReference()
		}
		v := e.cells.Cell(at.Row, at.Col).Value
		f := 0.0
		if !v.IsEmpty() {
			var ok bool
			if f, ok = v.Float(); !ok {
				return notANumber(tok.text)
			}
		}
		seen[tok.text] = f
		tok.kind, tok.num = tokValue, f
	}
	return nil
}

// References lists the distinct cells a formula (without its "=") refers to,
// in order of appearance. Malformed references are skipped.
func References(formula string) []grid.Coord {
	var out []grid.Coord
	seen := map[grid.Coord]bool{}
	for _, tok := range lex(formula) {
		if tok.kind != tokRef {
			continue
		}
		at, err := grid.ParseRef(tok.text)
		if err != nil || seen[at] {
			continue
		}
		seen[at] = true
		out = append(out, at)
	}
	return out
}

// parser is a recursive-descent evaluator over resolved tokens.
//
//	addsub  := muldiv (('+' | '-') muldiv)*
//	muldiv  := factor (('*' | '/' | '%' | '//') factor)*
//	factor  := ('+' | '-') factor | power
//	power   := primary ('**' factor)?
//	primary := number | reference | '(' addsub ')'
type parser struct {
	toks []token
	pos  int
}

var errUnexpectedEnd = errors.New("unexpected end of formula")

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseAddSub() (float64, error) {
	val, err := p.parseMulDiv()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || (tok.op != OpAdd && tok.op != OpSub) {
			return val, nil
		}
		p.next()
		right, err := p.parseMulDiv()
		if err != nil {
			return 0, err
		}
		if val, err = tok.op.apply(val, right); err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseMulDiv() (float64, error) {
	val, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return val, nil
		}
		switch tok.op {
		case OpMul, OpDiv, OpMod, OpFloorDiv:
		default:
			return val, nil
		}
		p.next()
		right, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if val, err = tok.op.apply(val, right); err != nil {
			return 0, err
		}
	}
}

func (p *parser) parseFactor() (float64, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.op == OpAdd || tok.op == OpSub) {
		p.next()
		v, err := p.parseFactor()
		if err != nil {
			return 0, err
		}
		if tok.op == OpSub {
			return -v, nil
		}
		return v, nil
	}
	return p.parsePower()
}

// parsePower is right-associative and binds tighter than a leading sign
// on its left: -2**2 is -4 and 2**3**2 is 512.
func (p *parser) parsePower() (float64, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return 0, err
	}
	tok := p.peek()
	if tok.kind != tokOp || tok.op != OpPow {
		return base, nil
	}
	p.next()
	exp, err := p.parseFactor()
	if err != nil {
		return 0, err
	}
	return OpPow.apply(base, exp)
}

func (p *parser) parsePrimary() (float64, error) {
	tok := p.next()
	switch tok.kind {
	case tokValue:
		return tok.num, nil
	case tokNumber:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid number %q", tok.text)
		}
		return v, nil
	case tokLParen:
		v, err := p.parseAddSub()
		if err != nil {
			return 0, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			if closing.kind == tokEOF {
				return 0, errors.New("missing closing parenthesis")
			}
			return 0, unexpected(closing)
		}
		return v, nil
	}
	return 0, unexpected(tok)
}

func unexpected(tok token) error {
	switch tok.kind {
	case tokEOF:
		return errUnexpectedEnd
	case tokIllegal:
		if isLetter(tok.text[0]) {
			return fmt.Errorf("unsupported name %q at position %d", tok.text, tok.pos)
		}
		return fmt.Errorf("invalid character %q at position %d", tok.text, tok.pos)
	}
	return fmt.Errorf("unexpected %q at position %d", tok.text, tok.pos)
}
