package calc

import (
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokRef
	tokValue // a reference after resolution
	tokOp
	tokLParen
	tokRParen
	tokIllegal
)

type token struct {
	kind tokenKind
	text string
	op   Op
	num  float64
	pos  int // byte offset in the formula
}

// lex splits a formula into tokens. It never fails: anything it does not
// understand becomes a tokIllegal which the parser reports, so reference
// errors that appear earlier in the formula win.
func lex(input string) []token {
	var toks []token
	i := 0
	for i < len(input) {
		ch := input[i]
		switch {
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			i++
		case isDigit(ch) || (ch == '.' && i+1 < len(input) && isDigit(input[i+1])):
			j := scanNumber(input, i)
			toks = append(toks, token{kind: tokNumber, text: input[i:j], pos: i})
			i = j
		case isLetter(ch):
			j := i
			for j < len(input) && isWordChar(input[j]) {
				j++
			}
			toks = append(toks, classifyWord(input[i:j], i))
			i = j
		case ch == '(':
			toks = append(toks, token{kind: tokLParen, text: "(", pos: i})
			i++
		case ch == ')':
			toks = append(toks, token{kind: tokRParen, text: ")", pos: i})
			i++
		default:
			tok, n := scanSymbol(input[i:])
			tok.pos = i
			toks = append(toks, tok)
			i += n
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(input)})
}

// scanNumber returns the end of the number literal starting at i:
// digits, an optional fraction and an optional exponent.
func scanNumber(input string, i int) int {
	j := i
	for j < len(input) && isDigit(input[j]) {
		j++
	}
	if j < len(input) && input[j] == '.' {
		j++
		for j < len(input) && isDigit(input[j]) {
			j++
		}
	}
	if j < len(input) && (input[j] == 'e' || input[j] == 'E') {
		k := j + 1
		if k < len(input) && (input[k] == '+' || input[k] == '-') {
			k++
		}
		if k < len(input) && isDigit(input[k]) {
			for k < len(input) && isDigit(input[k]) {
				k++
			}
			j = k
		}
	}
	return j
}

// classifyWord turns a run of word characters into a reference, a word
// operator or an illegal name.
func classifyWord(word string, pos int) token {
	if isRefWord(word) {
		return token{kind: tokRef, text: word, pos: pos}
	}
	switch strings.ToLower(word) {
	case "mod":
		return token{kind: tokOp, text: word, op: OpMod, pos: pos}
	case "div":
		return token{kind: tokOp, text: word, op: OpFloorDiv, pos: pos}
	}
	return token{kind: tokIllegal, text: word, pos: pos}
}

func scanSymbol(s string) (token, int) {
	if len(s) >= 2 {
		switch s[:2] {
		case "**":
			return token{kind: tokOp, text: "**", op: OpPow}, 2
		case "//":
			return token{kind: tokOp, text: "//", op: OpFloorDiv}, 2
		}
	}
	switch s[0] {
	case '+':
		return token{kind: tokOp, text: "+", op: OpAdd}, 1
	case '-':
		return token{kind: tokOp, text: "-", op: OpSub}, 1
	case '*':
		return token{kind: tokOp, text: "*", op: OpMul}, 1
	case '/':
		return token{kind: tokOp, text: "/", op: OpDiv}, 1
	case '%':
		return token{kind: tokOp, text: "%", op: OpMod}, 1
	case '^':
		return token{kind: tokOp, text: "^", op: OpPow}, 1
	}
	// keep multi-byte characters whole so messages stay readable
	n := 1
	for n < len(s) && s[n]&0xC0 == 0x80 {
		n++
	}
	return token{kind: tokIllegal, text: s[:n]}, n
}

// isRefWord reports whether word is one or more uppercase letters followed
// by one or more digits.
func isRefWord(word string) bool {
	i := 0
	for i < len(word) && word[i] >= 'A' && word[i] <= 'Z' {
		i++
	}
	if i == 0 || i == len(word) {
		return false
	}
	for ; i < len(word); i++ {
		if !isDigit(word[i]) {
			return false
		}
	}
	return true
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isWordChar(b byte) bool {
	return isLetter(b) || isDigit(b) || b == '_'
}
