package engine

import (
	"fmt"
	"strings"
	"unicode"
)

// ============================================================================
// EXPRESSION — <label><operator><label>
// ============================================================================
// Parsing:
//   1. Drop every whitespace rune.
//   2. Split on every + - * occurrence, keeping the operators.
//   3. Exactly three pieces must remain: left, operator, right.
//   4. Both operands must be valid labels.
// ============================================================================

// Expression is a parsed binary column expression.
type Expression struct {
	Left  string
	Op    Operator
	Right string
}

func (e Expression) String() string {
	return e.Left + " " + e.Op.String() + " " + e.Right
}

// ParseExpression parses s into an Expression.
func ParseExpression(s string) (Expression, error) {
	norm := stripSpace(s)
	pieces := splitOperators(norm)
	if len(pieces) != 3 {
		return Expression{}, fmt.Errorf("%w: %q splits into %d tokens, want 3", ErrMalformedExpression, s, len(pieces))
	}

	e := Expression{Left: pieces[0], Op: Operator(pieces[1][0]), Right: pieces[2]}
	if !ValidLabel(e.Left) {
		return Expression{}, fmt.Errorf("%w: left operand %q", ErrInvalidLabel, e.Left)
	}
	if !ValidLabel(e.Right) {
		return Expression{}, fmt.Errorf("%w: right operand %q", ErrInvalidLabel, e.Right)
	}
	return e, nil
}

// stripSpace removes all whitespace, including the ASCII file, group,
// record and unit separators U+001C-U+001F.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f') {
			return -1
		}
		return r
	}, s)
}

// splitOperators splits s around every operator byte and keeps each
// operator as its own piece, so "a+b-c" becomes [a + b - c].
// Operands may be empty: "+a" becomes ["" + a].
func splitOperators(s string) []string {
	pieces := make([]string, 0, 3)
	start := 0
	for i := 0; i < len(s); i++ {
		if isOperator(s[i]) {
			pieces = append(pieces, s[start:i], s[i:i+1])
			start = i + 1
		}
	}
	return append(pieces, s[start:])
}
