package engine

import "fmt"

// ============================================================================
// OPERATORS — Closed set of element-wise binary operators
// ============================================================================
// Kind table (left × right → result):
//
//	          int×int   int/float mixes   string×string
//	  +       int       float             string (concat)
//	  -       int       float             —
//	  *       int       float             —
//
// Any string × numeric pairing is rejected. Int arithmetic wraps.
// ============================================================================

// Operator is one of the supported binary operators.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
)

var operators = []Operator{OpAdd, OpSub, OpMul}

func (op Operator) String() string { return string(op) }

// Valid reports whether op is one of the supported operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSub, OpMul:
		return true
	}
	return false
}

// isOperator reports whether b lexes as an operator character.
func isOperator(b byte) bool {
	for _, op := range operators {
		if byte(op) == b {
			return true
		}
	}
	return false
}

// ResultKind returns the kind op produces from operands of the given kinds.
func (op Operator) ResultKind(left, right Kind) (Kind, error) {
	if !op.Valid() {
		return KindInvalid, fmt.Errorf("%w: %q", ErrUnsupportedOperator, byte(op))
	}
	switch {
	case left == KindInt && right == KindInt:
		return KindInt, nil
	case left.IsNumeric() && right.IsNumeric():
		return KindFloat, nil
	case left == KindString && right == KindString && op == OpAdd:
		return KindString, nil
	}
	return KindInvalid, fmt.Errorf("%w: %s %s %s", ErrIncompatibleTypes, left, op, right)
}

// Apply computes op element-wise over left and right and returns the
// result as a new column called name. Neither input is modified.
func (op Operator) Apply(name string, left, right *Column) (*Column, error) {
	kind, err := op.ResultKind(left.Kind(), right.Kind())
	if err != nil {
		return nil, err
	}
	n := left.Len()
	if right.Len() != n {
		return nil, fmt.Errorf("%w: %q has %d rows, %q has %d", ErrRaggedColumns, left.Name(), n, right.Name(), right.Len())
	}

	out := &Column{name: name, kind: kind}
	switch kind {
	case KindInt:
		fn := op.intFunc()
		out.ints = make([]int64, n)
		for i := 0; i < n; i++ {
			out.ints[i] = fn(left.ints[i], right.ints[i])
		}
	case KindFloat:
		fn := op.floatFunc()
		out.floats = make([]float64, n)
		for i := 0; i < n; i++ {
			out.floats[i] = fn(left.Float(i), right.Float(i))
		}
	case KindString:
		out.strings = make([]string, n)
		for i := 0; i < n; i++ {
			out.strings[i] = left.strings[i] + right.strings[i]
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOperator, byte(op))
	}
	return out, nil
}

func (op Operator) intFunc() func(a, b int64) int64 {
	switch op {
	case OpAdd:
		return func(a, b int64) int64 { return a + b }
	case OpSub:
		return func(a, b int64) int64 { return a - b }
	case OpMul:
		return func(a, b int64) int64 { return a * b }
	}
	panic("engine: intFunc on invalid operator " + op.String())
}

func (op Operator) floatFunc() func(a, b float64) float64 {
	switch op {
	case OpAdd:
		return func(a, b float64) float64 { return a + b }
	case OpSub:
		return func(a, b float64) float64 { return a - b }
	case OpMul:
		return func(a, b float64) float64 { return a * b }
	}
	panic("engine: floatFunc on invalid operator " + op.String())
}
