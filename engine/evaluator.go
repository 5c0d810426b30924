package engine

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ============================================================================
// EVALUATOR — Validate, copy, compute, assign
// ============================================================================
// Entry points:
//   Derive(ds, expr, name, opts...)    — result or classified error
//   AddVirtualColumn(ds, expr, name)   — result or Empty() on any failure
//
// Pipeline:
//   1. Parse expression (shape + operand labels)
//   2. Resolve operands against the dataset
//   3. Validate the target name
//   4. Type-check the operator against the operand kinds
//   5. Deep-copy the dataset, compute the column, assign it
//
// Steps 1-4 run before the copy. Both operands come from one dataset, so
// their lengths already agree; the length check inside Operator.Apply
// only fails for columns passed to Apply directly.
// The input dataset is never modified.
// ============================================================================

// Derive returns a copy of ds with a column called name holding expr
// evaluated row by row. expr has the form "left <op> right" where op is
// one of + - * and both operands name existing columns. An existing column
// called name is replaced in place unless WithoutOverwrite is given.
func Derive(ds *Dataset, expr, name string, opts ...Option) (*Dataset, error) {
	cfg := applyOptions(opts)
	if ds == nil {
		return nil, ErrNilDataset
	}

	e, err := ParseExpression(expr)
	if err != nil {
		return nil, err
	}

	left, ok := ds.Column(e.Left)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, e.Left)
	}
	right, ok := ds.Column(e.Right)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, e.Right)
	}

	if !ValidLabel(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTarget, name)
	}
	if !cfg.Overwrite && ds.Has(name) {
		return nil, fmt.Errorf("%w: %q", ErrColumnExists, name)
	}

	kind, err := e.Op.ResultKind(left.Kind(), right.Kind())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e, err)
	}

	log := cfg.Logger.WithFields(logrus.Fields{
		"expr":   e.String(),
		"target": name,
		"kind":   kind.String(),
		"rows":   ds.Len(),
	})
	log.Debug("deriving column")

	out := ds.Clone()
	left, _ = out.Column(e.Left)
	right, _ = out.Column(e.Right)
	col, err := e.Op.Apply(name, left, right)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e, err)
	}
	replaced := out.Has(name)
	out.set(col)

	log.WithField("replaced", replaced).Debug("column derived")
	return out, nil
}

// AddVirtualColumn is Derive with every failure collapsed into an empty
// dataset (zero columns, zero rows). Callers that need to tell failure
// apart from a legitimately empty input should use Derive.
func AddVirtualColumn(ds *Dataset, expr, name string) *Dataset {
	out, err := Derive(ds, expr, name)
	if err != nil {
		return Empty()
	}
	return out
}
