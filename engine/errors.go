package engine

import "errors"

// ============================================================================
// ERRORS — Classification of derivation failures
// ============================================================================
// Every failure returned by Derive wraps exactly one of these sentinels.
// Match with errors.Is; the wrapped message carries the offending input.
// ============================================================================

var (
	// ErrMalformedExpression: the expression is not <label><op><label>.
	ErrMalformedExpression = errors.New("malformed expression")

	// ErrInvalidLabel: an operand is not letters and underscores only.
	ErrInvalidLabel = errors.New("invalid column label")

	// ErrUnknownColumn: an operand names a column the dataset does not have.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrInvalidTarget: the new column name is not letters and underscores only.
	ErrInvalidTarget = errors.New("invalid target column name")

	// ErrIncompatibleTypes: the operator does not accept the operand kinds.
	ErrIncompatibleTypes = errors.New("incompatible column types")

	// ErrUnsupportedOperator: an operator outside + - * reached evaluation.
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrColumnExists: the target exists and overwriting is disabled.
	ErrColumnExists = errors.New("column already exists")

	ErrNilDataset      = errors.New("nil dataset")
	ErrRaggedColumns   = errors.New("columns differ in length")
	ErrDuplicateColumn = errors.New("duplicate column name")
)
