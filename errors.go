package intcap

import "errors"

// Error classes of the accounting engine. Callers classify failures with
// errors.Is; the specific violation types in integrity.go additionally
// support errors.As.
var (
	// ErrValidation marks malformed or inconsistent input, rejected
	// before any write. Recoverable by caller correction.
	ErrValidation = errors.New("validation failed")

	// ErrConcurrentWrite is returned by AppendAt when another append
	// raced past the expected tail. Transient: retry against the new
	// tail.
	ErrConcurrentWrite = errors.New("concurrent write conflict")

	// ErrOwnership marks an execution with no resolvable asset or
	// owner. Such records are rejected, never silently capitalized.
	ErrOwnership = errors.New("ownership violation")

	// ErrUnbalancedDerivation signals an internal defect in the journal
	// mapping. It is fatal for the affected entry: journal generation
	// halts rather than emit incorrect books.
	ErrUnbalancedDerivation = errors.New("unbalanced journal derivation")
)

func isConcurrentWrite(err error) bool { return errors.Is(err, ErrConcurrentWrite) }
