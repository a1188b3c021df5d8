package moss

import "fmt"

// Kind classifies a MossError per the error taxonomy: bad CLI input and
// out-of-range parameters are distinguished from I/O failures and from
// violations of the pipeline's own invariants, so a caller can decide
// whether a diagnostic is the user's fault or the program's.
type Kind int

const (
	// Usage covers invalid or missing command-line arguments.
	Usage Kind = iota
	// Configuration covers parameter values that are individually
	// well-formed but violate a cross-field constraint (0 < k <= t, etc).
	Configuration
	// IO covers filesystem failures: missing directories, unreadable
	// files, empty submission sets.
	IO
	// Invariant covers defects in the core pipeline itself (tracing a
	// zero DP cell, an unprocessed document reaching the analyzer, a
	// pair with an empty match set). These are never the user's fault.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Usage:
		return "usage"
	case Configuration:
		return "configuration"
	case IO:
		return "io"
	case Invariant:
		return "invariant"
	default:
		return "error"
	}
}

// MossError is the single error type returned through the pipeline
// boundary; only cmd/arrmoss's driver prints it and calls os.Exit.
type MossError struct {
	Kind Kind
	Msg  string
}

func (e *MossError) Error() string {
	return e.Msg
}

func newErr(k Kind, format string, args ...interface{}) *MossError {
	return &MossError{Kind: k, Msg: fmt.Sprintf(format, args...)}
}

// UsageErrorf constructs a Usage-kind MossError.
func UsageErrorf(format string, args ...interface{}) *MossError {
	return newErr(Usage, format, args...)
}

// ConfigErrorf constructs a Configuration-kind MossError.
func ConfigErrorf(format string, args ...interface{}) *MossError {
	return newErr(Configuration, format, args...)
}

// IOErrorf constructs an IO-kind MossError.
func IOErrorf(format string, args ...interface{}) *MossError {
	return newErr(IO, format, args...)
}

// InvariantErrorf constructs an Invariant-kind MossError, signaling a
// programming defect in the core rather than a user-facing mistake.
func InvariantErrorf(format string, args ...interface{}) *MossError {
	return newErr(Invariant, format, args...)
}
