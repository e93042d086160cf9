// Package vmcerr defines the error taxonomy shared by every layer of the
// optimizer: config, domain, numeric, protocol, and I/O failures, matching
// the error-kind policy described for this system (fatal vs. surfaced).
package vmcerr

import (
	"errors"
	"fmt"
)

// Kind classifies an error for the purposes of the fatal/surfaced policy:
// every kind except Numeric aborts all workers after a diagnostic on
// rank 0; Numeric is logged against the offending iteration and the
// run continues.
type Kind int

const (
	// Config covers missing or malformed required configuration fields.
	Config Kind = iota
	// Domain covers e.g. a non-discrete Hilbert space paired with a
	// sampler that requires discreteness, an infeasible magnetization
	// constraint, or a non-(half-)integer spin.
	Domain
	// Numeric covers QR rank deficiency beyond threshold, CG
	// non-convergence, and NaN/Inf showing up in a log-amplitude or
	// gradient.
	Numeric
	// Protocol covers mismatched collective participation or
	// inconsistent parameter sizes across workers.
	Protocol
	// IO covers failure to open input or write output.
	IO
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "ConfigError"
	case Domain:
		return "DomainError"
	case Numeric:
		return "NumericError"
	case Protocol:
		return "ProtocolError"
	case IO:
		return "IOError"
	default:
		return "UnknownError"
	}
}

// Fatal reports whether errors of this kind must abort the run. Only
// Numeric errors are surfaced-and-continued; every other kind is fatal.
func (k Kind) Fatal() bool {
	return k != Numeric
}

// Error is a classified error carrying a Kind alongside the wrapped
// cause, so callers can branch with errors.Is/errors.As while still
// reporting a useful message.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "hilbert.Random"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind, so
// errors.Is(err, &vmcerr.Error{Kind: vmcerr.Numeric}) matches any Numeric
// error in err's chain; direct Kind comparison is also available through
// KindOf.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New builds a classified error.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Newf builds a classified error from a format string.
func Newf(kind Kind, op string, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the Kind of err if it (or something it wraps) is a
// *Error, and ok=false otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// IsFatal reports whether err should abort the run: classified errors
// defer to their Kind, unclassified errors are treated as fatal by
// default (conservative: an unexpected error shape should not be
// silently swallowed by the Numeric degenerate-iteration path).
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if k, ok := KindOf(err); ok {
		return k.Fatal()
	}
	return true
}

// Sentinel errors for conditions named explicitly in the spec, so call
// sites can use errors.Is against a stable value in addition to Kind
// dispatch.
var (
	// ErrConstraintInfeasible is returned by Hilbert.Random when the
	// requested total-magnetization constraint cannot be met with
	// integer up/down-spin counts.
	ErrConstraintInfeasible = errors.New("constraint infeasible: cannot satisfy requested total magnetization")
	// ErrNonHermitian is returned by an Operator when asked to act on a
	// configuration outside its Hilbert space's canonical alphabet.
	ErrNonHermitian = errors.New("configuration is not in the canonical alphabet")
	// ErrNotDiscrete is returned when a sampler requiring a discrete
	// Hilbert space is attached to a continuous one.
	ErrNotDiscrete = errors.New("hilbert space is not discrete")
	// ErrRankDeficient is returned by the direct SR solver when the QR
	// decomposition of the geometric tensor is rank-deficient beyond
	// the configured threshold.
	ErrRankDeficient = errors.New("geometric tensor is rank-deficient beyond threshold")
	// ErrCGNonConvergence is returned by the iterative SR solver when
	// conjugate gradient fails to converge within the iteration budget.
	ErrCGNonConvergence = errors.New("conjugate gradient did not converge")
	// ErrInvalidLogRatio is returned by the sampler in debug mode when a
	// lookup-accelerated log-amplitude or an accepted move's log-ratio
	// disagrees with a full recompute. A NaN log-ratio does not produce
	// it: such a move is simply rejected.
	ErrInvalidLogRatio = errors.New("ansatz log-amplitude is inconsistent with a full recompute")
	// ErrCollectiveMismatch is returned by a Communicator when workers
	// do not reach a collective operation in the same order.
	ErrCollectiveMismatch = errors.New("workers did not reach the collective operation in the same order")
	// ErrParameterSizeMismatch is returned when broadcast parameters
	// disagree in length across workers.
	ErrParameterSizeMismatch = errors.New("parameter vector size mismatch across workers")
)
