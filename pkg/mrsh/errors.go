// pkg/mrsh/errors.go
package mrsh

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an Error
type Kind string

const (
	// KindIO means the input source could not be read
	KindIO Kind = "io"

	// KindInvalidLabel means a label cannot be stored in a digest
	KindInvalidLabel Kind = "invalid_label"

	// KindMalformedDigest means encoded text failed to decode
	KindMalformedDigest Kind = "malformed_digest"

	// KindProgramming means the API was misused
	KindProgramming Kind = "programming"
)

// Sentinels for errors.Is; they match any Error of the same Kind.
var (
	ErrIO              = &Error{Kind: KindIO}
	ErrInvalidLabel    = &Error{Kind: KindInvalidLabel}
	ErrMalformedDigest = &Error{Kind: KindMalformedDigest}
	ErrProgramming     = &Error{Kind: KindProgramming}
)

var (
	// ErrUnknownProfile is returned when Options name a profile that is not registered
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrInvalidWorkers is returned for a negative worker count
	ErrInvalidWorkers = errors.New("workers must not be negative")
)

// Error is returned by every fallible operation of the package
type Error struct {
	Kind  Kind
	Op    string // build, decode, compare, ...
	Label string // label of the input involved, if any
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("mrsh: ")
	if e.Op != "" {
		sb.WriteString(e.Op)
		sb.WriteString(": ")
	}
	if e.Label != "" {
		fmt.Fprintf(&sb, "%q: ", e.Label)
	}
	sb.WriteString(string(e.Kind))
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the Kind of the first Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func newError(kind Kind, op, label string, err error) *Error {
	return &Error{Kind: kind, Op: op, Label: label, Err: err}
}

// BatchFailure records one input that AddAll skipped
type BatchFailure struct {
	Index int
	Label string
	Err   error
}

// BatchError lists the inputs of a batch that failed; the others were added.
type BatchError struct {
	Failures []BatchFailure
}

func (e *BatchError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("mrsh: 1 input failed: %v", e.Failures[0].Err)
	}
	return fmt.Sprintf("mrsh: %d inputs failed, first: %v", len(e.Failures), e.Failures[0].Err)
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
