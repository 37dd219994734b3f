// Package dataerr defines the structured error type shared by the parsers,
// the row accessors, and the pipeline.
//
// Every failure surfaced by the core carries a Kind, a human-readable
// message, optional positional context (1-based line number for line-oriented
// input, character offset for document-oriented JSON), and an optional
// wrapped cause. Callers branch on Kind (or use errors.Is with a sentinel
// kind check via IsKind) instead of string matching.
package dataerr

import (
	"fmt"
	"strings"
)

// Kind classifies an Error.
type Kind string

const (
	// KindInput marks invalid arguments (nil reader, empty path/content),
	// detected before any I/O.
	KindInput Kind = "input"

	// KindFormat marks malformed delimited text or JSON.
	KindFormat Kind = "format"

	// KindCoercion marks a typed row accessor that could not convert a
	// present value to the requested type.
	KindCoercion Kind = "coercion"

	// KindState marks a terminal operation invoked on an already-consumed
	// stream source. Fatal for that instance.
	KindState Kind = "state"

	// KindWrite marks a serialization failure.
	KindWrite Kind = "write"

	// KindMapping marks a row/struct binding failure.
	KindMapping Kind = "mapping"
)

// Error is the single error type used across the parse/transform boundary.
type Error struct {
	Kind Kind
	Msg  string

	// Line is the 1-based line number, or 0 when not applicable.
	Line int

	// Offset is the character offset into the document, or -1 when not
	// applicable.
	Offset int

	cause error
}

// New constructs an Error of the given kind with no positional context.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: -1}
}

// Input reports an invalid-argument error.
func Input(format string, args ...any) *Error { return New(KindInput, format, args...) }

// Format reports a malformed-input error without positional context.
func Format(format string, args ...any) *Error { return New(KindFormat, format, args...) }

// FormatAtLine reports a malformed-input error at a 1-based line number.
func FormatAtLine(line int, format string, args ...any) *Error {
	e := New(KindFormat, format, args...)
	e.Line = line
	return e
}

// FormatAtOffset reports a malformed-input error at a character offset.
func FormatAtOffset(offset int, format string, args ...any) *Error {
	e := New(KindFormat, format, args...)
	e.Offset = offset
	return e
}

// Coercion reports a failed typed accessor conversion.
func Coercion(format string, args ...any) *Error { return New(KindCoercion, format, args...) }

// State reports a reuse of a consumed stream source.
func State(format string, args ...any) *Error { return New(KindState, format, args...) }

// Write reports a serialization failure.
func Write(format string, args ...any) *Error { return New(KindWrite, format, args...) }

// Mapping reports a row/struct binding failure.
func Mapping(format string, args ...any) *Error { return New(KindMapping, format, args...) }

// WithCause attaches a lower-level cause, reachable through errors.Unwrap.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Msg)
	if e.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", e.Line)
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// IsKind reports whether err is (or wraps) an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		if de, ok := err.(*Error); ok {
			return de.Kind == kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
