package core

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is to check.
var (
	// ErrInvalidReference means the user input is not a pen URL or slug.
	// Not retryable; the input must be corrected.
	ErrInvalidReference = errors.New("invalid pen reference")
	// ErrUpstream means CodePen answered with a non-2xx status, an
	// unreadable body or an explicit failure flag. The caller may retry.
	ErrUpstream = errors.New("upstream request failed")
	// ErrExtraction means the pen page no longer has the expected shape.
	// Retrying will not help.
	ErrExtraction = errors.New("pen extraction failed")
)

// Error is a classified failure. Its message is the user-facing text;
// Kind is one of the sentinels above and Err the optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

// Unwrap exposes both the kind and the cause to errors.Is/errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// InvalidReference builds an ErrInvalidReference error with a formatted message.
func InvalidReference(format string, args ...any) error {
	return &Error{Kind: ErrInvalidReference, Msg: fmt.Sprintf(format, args...)}
}

// Upstream builds an ErrUpstream error wrapping cause (which may be nil).
func Upstream(cause error, format string, args ...any) error {
	return &Error{Kind: ErrUpstream, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// Extraction builds an ErrExtraction error wrapping cause (which may be nil).
func Extraction(cause error, format string, args ...any) error {
	return &Error{Kind: ErrExtraction, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// KindOf returns a short name for the kind of err, for logs and traces.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, ErrUpstream):
		return "upstream"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	default:
		return "internal"
	}
}
