package scrape

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies why a scrape attempt failed. It is used for logs and
// metrics only; every kind ends up as the same single error line.
type Kind string

const (
	// KindTimeout means the results table did not appear within the wait bound.
	KindTimeout Kind = "timeout"

	// KindTransport means navigation, the network, or the browser itself failed.
	KindTransport Kind = "transport"

	// KindParse means the page loaded but the expected structure was absent.
	KindParse Kind = "parse"
)

// Error is a classified scrape failure.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the failure kind of err. Unclassified deadline errors count
// as timeouts; anything else unclassified counts as transport.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindTransport
}

// classify wraps err with context and picks timeout or fallback as its kind.
func classify(err error, fallback Kind, format string, args ...any) *Error {
	kind := fallback
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{
		Kind: kind,
		Err:  fmt.Errorf(format+": %w", append(args, err)...),
	}
}
