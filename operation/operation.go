// Package operation defines the unit of work a meter measures and the tagged
// outcome of running it.
package operation

import (
	"context"

	"github.com/Dlordkendex/gas2nel/pkg/instrument"
)

// Operation is one measurable unit of work. It performs its network and file
// I/O through the provided instrumentation context so the bytes it moves are
// attributed to the invocation measuring it.
type Operation func(ctx context.Context, ins *instrument.Instruments) (any, error)

// Outcome is the tagged result of running an operation: either a success
// value or a failure message, never both.
type Outcome struct {
	OK    bool
	Value any
	Err   string
}

// Success returns an outcome carrying the operation's return value.
func Success(v any) Outcome {
	return Outcome{OK: true, Value: v}
}

// Failure returns an outcome carrying the failure reason.
func Failure(msg string) Outcome {
	return Outcome{Err: msg}
}

// FromFunc adapts a plain function that needs no instrumentation into an
// Operation.
func FromFunc(fn func(ctx context.Context) (any, error)) Operation {
	return func(ctx context.Context, _ *instrument.Instruments) (any, error) {
		return fn(ctx)
	}
}
