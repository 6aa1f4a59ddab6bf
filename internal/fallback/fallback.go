// Package fallback tries an ordered list of providers until one succeeds.
package fallback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Named is anything that can take part in a chain.
type Named interface {
	Name() string
}

type Failure struct {
	Provider string
	Err      error
}

// ExhaustedError is returned when every provider in a chain failed.
type ExhaustedError struct {
	Failures []Failure
}

func (e *ExhaustedError) Error() string {
	if len(e.Failures) == 0 {
		return "fallback: no providers configured"
	}
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Provider, f.Err))
	}
	return "fallback: all providers failed: " + strings.Join(parts, "; ")
}

func (e *ExhaustedError) Unwrap() []error {
	out := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		out = append(out, f.Err)
	}
	return out
}

// Chain calls providers in order and returns the first successful result.
// A cancelled context stops the chain immediately and returns the context error.
func Chain[P Named, T any](
	ctx context.Context,
	log zerolog.Logger,
	providers []P,
	call func(ctx context.Context, p P) (T, error),
) (T, error) {
	var zero T
	exhausted := &ExhaustedError{}
	for _, p := range providers {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := call(ctx, p)
		if err == nil {
			return v, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return zero, err
		}
		log.Warn().Err(err).Str("provider", p.Name()).Msg("provider failed")
		exhausted.Failures = append(exhausted.Failures, Failure{Provider: p.Name(), Err: err})
	}
	return zero, exhausted
}

func IsExhausted(err error) bool {
	var ex *ExhaustedError
	return errors.As(err, &ex)
}
