// Package poll runs a status check at a fixed interval until it reports a
// terminal state, a deadline passes, or an attempt budget runs out.
package poll

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/saivivek-01/VISION/internal/types"
)

type Options struct {
	Interval    time.Duration
	MaxAttempts int
	Timeout     time.Duration
}

const (
	defaultInterval    = 1500 * time.Millisecond
	defaultMaxAttempts = 120
	defaultTimeout     = 5 * time.Minute
)

func (o Options) withDefaults() Options {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return o
}

// Until calls check until it returns done=true or an error. The first check
// runs immediately; later checks are paced at opts.Interval. Running out of
// attempts or time yields an error wrapping types.ErrProviderTimeout.
func Until(ctx context.Context, opts Options, check func(ctx context.Context) (bool, error)) error {
	opts = opts.withDefaults()

	pollCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(opts.Interval), 1)
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := limiter.Wait(pollCtx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: no terminal state within %s", types.ErrProviderTimeout, opts.Timeout)
		}
		done, err := check(pollCtx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if pollCtx.Err() != nil {
				return fmt.Errorf("%w: no terminal state within %s", types.ErrProviderTimeout, opts.Timeout)
			}
			return err
		}
		if done {
			return nil
		}
	}
	return fmt.Errorf("%w: no terminal state after %d attempts", types.ErrProviderTimeout, opts.MaxAttempts)
}
