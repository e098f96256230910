// Package requestopts holds per-request transport settings: a timeout
// handed to the genai client and a retry policy applied around the call.
package requestopts

import (
	"context"
	"errors"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// Options configures a single model request. The zero value means no
// timeout and no retries.
type Options struct {
	Retry   *Retry
	Timeout time.Duration
}

// HTTPOptions returns the genai transport options for o, or nil when o sets
// nothing the transport understands.
func (o Options) HTTPOptions() *genai.HTTPOptions {
	if o.Timeout <= 0 {
		return nil
	}
	return &genai.HTTPOptions{Timeout: genai.Ptr(o.Timeout)}
}

// Do runs fn under o's retry policy.
func (o Options) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if o.Retry == nil {
		return fn(ctx)
	}
	return o.Retry.Do(ctx, fn)
}

// Retry is an exponential backoff policy for transient API errors.
type Retry struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Multiplier     float64
}

// DefaultRetry retries up to three times starting at one second.
func DefaultRetry() *Retry {
	return &Retry{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2,
	}
}

// Do calls fn until it succeeds, returns a non-retryable error, the
// attempts run out, or ctx is done.
func (r *Retry) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := max(r.MaxAttempts, 1)
	backoff := r.InitialBackoff
	multiplier := r.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(ctx)
		if err == nil || !Retryable(err) || attempt >= attempts {
			return err
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(err, ctx.Err())
		case <-timer.C:
		}

		backoff = time.Duration(float64(backoff) * multiplier)
		if r.MaxBackoff > 0 && backoff > r.MaxBackoff {
			backoff = r.MaxBackoff
		}
	}
}

// Retryable reports whether err is a transient genai API error.
func Retryable(err error) bool {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Code {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return apiErr.Code >= http.StatusInternalServerError
}
