package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Permanent marks err so Retry gives up immediately and returns err unwrapped.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return backoff.Permanent(err)
}

// Retry runs op until it succeeds, returns a Permanent error, the retry budget
// is spent or ctx is done. notify, when set, sees every failed attempt that
// will be retried.
func Retry[T any](ctx context.Context, cfg RetryConfig, op func() (T, error), notify func(error, time.Duration)) (T, error) {
	cfg = NormalizeRetryConfig(cfg)

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = cfg.Wait
	policy.MaxInterval = cfg.MaxWait
	policy.Multiplier = 2
	policy.RandomizationFactor = 0.1

	opts := []backoff.RetryOption{
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(uint(cfg.MaxRetries + 1)),
		backoff.WithMaxElapsedTime(cfg.MaxElapsed),
	}
	if notify != nil {
		opts = append(opts, backoff.WithNotify(notify))
	}

	return backoff.Retry(ctx, backoff.Operation[T](op), opts...)
}
