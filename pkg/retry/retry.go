package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Policy bounds a retried operation
type Policy struct {
	MaxAttempts int           // total attempts, including the first one
	BaseDelay   time.Duration // wait after the first failure, doubled after each further failure
	MaxDelay    time.Duration // cap on a single wait, 0 means 60s
}

// DefaultPolicy is 3 attempts waiting 1s then 2s
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, BaseDelay: time.Second}
}

// Retrier runs an operation until it succeeds or the policy is exhausted
type Retrier struct {
	policy Policy
	timer  backoff.Timer
	logger *zap.Logger
}

// New creates a Retrier. Invalid policy values fall back to DefaultPolicy's.
func New(policy Policy, logger *zap.Logger) *Retrier {
	def := DefaultPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.BaseDelay <= 0 {
		policy.BaseDelay = def.BaseDelay
	}
	if policy.MaxDelay <= 0 {
		policy.MaxDelay = 60 * time.Second
	}
	return &Retrier{policy: policy, logger: logger}
}

// WithTimer replaces the wall-clock timer used between attempts
func (r *Retrier) WithTimer(t backoff.Timer) *Retrier {
	cp := *r
	cp.timer = t
	return &cp
}

// Policy returns the effective policy
func (r *Retrier) Policy() Policy {
	return r.policy
}

// Do calls fn until it returns nil, the attempts are exhausted or ctx is done.
// fn receives the 0-based attempt number. The last error is returned.
func (r *Retrier) Do(ctx context.Context, name string, fn func(ctx context.Context, attempt int) error) error {
	attempt := 0
	operation := func() error {
		defer func() { attempt++ }()
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if r.logger != nil {
			r.logger.Debug("retry.attempt",
				zap.String("operation", name),
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", r.policy.MaxAttempts),
			)
		}
		return fn(ctx, attempt)
	}

	notify := func(err error, wait time.Duration) {
		if r.logger != nil {
			r.logger.Warn("retry.attempt_failed",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Duration("next_wait", wait),
				zap.Error(err),
			)
		}
	}

	err := backoff.RetryNotifyWithTimer(operation, r.backOff(ctx), notify, r.timer)
	if err == nil {
		return nil
	}
	if r.logger != nil {
		r.logger.Error("retry.exhausted",
			zap.String("operation", name),
			zap.Int("attempts", attempt),
			zap.Error(err),
		)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
}

func (r *Retrier) backOff(ctx context.Context) backoff.BackOff {
	if r.policy.MaxAttempts == 1 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.BaseDelay
	exp.Multiplier = 2
	exp.RandomizationFactor = 0
	exp.MaxInterval = r.policy.MaxDelay
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, uint64(r.policy.MaxAttempts-1)), ctx)
}

// CalculateBackoff returns the wait after the given 0-based failed attempt: 2^attempt * base, capped at max
func CalculateBackoff(attempt int, base, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	wait := time.Duration(1<<uint(attempt)) * base
	if max > 0 && wait > max {
		wait = max
	}
	return wait
}
