package resilience

import (
	"context"
	"math/rand"
	"time"

	"github.com/wolfman30/synapse-leads/pkg/logging"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = time.Second
	maxJitter          = time.Second
)

// Classifier reports whether an error is transient and worth retrying.
type Classifier func(error) bool

// Retrier retries a call on transient errors with exponential backoff and
// jitter: wait = base * 2^attempt + uniform(0, 1s). Non-transient errors fail
// immediately; exhausted retries surface the last error.
type Retrier struct {
	maxAttempts int
	baseDelay   time.Duration
	retryable   Classifier
	logger      *logging.Logger

	// Overridable for tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// RetryOption configures a Retrier.
type RetryOption func(*Retrier)

// WithMaxAttempts sets the total attempt budget, including the first call.
func WithMaxAttempts(n int) RetryOption {
	return func(r *Retrier) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the backoff base delay.
func WithBaseDelay(d time.Duration) RetryOption {
	return func(r *Retrier) {
		if d > 0 {
			r.baseDelay = d
		}
	}
}

// NewRetrier creates a Retrier. retryable decides which errors are transient;
// a nil classifier retries nothing.
func NewRetrier(retryable Classifier, logger *logging.Logger, opts ...RetryOption) *Retrier {
	if logger == nil {
		logger = logging.Default()
	}
	if retryable == nil {
		retryable = func(error) bool { return false }
	}
	r := &Retrier{
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		retryable:   retryable,
		logger:      logger,
		sleep:       sleepCtx,
		jitter: func() time.Duration {
			return time.Duration(rand.Int63n(int64(maxJitter)))
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Do runs fn until it succeeds, fails non-transiently, or the attempt budget
// is exhausted.
func (r *Retrier) Do(ctx context.Context, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !r.retryable(err) {
			return err
		}
		lastErr = err
		if attempt == r.maxAttempts-1 {
			break
		}

		wait := r.baseDelay*(1<<attempt) + r.jitter()
		r.logger.Warn("transient failure, retrying",
			"attempt", attempt+1,
			"max_attempts", r.maxAttempts,
			"wait", wait.String(),
			"error", err,
		)
		if sleepErr := r.sleep(ctx, wait); sleepErr != nil {
			return sleepErr
		}
	}
	return lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
