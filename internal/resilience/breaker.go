// Package resilience wraps outbound calls with a circuit breaker and bounded
// exponential-backoff retry. Breaker state lives in process memory only: each
// runtime instance has its own view, so protection is best effort across a
// fleet of instances.
package resilience

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the breaker rejects a call without invoking the
// wrapped function.
var ErrOpen = errors.New("resilience: circuit breaker is open")

// State is the breaker's position in its lifecycle.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

const (
	defaultFailureThreshold = 3
	defaultCooldown         = 60 * time.Second
)

// Breaker stops calling a failing dependency after repeated failures and
// periodically lets a trial call through to probe recovery. Construct one per
// process and pass it by handle; it is safe for concurrent use.
type Breaker struct {
	mu               sync.Mutex
	failureThreshold int
	cooldown         time.Duration
	failureCount     int
	lastFailure      time.Time
	state            State
	now              func() time.Time
}

// BreakerOption configures a Breaker.
type BreakerOption func(*Breaker)

// WithFailureThreshold sets how many failures trip the breaker open.
func WithFailureThreshold(n int) BreakerOption {
	return func(b *Breaker) {
		if n > 0 {
			b.failureThreshold = n
		}
	}
}

// WithCooldown sets how long the breaker stays open before allowing a trial call.
func WithCooldown(d time.Duration) BreakerOption {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// NewBreaker creates a closed breaker with the default threshold of 3 failures
// and a 60-second cooldown.
func NewBreaker(opts ...BreakerOption) *Breaker {
	b := &Breaker{
		failureThreshold: defaultFailureThreshold,
		cooldown:         defaultCooldown,
		state:            StateClosed,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Execute runs fn under the breaker. When open and the cooldown has not
// elapsed, it returns ErrOpen without invoking fn. A HALF_OPEN trial that
// succeeds closes the breaker and resets the failure count; a failure re-opens
// it and re-arms the cooldown.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	b.mu.Lock()
	if b.state == StateOpen {
		if b.now().Sub(b.lastFailure) > b.cooldown {
			b.state = StateHalfOpen
		} else {
			b.mu.Unlock()
			return ErrOpen
		}
	}
	b.mu.Unlock()

	err := fn(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failureCount++
		b.lastFailure = b.now()
		if b.failureCount >= b.failureThreshold {
			b.state = StateOpen
		}
		return err
	}

	if b.state == StateHalfOpen {
		b.state = StateClosed
		b.failureCount = 0
	}
	return nil
}

// State reports the current breaker state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// FailureCount reports accumulated failures since the last reset.
func (b *Breaker) FailureCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failureCount
}
