// Package circuitbreaker configures the breakers that guard calls to remote
// services (the recognition backend, image storage). The state machine is
// github.com/sony/gobreaker; this package adds context-aware execution and
// the service presets.
package circuitbreaker

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// State is the breaker state: closed, half-open or open.
type State = gobreaker.State

const (
	StateClosed   = gobreaker.StateClosed
	StateHalfOpen = gobreaker.StateHalfOpen
	StateOpen     = gobreaker.StateOpen
)

var (
	// ErrCircuitOpen is returned while the breaker rejects calls.
	ErrCircuitOpen = gobreaker.ErrOpenState
	// ErrTooManyRequests is returned when the half-open request quota is used up.
	ErrTooManyRequests = gobreaker.ErrTooManyRequests
)

// Settings describes a breaker.
type Settings struct {
	Name string

	// FailureThreshold consecutive failures open the circuit.
	FailureThreshold uint32

	// HalfOpenRequests trial calls are let through after OpenTimeout; that many
	// consecutive successes close the circuit again.
	HalfOpenRequests uint32

	// OpenTimeout is how long the circuit stays open.
	OpenTimeout time.Duration

	// OnStateChange is called on every transition. Optional.
	OnStateChange func(name string, from, to State)

	// IsFailure reports whether err counts against the service.
	// nil counts every non-nil error.
	IsFailure func(err error) bool
}

// CircuitBreaker wraps a gobreaker.CircuitBreaker with a context-aware API.
type CircuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker from s.
func New(s Settings) *CircuitBreaker {
	threshold := s.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	isFailure := s.IsFailure
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.HalfOpenRequests,
		Timeout:     s.OpenTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= threshold
		},
		OnStateChange: s.OnStateChange,
		IsSuccessful: func(err error) bool {
			return err == nil || !isFailure(err)
		},
	})}
}

// Execute runs fn unless the circuit is open. A context that is already
// done is reported without touching the breaker.
func (b *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn(ctx)
	})
	return err
}

// State returns the current state.
func (b *CircuitBreaker) State() State {
	return b.cb.State()
}

// Name returns the breaker name.
func (b *CircuitBreaker) Name() string {
	return b.cb.Name()
}

// IsRejected reports whether err came from the breaker itself.
func IsRejected(err error) bool {
	return errors.Is(err, ErrCircuitOpen) || errors.Is(err, ErrTooManyRequests)
}

// ──────────────────────────────────────────────────────────────────────────────
// Presets
// ──────────────────────────────────────────────────────────────────────────────

// ignoreCancellation does not count a caller giving up as a service failure.
func ignoreCancellation(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// RecognizerBreaker guards the remote recognition service. Learners wait on it
// interactively, so it opens quickly and retries after a short pause.
func RecognizerBreaker(onStateChange func(name string, from, to State)) *CircuitBreaker {
	return New(Settings{
		Name:             "recognizer",
		FailureThreshold: 3,
		HalfOpenRequests: 1,
		OpenTimeout:      20 * time.Second,
		OnStateChange:    onStateChange,
		IsFailure:        ignoreCancellation,
	})
}

// StorageBreaker guards avatar uploads.
func StorageBreaker(onStateChange func(name string, from, to State)) *CircuitBreaker {
	return New(Settings{
		Name:             "image-storage",
		FailureThreshold: 5,
		HalfOpenRequests: 2,
		OpenTimeout:      30 * time.Second,
		OnStateChange:    onStateChange,
		IsFailure:        ignoreCancellation,
	})
}
