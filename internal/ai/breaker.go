package ai

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/windoze95/recipefinder-api/internal/logger"
	"github.com/windoze95/recipefinder-api/internal/metrics"
	"go.uber.org/zap"
)

// BreakerSettings tunes the circuit breaker around a provider.
type BreakerSettings struct {
	// ConsecutiveFailures opens the circuit.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration
	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration
}

// DefaultBreakerSettings opens after 5 consecutive failures for 30 seconds.
var DefaultBreakerSettings = BreakerSettings{
	ConsecutiveFailures: 5,
	OpenTimeout:         30 * time.Second,
	Interval:            time.Minute,
}

// BreakerProvider fails fast while the wrapped provider keeps failing.
type BreakerProvider struct {
	next CompletionProvider
	cb   *gobreaker.CircuitBreaker[string]
}

// NewBreakerProvider wraps next with a circuit breaker.
func NewBreakerProvider(next CompletionProvider, settings BreakerSettings) *BreakerProvider {
	name := "llm-" + next.Name()
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    settings.Interval,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= settings.ConsecutiveFailures
		},
		// A caller that gave up says nothing about the provider's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
			logger.Get().Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &BreakerProvider{next: next, cb: cb}
}

// Name returns the wrapped provider's name.
func (p *BreakerProvider) Name() string {
	return p.next.Name()
}

// Complete calls the wrapped provider unless the circuit is open, in which
// case it returns gobreaker.ErrOpenState immediately.
func (p *BreakerProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return p.cb.Execute(func() (string, error) {
		return p.next.Complete(ctx, req)
	})
}

// State returns the current breaker state.
func (p *BreakerProvider) State() gobreaker.State {
	return p.cb.State()
}
