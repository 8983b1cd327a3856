package transcache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	Name                string        // Breaker name, used in logs
	ConsecutiveFailures uint32        // Failures in a row that open the breaker (default: 5)
	OpenTimeout         time.Duration // How long the breaker stays open (default: 30s)
	HalfOpenRequests    uint32        // Probe requests allowed while half-open (default: 1)
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:                "translation-provider",
		ConsecutiveFailures: 5,
		OpenTimeout:         30 * time.Second,
		HalfOpenRequests:    1,
	}
}

// BreakerProvider wraps a Provider with a circuit breaker. While the breaker
// is open, calls fail immediately with a non-retryable ProviderError, so a
// dead upstream turns into instant fallbacks instead of a stalled batch.
type BreakerProvider struct {
	provider Provider
	cb       *gobreaker.CircuitBreaker
}

// NewBreakerProvider creates a provider guarded by a circuit breaker.
func NewBreakerProvider(provider Provider, cfg BreakerConfig, logger *slog.Logger) *BreakerProvider {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.ConsecutiveFailures == 0 {
		cfg.ConsecutiveFailures = def.ConsecutiveFailures
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	if cfg.HalfOpenRequests == 0 {
		cfg.HalfOpenRequests = def.HalfOpenRequests
	}
	if logger == nil {
		logger = slog.Default()
	}

	threshold := cfg.ConsecutiveFailures
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.HalfOpenRequests,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BreakerProvider{
		provider: provider,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// Translate implements Provider behind the circuit breaker.
func (p *BreakerProvider) Translate(ctx context.Context, req Request) (string, error) {
	result, err := p.cb.Execute(func() (interface{}, error) {
		text, err := p.provider.Translate(ctx, req)
		return text, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", &ProviderError{
				Message:   "circuit breaker rejected request",
				Cause:     err,
				Retryable: false,
			}
		}
		return "", err
	}
	return result.(string), nil
}

// State returns the breaker state ("closed", "half-open" or "open").
func (p *BreakerProvider) State() string {
	return p.cb.State().String()
}

// Verify BreakerProvider implements Provider
var _ Provider = (*BreakerProvider)(nil)
