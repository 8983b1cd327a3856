package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lingofyra/transcache"
	"github.com/lingofyra/transcache/cache"
	"github.com/lingofyra/transcache/config"
	"github.com/lingofyra/transcache/provider"
)

// buildProvider returns the configured provider wrapped as
// Retry(Breaker(RateLimit(base))). Disabled layers are left out.
func buildProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (transcache.Provider, error) {
	var p transcache.Provider

	switch cfg.Provider {
	case "google":
		p = provider.NewGoogleProvider(provider.GoogleConfig{BaseURL: cfg.Google.BaseURL})
	case "openai":
		p = provider.NewOpenAIProvider(provider.OpenAIConfig{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
	case "gemini":
		gp, err := provider.NewGeminiProvider(ctx, provider.GeminiConfig{
			APIKey: cfg.Gemini.APIKey,
			Model:  cfg.Gemini.Model,
		})
		if err != nil {
			return nil, err
		}
		p = gp
	case "mock":
		p = provider.NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}

	if cfg.RateLimit.RequestsPerMinute > 0 {
		p = transcache.NewRateLimitedProvider(p, cfg.RateLimitConfig())
	}
	if cfg.Breaker.Enabled {
		p = transcache.NewBreakerProvider(p, cfg.BreakerConfig(), logger)
	}
	if cfg.Retry.MaxRetries > 0 {
		p = transcache.NewRetryableProvider(p, cfg.RetryConfig())
	}
	return p, nil
}

// buildCache returns the shared Redis cache when configured, otherwise a
// process-local one.
func buildCache(cfg *config.Config, logger *slog.Logger) (cache.Cache, func(), error) {
	if cfg.Redis.URL == "" {
		return cache.NewMemory(), func() {}, nil
	}

	rc, err := cache.NewRedisCache(cache.RedisConfig{
		URL:       cfg.Redis.URL,
		KeyPrefix: cfg.Redis.KeyPrefix,
		TTL:       cfg.Redis.TTL,
		Logger:    logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return rc, func() { rc.Close() }, nil
}
