package transcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// acquire waits at most 10ms for a token. The limiter refuses at once when
// the next token is further away than the deadline.
func acquire(limiter *RateLimiter) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	return limiter.Wait(ctx) == nil
}

func TestRateLimiter_Burst(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60, // 1 per second
		BurstSize:         3,
	})

	for i := 0; i < 3; i++ {
		if !acquire(limiter) {
			t.Errorf("Expected to acquire token %d", i)
		}
	}

	if acquire(limiter) {
		t.Error("Expected fourth acquire to fail")
	}
}

func TestRateLimiter_Refill(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 600, // 10 per second
		BurstSize:         1,
	})

	acquire(limiter)

	// 100ms per token at 10/sec
	time.Sleep(150 * time.Millisecond)

	if !acquire(limiter) {
		t.Error("Expected acquire to succeed after refill")
	}
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 600,
		BurstSize:         1,
	})

	acquire(limiter)

	start := time.Now()
	if err := limiter.Wait(context.Background()); err != nil {
		t.Errorf("Wait failed: %v", err)
	}

	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("Wait returned too quickly: %v", elapsed)
	}
}

func TestRateLimiter_WaitCancelled(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	acquire(limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := limiter.Wait(ctx); err == nil {
		t.Error("Expected error when context cancelled")
	}
}

func TestRateLimiter_Defaults(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{})

	// 60 rpm with a burst equal to the rate.
	for i := 0; i < 60; i++ {
		if !acquire(limiter) {
			t.Fatalf("Expected default burst of 60, failed at %d", i)
		}
	}
	if acquire(limiter) {
		t.Error("Expected acquire to fail after default burst")
	}
}

func TestRateLimiter_Concurrent(t *testing.T) {
	limiter := NewRateLimiter(RateLimitConfig{
		RequestsPerMinute: 60,
		BurstSize:         10,
	})

	var wg sync.WaitGroup
	var acquired atomic.Int64

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if acquire(limiter) {
				acquired.Add(1)
			}
		}()
	}

	wg.Wait()

	if acquired.Load() != 10 {
		t.Errorf("Expected 10 acquired, got %d", acquired.Load())
	}
}

func TestRateLimitedProvider(t *testing.T) {
	inner := ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		return "translated", nil
	})

	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 600,
		BurstSize:         2,
	})

	ctx := context.Background()

	for _, text := range []string{"a", "b"} {
		if _, err := provider.Translate(ctx, Request{Text: text}); err != nil {
			t.Errorf("translate %q failed: %v", text, err)
		}
	}

	start := time.Now()
	_, err := provider.Translate(ctx, Request{Text: "c"})
	elapsed := time.Since(start)

	if err != nil {
		t.Errorf("Third translate failed: %v", err)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("Expected rate limit wait, but returned in %v", elapsed)
	}
}

func TestRateLimitedProvider_ContextCancelled(t *testing.T) {
	inner := ProviderFunc(func(ctx context.Context, req Request) (string, error) {
		return "translated", nil
	})

	provider := NewRateLimitedProvider(inner, RateLimitConfig{
		RequestsPerMinute: 1,
		BurstSize:         1,
	})

	provider.Translate(context.Background(), Request{Text: "a"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := provider.Translate(ctx, Request{Text: "b"})

	var providerErr *ProviderError
	if !errors.As(err, &providerErr) {
		t.Fatalf("Expected *ProviderError, got %T (%v)", err, err)
	}
	if providerErr.Retryable {
		t.Error("cancelled wait should not be retryable")
	}
}
