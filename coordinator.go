package transcache

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/lingofyra/transcache/cache"
)

const instrumentationName = "github.com/lingofyra/transcache"

// DefaultTimeout bounds a single provider call.
const DefaultTimeout = 5 * time.Second

// Coordinator resolves texts to translations through a shared cache.
//
// A Coordinator is safe for concurrent use. It owns its cache writes and its
// in-flight table; callers only ever receive plain strings.
type Coordinator struct {
	provider   Provider
	cache      cache.Cache
	inflight   singleflight.Group
	timeout    time.Duration
	batchLimit int
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter

	resolutions metric.Int64Counter
	stats       counters
}

// Stats holds resolution counters since the Coordinator was created.
type Stats struct {
	Passthrough int64 // source == target or empty text
	Hits        int64 // answered from the cache
	Fetches     int64 // provider calls made
	Shared      int64 // callers that joined another caller's in-flight fetch
	Fallbacks   int64 // callers that got the original text back after a failure
}

type counters struct {
	passthrough atomic.Int64
	hits        atomic.Int64
	fetches     atomic.Int64
	shared      atomic.Int64
	fallbacks   atomic.Int64
}

// Option is a functional option for configuring the Coordinator.
type Option func(*Coordinator)

// WithCache sets the translation cache. The default is a fresh cache.Memory.
func WithCache(c cache.Cache) Option {
	return func(co *Coordinator) {
		co.cache = c
	}
}

// WithTimeout bounds each provider call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(co *Coordinator) {
		co.timeout = d
	}
}

// WithBatchLimit caps the number of concurrent resolutions in ResolveAll.
// Zero means every item is resolved concurrently.
func WithBatchLimit(n int) Option {
	return func(co *Coordinator) {
		co.batchLimit = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(co *Coordinator) {
		co.logger = logger
	}
}

// WithTracer sets the OpenTelemetry tracer used for provider fetch spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(co *Coordinator) {
		co.tracer = tracer
	}
}

// WithMeter sets the OpenTelemetry meter used for resolution counters.
func WithMeter(meter metric.Meter) Option {
	return func(co *Coordinator) {
		co.meter = meter
	}
}

// NewCoordinator creates a Coordinator that fetches misses from provider.
func NewCoordinator(provider Provider, opts ...Option) *Coordinator {
	c := &Coordinator{
		provider: provider,
		timeout:  DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		c.cache = cache.NewMemory()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(instrumentationName)
	}
	if c.meter == nil {
		c.meter = otel.GetMeterProvider().Meter(instrumentationName)
	}

	counter, err := c.meter.Int64Counter("transcache.resolutions",
		metric.WithDescription("Translation resolutions by outcome"),
	)
	if err != nil {
		c.logger.Warn("creating resolution counter", "error", err)
		counter = noop.Int64Counter{}
	}
	c.resolutions = counter

	return c
}

// Resolve returns the translation of text from sourceLang into targetLang.
//
// It never fails: when the translation cannot be obtained the original text
// is returned and nothing is cached, so a later call tries again. An empty or
// malformed language code is a programming error and panics with
// *InvalidKeyError.
//
// Resolve waits for the fetch it started or joined even if ctx is cancelled;
// ctx only carries values (trace parents, loggers) into the provider call.
func (c *Coordinator) Resolve(ctx context.Context, text, sourceLang, targetLang string) string {
	key, err := NewKey(text, sourceLang, targetLang)
	if err != nil {
		panic(err)
	}
	return c.resolve(ctx, key)
}

// Stats returns a snapshot of the resolution counters.
func (c *Coordinator) Stats() Stats {
	return Stats{
		Passthrough: c.stats.passthrough.Load(),
		Hits:        c.stats.hits.Load(),
		Fetches:     c.stats.fetches.Load(),
		Shared:      c.stats.shared.Load(),
		Fallbacks:   c.stats.fallbacks.Load(),
	}
}

type outcome string

const (
	outcomePassthrough outcome = "passthrough"
	outcomeHit         outcome = "hit"
	outcomeFetched     outcome = "fetched"
	outcomeShared      outcome = "shared"
	outcomeFallback    outcome = "fallback"
)

func isPassthrough(key Key) bool {
	return key.Text == "" || key.SourceLang == key.TargetLang
}

// resolve expects a key built by NewKey.
func (c *Coordinator) resolve(ctx context.Context, key Key) string {
	if isPassthrough(key) {
		c.record(ctx, key, outcomePassthrough)
		return key.Text
	}

	if cached, ok := c.cache.Get(key); ok {
		c.record(ctx, key, outcomeHit)
		return cached
	}

	// Only the leader runs the closure, so leader stays false for joiners.
	var leader, fromCache bool
	v, err, _ := c.inflight.Do(key.Encode(), func() (interface{}, error) {
		leader = true
		// A fetch for this key may have finished between our Get and Do.
		if cached, ok := c.cache.Get(key); ok {
			fromCache = true
			return cached, nil
		}
		return c.fetch(ctx, key)
	})

	switch {
	case err != nil:
		c.record(ctx, key, outcomeFallback)
		return key.Text
	case !leader:
		c.record(ctx, key, outcomeShared)
	case fromCache:
		c.record(ctx, key, outcomeHit)
	default:
		c.record(ctx, key, outcomeFetched)
	}
	return v.(string)
}

type fetchResult struct {
	text string
	err  error
}

// fetch calls the provider once and caches a successful result.
func (c *Coordinator) fetch(ctx context.Context, key Key) (string, error) {
	fetchCtx := context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(fetchCtx, c.timeout)
		defer cancel()
	}

	fetchCtx, span := c.tracer.Start(fetchCtx, "transcache.fetch",
		trace.WithAttributes(
			attribute.String("transcache.source_lang", key.SourceLang),
			attribute.String("transcache.target_lang", key.TargetLang),
			attribute.Int("transcache.text_length", len(key.Text)),
		),
	)
	defer span.End()

	c.stats.fetches.Add(1)
	start := time.Now()

	req := Request{Text: key.Text, SourceLang: key.SourceLang, TargetLang: key.TargetLang}
	done := make(chan fetchResult, 1)
	go func() {
		text, err := c.provider.Translate(fetchCtx, req)
		done <- fetchResult{text: text, err: err}
	}()

	var res fetchResult
	select {
	case res = <-done:
	case <-fetchCtx.Done():
		res.err = &ProviderError{
			Message:   "translation timed out",
			Cause:     fetchCtx.Err(),
			Retryable: true,
		}
	}

	if res.err == nil && strings.TrimSpace(res.text) == "" {
		res.err = &ProviderError{Message: "empty translation"}
	}

	if res.err != nil {
		span.RecordError(res.err)
		span.SetStatus(codes.Error, "translation failed")
		c.logger.WarnContext(ctx, "translation failed, using original text",
			"key", key.String(),
			"elapsed", time.Since(start),
			"error", res.err,
		)
		return "", res.err
	}

	if err := c.cache.Put(key, res.text); err != nil {
		c.logger.WarnContext(ctx, "cache write failed", "key", key.String(), "error", err)
	}

	c.logger.DebugContext(ctx, "translation fetched",
		"key", key.String(),
		"elapsed", time.Since(start),
	)
	return res.text, nil
}

func (c *Coordinator) record(ctx context.Context, key Key, o outcome) {
	switch o {
	case outcomePassthrough:
		c.stats.passthrough.Add(1)
	case outcomeHit:
		c.stats.hits.Add(1)
	case outcomeShared:
		c.stats.shared.Add(1)
	case outcomeFallback:
		c.stats.fallbacks.Add(1)
	}

	c.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", string(o)),
		attribute.String("target_lang", key.TargetLang),
	))
}
