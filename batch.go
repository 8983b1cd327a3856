package transcache

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ResolveAll resolves every item concurrently and returns the results in
// input order. Each result follows the Resolve contract on its own: one
// failed item falls back to its original text without affecting the others.
//
// All language codes are validated before any fetch starts; an invalid one
// panics with *InvalidKeyError.
func (c *Coordinator) ResolveAll(ctx context.Context, items []Item) []string {
	keys := make([]Key, len(items))
	for i, item := range items {
		key, err := NewKey(item.Text, item.SourceLang, item.TargetLang)
		if err != nil {
			panic(err)
		}
		keys[i] = key
	}

	results := make([]string, len(items))

	var g errgroup.Group
	if c.batchLimit > 0 {
		g.SetLimit(c.batchLimit)
	}

	for i, key := range keys {
		// Answer pass-throughs and hits inline; only misses need a goroutine.
		if isPassthrough(key) {
			results[i] = c.resolve(ctx, key)
			continue
		}
		if cached, ok := c.cache.Get(key); ok {
			c.record(ctx, key, outcomeHit)
			results[i] = cached
			continue
		}
		g.Go(func() error {
			results[i] = c.resolve(ctx, key)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// ResolveTexts resolves texts that share one language pair.
func (c *Coordinator) ResolveTexts(ctx context.Context, texts []string, sourceLang, targetLang string) []string {
	items := make([]Item, len(texts))
	for i, text := range texts {
		items[i] = Item{Text: text, SourceLang: sourceLang, TargetLang: targetLang}
	}
	return c.ResolveAll(ctx, items)
}
