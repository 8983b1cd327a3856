package dictionary

import (
	"context"

	"github.com/lingofyra/transcache"
)

// SourceLang is the language of every dictionary entry.
const SourceLang = "en"

// Resolver resolves a batch of translation items in input order.
// *transcache.Coordinator satisfies it.
type Resolver interface {
	ResolveAll(ctx context.Context, items []transcache.Item) []string
}

// Result is a dictionary entry with its key fields translated.
type Result struct {
	Entry      *Entry
	TargetLang string

	Word       string // translated headword
	Definition string // translated primary definition
	Example    string // translated first example, empty when the entry has none
}

// Bilingual looks up word and translates its headword, primary definition
// and first example into targetLang with one batch call. A field that
// cannot be translated keeps its English text.
func Bilingual(ctx context.Context, c *Client, r Resolver, word, targetLang string) (*Result, error) {
	entry, err := c.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}

	items := []transcache.Item{
		{Text: entry.Word, SourceLang: SourceLang, TargetLang: targetLang},
		{Text: entry.PrimaryDefinition(), SourceLang: SourceLang, TargetLang: targetLang},
		{Text: entry.FirstExample(), SourceLang: SourceLang, TargetLang: targetLang},
	}
	resolved := r.ResolveAll(ctx, items)

	return &Result{
		Entry:      entry,
		TargetLang: targetLang,
		Word:       resolved[0],
		Definition: resolved[1],
		Example:    resolved[2],
	}, nil
}
