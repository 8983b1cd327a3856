// Package transcache memoizes machine translations for a language-learning
// site and coordinates the fetches behind them.
//
// Every feature that shows translated text (dictionary panel, grammar book,
// document export) asks one Coordinator. The Coordinator answers from its
// cache when it can, calls the configured Provider only for misses, lets
// concurrent callers for the same text share a single provider call, and
// falls back to the original text when a translation cannot be obtained.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/lingofyra/transcache"
//	    "github.com/lingofyra/transcache/provider"
//	)
//
//	func main() {
//	    c := transcache.NewCoordinator(provider.NewGoogleProvider(provider.GoogleConfig{}),
//	        transcache.WithTimeout(5*time.Second),
//	    )
//
//	    fmt.Println(c.Resolve(context.Background(), "hello", "en", "hi")) // नमस्ते
//
//	    titles := c.ResolveTexts(context.Background(),
//	        []string{"Present Simple", "Past Simple"}, "en", "fr")
//	    fmt.Println(titles)
//	}
package transcache
