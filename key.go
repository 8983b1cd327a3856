package transcache

import "github.com/lingofyra/transcache/cache"

// Key identifies one translation. See cache.Key.
type Key = cache.Key

// NewKey builds a cache key with canonical language codes.
// It returns an *InvalidKeyError when either language code is empty or malformed.
func NewKey(text, sourceLang, targetLang string) (Key, error) {
	source, err := CanonicalLang(sourceLang)
	if err != nil {
		return Key{}, withField(err, "source language")
	}
	target, err := CanonicalLang(targetLang)
	if err != nil {
		return Key{}, withField(err, "target language")
	}
	return Key{SourceLang: source, TargetLang: target, Text: text}, nil
}

func withField(err error, field string) error {
	if ike, ok := err.(*InvalidKeyError); ok {
		ike.Field = field
	}
	return err
}

// Item is one translation request in a batch.
type Item struct {
	Text       string
	SourceLang string
	TargetLang string
}
