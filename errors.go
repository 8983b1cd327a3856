package transcache

import (
	"fmt"

	"github.com/lingofyra/transcache/cache"
)

// ProviderError indicates a translation provider failure (network error,
// non-2xx response, malformed payload). The Coordinator never returns it to
// callers; it falls back to the original text instead.
type ProviderError struct {
	Message    string
	Cause      error
	Retryable  bool // Whether the operation can be retried
	StatusCode int  // HTTP status, when the provider got a response
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// InvalidKeyError reports a cache key that cannot be built, such as an empty
// or malformed language code. It is a programming error: the Coordinator
// panics with it rather than falling back.
type InvalidKeyError struct {
	Field string // "source language" or "target language"
	Value string
	Cause error
}

func (e *InvalidKeyError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid cache key: empty %s", e.Field)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid cache key: %s %q: %v", e.Field, e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid cache key: %s %q", e.Field, e.Value)
}

func (e *InvalidKeyError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache backend failure.
type CacheError = cache.Error

// ProcessorError indicates a content processing failure (parse error, etc.).
type ProcessorError struct {
	Message     string
	Cause       error
	ContentType string // The type of content that failed to process
}

func (e *ProcessorError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("processor error (%s): %s: %v", e.ContentType, e.Message, e.Cause)
	}
	return fmt.Sprintf("processor error (%s): %s", e.ContentType, e.Message)
}

func (e *ProcessorError) Unwrap() error {
	return e.Cause
}
