package provider

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockProvider is a mock translation provider for testing. It is safe for
// concurrent use.
type MockProvider struct {
	mu           sync.Mutex
	translations map[string]string // text -> translation, any language pair
	failures     map[string]error
	delay        time.Duration
	calls        []Request
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		translations: map[string]string{
			"hello":       "नमस्ते",
			"Hello":       "Hola",
			"World":       "Mundo",
			"Hello World": "Hola Mundo",
		},
		failures: make(map[string]error),
	}
}

// SetTranslation registers the translation returned for text.
func (m *MockProvider) SetTranslation(text, translation string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.translations[text] = translation
}

// SetFailure makes requests for text fail with err. A nil err clears it.
func (m *MockProvider) SetFailure(text string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, text)
		return
	}
	m.failures[text] = err
}

// SetDelay makes every request take d, or until its context is done.
func (m *MockProvider) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	delay := m.delay
	failure := m.failures[req.Text]
	translation, ok := m.translations[req.Text]
	m.mu.Unlock()

	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if failure != nil {
		return "", failure
	}
	if !ok {
		// Return bracketed text for unknown translations
		translation = fmt.Sprintf("[%s] %s", req.TargetLang, req.Text)
	}
	return translation, nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CallsFor returns the number of Translate calls for text.
func (m *MockProvider) CallsFor(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Text == text {
			n++
		}
	}
	return n
}

// LastRequest returns the most recent request, if any.
func (m *MockProvider) LastRequest() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return Request{}, false
	}
	return m.calls[len(m.calls)-1], true
}

// Reset clears the recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Verify MockProvider implements Provider
var _ Provider = (*MockProvider)(nil)
