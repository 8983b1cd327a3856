package provider

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lingofyra/transcache"
)

func newGeminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		reqBody, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(reqBody), "hello") {
			t.Errorf("request should carry the text, got %s", reqBody)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
}

func TestGeminiProvider_Translate(t *testing.T) {
	server := newGeminiServer(t, http.StatusOK, `{
		"candidates": [{"content": {"role": "model", "parts": [{"text": "नमस्ते\n"}]}, "finishReason": "STOP"}]
	}`)
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}

	got, err := p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "नमस्ते" {
		t.Errorf("Translate = %q, want %q", got, "नमस्ते")
	}
}

func TestGeminiProvider_ServerError(t *testing.T) {
	server := newGeminiServer(t, http.StatusServiceUnavailable,
		`{"error": {"code": 503, "message": "overloaded", "status": "UNAVAILABLE"}}`)
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}

	_, err = p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"})

	var provErr *transcache.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected *ProviderError, got %T", err)
	}
	if !provErr.Retryable {
		t.Error("503 should be retryable")
	}
}

func TestGeminiProvider_EmptyReply(t *testing.T) {
	server := newGeminiServer(t, http.StatusOK, `{"candidates": [{"content": {"role": "model", "parts": [{"text": "  "}]}}]}`)
	defer server.Close()

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewGeminiProvider failed: %v", err)
	}

	if _, err := p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"}); err == nil {
		t.Error("Expected error for empty reply")
	}
}
