package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingofyra/transcache"
)

func TestGoogleProvider_Translate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("client") != "gtx" || q.Get("dt") != "t" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("sl") != "en" || q.Get("tl") != "hi" {
			t.Errorf("sl/tl = %s/%s, want en/hi", q.Get("sl"), q.Get("tl"))
		}
		if q.Get("q") != "hello" {
			t.Errorf("q = %q, want hello", q.Get("q"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("User-Agent should be set")
		}
		w.Write([]byte(`[[["नमस्ते","hello",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	p := NewGoogleProvider(GoogleConfig{BaseURL: server.URL})

	got, err := p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"})
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "नमस्ते" {
		t.Errorf("Translate = %q, want %q", got, "नमस्ते")
	}
}

func TestGoogleProvider_StatusErrors(t *testing.T) {
	tests := []struct {
		status    int
		retryable bool
	}{
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadRequest, false},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		p := NewGoogleProvider(GoogleConfig{BaseURL: server.URL})
		_, err := p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"})
		server.Close()

		var provErr *transcache.ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("status %d: expected *ProviderError, got %T", tt.status, err)
		}
		if provErr.StatusCode != tt.status {
			t.Errorf("StatusCode = %d, want %d", provErr.StatusCode, tt.status)
		}
		if provErr.Retryable != tt.retryable {
			t.Errorf("status %d: Retryable = %v, want %v", tt.status, provErr.Retryable, tt.retryable)
		}
	}
}

func TestGoogleProvider_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>captcha</html>`))
	}))
	defer server.Close()

	p := NewGoogleProvider(GoogleConfig{BaseURL: server.URL})
	_, err := p.Translate(context.Background(), Request{Text: "hello", SourceLang: "en", TargetLang: "hi"})

	var provErr *transcache.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected *ProviderError, got %T", err)
	}
	if provErr.Retryable {
		t.Error("Malformed payload should not be retryable")
	}
}

func TestParseGoogleResponse(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"single segment", `[[["Hola","Hello"]]]`, "Hola", false},
		{"multiple segments", `[[["Hola. ","Hello. ",null],["Adiós.","Bye.",null]],null,"en"]`, "Hola. Adiós.", false},
		{"trailing transliteration segment", `[[["नमस्ते","hello"],[null,null,"namaste"]]]`, "नमस्ते", false},
		{"empty array", `[]`, "", true},
		{"no segments", `[[]]`, "", true},
		{"not json", `oops`, "", true},
		{"wrong shape", `[{"a":1}]`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseGoogleResponse([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGoogleLang(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"en", "en"},
		{"en-US", "en"},
		{"hi", "hi"},
		{"zh-CN", "zh-CN"},
		{"zh-Hant", "zh-TW"},
		{"pt-BR", "pt"},
	}

	for _, tt := range tests {
		if got := googleLang(tt.in); got != tt.want {
			t.Errorf("googleLang(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
