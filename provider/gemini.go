package provider

import (
	"context"
	"errors"
	"net/http"

	"github.com/lingofyra/transcache"
	"google.golang.org/genai"
)

// GeminiProvider implements Provider using Google's Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string       // Gemini API key
	Model       string       // Model to use (default: "gemini-2.5-flash")
	Temperature float32      // Temperature for generation (default: 0.3)
	BaseURL     string       // Custom base URL (optional)
	HTTPClient  *http.Client // Custom HTTP client (optional)
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, &transcache.ProviderError{
			Message: "creating Gemini client",
			Cause:   err,
		}
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// Translate translates one text using Gemini.
func (p *GeminiProvider) Translate(ctx context.Context, req Request) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(buildPrompt(req), genai.RoleUser),
		Temperature:       genai.Ptr(p.temperature),
	})
	if err != nil {
		provErr := &transcache.ProviderError{
			Message:   "Gemini API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			provErr.StatusCode = apiErr.Code
			provErr.Retryable = retryableStatus(apiErr.Code)
		}
		return "", provErr
	}

	translated := cleanReply(resp.Text())
	if translated == "" {
		return "", &transcache.ProviderError{
			Message: "empty response from Gemini",
		}
	}
	return translated, nil
}

// Verify GeminiProvider implements Provider
var _ Provider = (*GeminiProvider)(nil)
