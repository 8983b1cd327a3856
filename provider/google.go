package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lingofyra/transcache"
)

// DefaultGoogleBaseURL is the public endpoint used by the Google web widget.
const DefaultGoogleBaseURL = "https://translate.googleapis.com/translate_a/single"

// GoogleProvider implements Provider using the keyless Google Translate
// endpoint (client=gtx).
type GoogleProvider struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// GoogleConfig holds configuration for the Google provider.
type GoogleConfig struct {
	BaseURL    string       // Endpoint URL (default: DefaultGoogleBaseURL)
	HTTPClient *http.Client // HTTP client (default: 10s timeout)
	UserAgent  string       // User-Agent header (default: transcache.UserAgent())
}

// NewGoogleProvider creates a new Google provider.
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	p := &GoogleProvider{
		baseURL:    cfg.BaseURL,
		httpClient: cfg.HTTPClient,
		userAgent:  cfg.UserAgent,
	}
	if p.baseURL == "" {
		p.baseURL = DefaultGoogleBaseURL
	}
	if p.httpClient == nil {
		p.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if p.userAgent == "" {
		p.userAgent = transcache.UserAgent()
	}
	return p
}

// Translate translates one text. The endpoint splits long input into
// sentences; the translated segments are joined back in order.
func (p *GoogleProvider) Translate(ctx context.Context, req Request) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", googleLang(req.SourceLang))
	params.Set("tl", googleLang(req.TargetLang))
	params.Set("dt", "t")
	params.Set("q", req.Text)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", &transcache.ProviderError{Message: "building request", Cause: err}
	}
	httpReq.Header.Set("User-Agent", p.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", &transcache.ProviderError{
			Message:   "Google Translate request failed",
			Cause:     err,
			Retryable: ctx.Err() == nil,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", &transcache.ProviderError{
			Message:   "reading Google Translate response",
			Cause:     err,
			Retryable: true,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", &transcache.ProviderError{
			Message:    fmt.Sprintf("Google Translate returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			Retryable:  retryableStatus(resp.StatusCode),
		}
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return "", &transcache.ProviderError{
			Message:    "invalid response format from Google Translate",
			Cause:      err,
			StatusCode: resp.StatusCode,
		}
	}
	return translated, nil
}

// parseGoogleResponse joins the first element of every segment in the
// first array: [[["Hola ","Hello ",...],["mundo","world",...]],...].
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", err
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty payload")
	}

	var segments [][]interface{}
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("segments: %w", err)
	}

	var b strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		if s, ok := seg[0].(string); ok {
			b.WriteString(s)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}
	return b.String(), nil
}

// googleLang maps a BCP 47 tag to the codes the endpoint accepts. It wants
// bare base codes except for the Chinese scripts.
func googleLang(tag string) string {
	switch strings.ToLower(tag) {
	case "zh-cn", "zh-hans", "zh-hans-cn", "zh-sg":
		return "zh-CN"
	case "zh-tw", "zh-hant", "zh-hant-tw", "zh-hk":
		return "zh-TW"
	}
	base, _, _ := strings.Cut(tag, "-")
	return strings.ToLower(base)
}

// Verify GoogleProvider implements Provider
var _ Provider = (*GoogleProvider)(nil)
