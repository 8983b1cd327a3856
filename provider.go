package transcache

import "context"

// Provider performs the actual remote translation of one text.
type Provider interface {
	Translate(ctx context.Context, req Request) (string, error)
}

// Request contains the parameters for a translation request.
// Language codes are canonical BCP 47 tags (see CanonicalLang).
type Request struct {
	Text       string
	SourceLang string
	TargetLang string
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (string, error)

// Translate calls f(ctx, req).
func (f ProviderFunc) Translate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
