package provider

import "context"

// Provider is the outbound chat delivery port. One call is one attempt.
type Provider interface {
	Post(ctx context.Context, text string) (*ProviderResponse, error)
}

// ProviderResponse stores webhook call metadata for logging.
type ProviderResponse struct {
	StatusCode int
	Body       string
	MessageID  string
}
