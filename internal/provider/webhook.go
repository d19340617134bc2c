package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kursadbilgin/expiry-notifier/internal/domain"
)

const (
	defaultWebhookTimeout = 10 * time.Second
	maxLoggedBodyBytes    = 512
)

type chatMessage struct {
	Text string `json:"text"`
}

type chatResponse struct {
	Name string `json:"name"`
}

// ChatWebhookProvider posts plain-text messages to an incoming chat webhook
// (Google Chat, Slack and compatible endpoints accept the {"text": ...} body).
type ChatWebhookProvider struct {
	client   *resty.Client
	endpoint string
}

func NewChatWebhookProvider(endpoint string, timeout time.Duration) (*ChatWebhookProvider, error) {
	client := resty.New()
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	client.SetTimeout(timeout)

	return NewChatWebhookProviderWithClient(endpoint, client)
}

func NewChatWebhookProviderWithClient(endpoint string, client *resty.Client) (*ChatWebhookProvider, error) {
	trimmedEndpoint := strings.TrimSpace(endpoint)
	if trimmedEndpoint == "" {
		return nil, fmt.Errorf("webhook endpoint is required")
	}
	if _, err := url.ParseRequestURI(trimmedEndpoint); err != nil {
		return nil, fmt.Errorf("invalid webhook endpoint: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("resty client is required")
	}

	if client.GetClient().Timeout == 0 {
		client.SetTimeout(defaultWebhookTimeout)
	}
	// Retries belong to the dispatcher so each attempt is observable.
	client.SetRetryCount(0)

	return &ChatWebhookProvider{
		client:   client,
		endpoint: trimmedEndpoint,
	}, nil
}

// Host returns the endpoint host, used as the rate limit key.
func (p *ChatWebhookProvider) Host() string {
	if p == nil {
		return ""
	}
	parsed, err := url.Parse(p.endpoint)
	if err != nil {
		return ""
	}
	return parsed.Host
}

func (p *ChatWebhookProvider) Post(ctx context.Context, text string) (*ProviderResponse, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("provider is not initialized")
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: message text is required", domain.ErrValidation)
	}

	var parsed chatResponse
	response, err := p.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json; charset=UTF-8").
		SetBody(chatMessage{Text: text}).
		SetResult(&parsed).
		Post(p.endpoint)
	if err != nil {
		return nil, &ProviderError{
			Message:   "webhook request failed",
			Transient: !errors.Is(err, context.Canceled),
			Cause:     err,
		}
	}
	if response == nil {
		return nil, &ProviderError{
			Message:   "webhook returned empty response",
			Transient: true,
		}
	}

	statusCode := response.StatusCode()
	responseBody := truncate(strings.TrimSpace(response.String()), maxLoggedBodyBytes)

	if statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices {
		messageID := strings.TrimSpace(parsed.Name)
		if messageID == "" {
			messageID = headerMessageID(response)
		}
		return &ProviderResponse{
			StatusCode: statusCode,
			Body:       responseBody,
			MessageID:  messageID,
		}, nil
	}

	return nil, &ProviderError{
		StatusCode: statusCode,
		Message:    providerErrorMessage(statusCode, responseBody),
		Transient:  isTransientHTTPStatus(statusCode),
	}
}

func isTransientHTTPStatus(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || (statusCode >= http.StatusInternalServerError && statusCode <= 599)
}

func providerErrorMessage(statusCode int, body string) string {
	base := fmt.Sprintf("webhook returned status %d", statusCode)
	if body == "" {
		return base
	}
	return fmt.Sprintf("%s: %s", base, body)
}

func headerMessageID(response *resty.Response) string {
	if response == nil {
		return ""
	}

	for _, key := range []string{"X-Request-ID", "X-Request-Id", "X-Slack-Req-Id"} {
		if value := strings.TrimSpace(response.Header().Get(key)); value != "" {
			return value
		}
	}

	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
