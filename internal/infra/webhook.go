package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrWebhookDisabled is returned by Post when no WEBHOOK_URL is configured.
var ErrWebhookDisabled = errors.New("webhook: url not configured")

// WebhookClient posts JSON events to the configured endpoint through a circuit breaker.
type WebhookClient struct {
	url    string
	client *resty.Client
	cb     *Breaker
}

func NewWebhookClient(url string, cb *Breaker) *WebhookClient {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "redecell-webhooks/1.0")
	return &WebhookClient{url: url, client: client, cb: cb}
}

// Enabled reports whether a destination URL is configured.
func (w *WebhookClient) Enabled() bool { return w.url != "" }

// Post sends payload as JSON. Any non-2xx answer counts as a failure for the breaker.
func (w *WebhookClient) Post(ctx context.Context, payload interface{}) error {
	if !w.Enabled() {
		return ErrWebhookDisabled
	}
	return w.cb.Do(ctx, func(ctx context.Context) error {
		resp, err := w.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post(w.url)
		if err != nil {
			return fmt.Errorf("webhook: post: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("webhook: unexpected status %d", resp.StatusCode())
		}
		return nil
	})
}
