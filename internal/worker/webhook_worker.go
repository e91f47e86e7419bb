package worker

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Purchase-order events delivered to WEBHOOK_URL.
const (
	EventPurchaseOrderReceived          = "purchase_order.received"
	EventPurchaseOrderPartiallyReceived = "purchase_order.partially_received"
	EventPurchaseOrderOverdue           = "purchase_order.overdue"
)

// WebhookEvent is the JSON body posted to the webhook receiver.
type WebhookEvent struct {
	Event           string `json:"event"`
	PurchaseOrderID string `json:"purchase_order_id"`
	Status          string `json:"status"`
	OccurredAt      string `json:"occurred_at"` // RFC 3339
}

// WebhookPoster is implemented by *infra.WebhookClient.
type WebhookPoster interface {
	Enabled() bool
	Post(ctx context.Context, payload interface{}) error
}

// WebhookWorker delivers WebhookEvents from QueueWebhook.
type WebhookWorker struct {
	client    WebhookPoster
	delivered metric.Int64Counter
}

func NewWebhookWorker(client WebhookPoster) *WebhookWorker {
	counter, err := otel.Meter("redecell").Int64Counter("webhooks.delivered",
		metric.WithDescription("Webhook delivery attempts by outcome"))
	if err != nil {
		log.Warn().Err(err).Msg("webhook_worker: counter unavailable")
	}
	return &WebhookWorker{client: client, delivered: counter}
}

// Process posts the event. Delivery errors are returned so the pool retries.
func (w *WebhookWorker) Process(ctx context.Context, raw json.RawMessage) error {
	if !w.client.Enabled() {
		log.Debug().Msg("webhook_worker: WEBHOOK_URL not set, dropping event")
		return nil
	}
	var event WebhookEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		log.Error().Err(err).Msg("webhook_worker: invalid payload")
		return nil
	}

	err := w.client.Post(ctx, event)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	if w.delivered != nil {
		w.delivered.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	}
	if err != nil {
		return err
	}
	log.Info().Str("event", event.Event).Str("purchase_order_id", event.PurchaseOrderID).Msg("webhook_worker: delivered")
	return nil
}
