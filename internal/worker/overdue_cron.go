package worker

// overdue_cron.go
// Background loop that periodically looks for purchase orders past their
// expected delivery date and not yet received, and emits one
// purchase_order.overdue webhook per order per day.

import (
	"context"
	"fmt"
	"time"

	"redecell/internal/model"

	"github.com/rs/zerolog/log"
)

// OverdueLister is implemented by repository.PurchaseOrderRepository.
type OverdueLister interface {
	ListOverdue(ctx context.Context, today time.Time) ([]model.PurchaseOrder, error)
}

// OverdueCronConfig holds all dependencies for the overdue goroutine.
type OverdueCronConfig struct {
	Orders     OverdueLister
	RDB        RedisClient
	Dispatcher *Dispatcher
	Interval   time.Duration
}

// RunOverdueCron scans immediately and then on every tick until ctx is cancelled.
func RunOverdueCron(ctx context.Context, cfg OverdueCronConfig) error {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	log.Info().Dur("interval", cfg.Interval).Msg("overdue_cron: started")
	scanOverdue(ctx, cfg, time.Now())

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("overdue_cron: shutting down")
			return nil
		case now := <-ticker.C:
			scanOverdue(ctx, cfg, now)
		}
	}
}

func scanOverdue(ctx context.Context, cfg OverdueCronConfig, now time.Time) {
	today := now.Format("2006-01-02")
	orders, err := cfg.Orders.ListOverdue(ctx, now)
	if err != nil {
		log.Error().Err(err).Msg("overdue_cron: failed to list overdue orders")
		return
	}

	for _, po := range orders {
		// one notification per order per calendar day
		key := fmt.Sprintf("overdue:%s:%s", po.ID, today)
		fresh, err := cfg.RDB.SetNX(ctx, key, 1, 24*time.Hour).Result()
		if err != nil {
			log.Error().Err(err).Str("key", key).Msg("overdue_cron: dedup check failed")
			continue
		}
		if !fresh {
			continue
		}
		event := WebhookEvent{
			Event:           EventPurchaseOrderOverdue,
			PurchaseOrderID: po.ID.String(),
			Status:          po.Status,
			OccurredAt:      now.UTC().Format(time.RFC3339),
		}
		if err := cfg.Dispatcher.EnqueueWebhook(ctx, event); err != nil {
			log.Error().Err(err).Str("purchase_order_id", po.ID.String()).Msg("overdue_cron: enqueue failed")
		}
	}
	if len(orders) > 0 {
		log.Info().Int("count", len(orders)).Msg("overdue_cron: overdue purchase orders checked")
	}
}
