package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/xavierca1/zapvendas/internal/entity"
	"github.com/xavierca1/zapvendas/internal/infra/http/middleware"
)

// HandoffNotifier alerts the sales team that a customer asked for a human.
type HandoffNotifier interface {
	NotifyHandoff(ctx context.Context, event entity.LeadEvent) error
}

// OrderSyncer pushes a new order to the CRM.
type OrderSyncer interface {
	SyncOrder(ctx context.Context, event entity.LeadEvent) error
}

var errMalformedEvent = errors.New("malformed lead event")

type Worker struct {
	Channel  *amqp.Channel
	Notifier HandoffNotifier
	CRM      OrderSyncer
}

// NewWorker accepts nil consumers; their events are acknowledged and skipped.
func NewWorker(ch *amqp.Channel, notifier HandoffNotifier, crm OrderSyncer) *Worker {
	return &Worker{Channel: ch, Notifier: notifier, CRM: crm}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
// Failed deliveries are rejected without requeue so they land in the DLQ.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.ConsumeWithContext(ctx, QueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("register rabbitmq consumer: %w", err)
	}

	log.Info().Str("queue", QueueName).Msg("📥 Lead events worker started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Lead events worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			if err := w.processMessage(ctx, d.Body); err != nil {
				log.Error().Err(err).Str("type", d.Type).Msg("❌ Lead event failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (w *Worker) processMessage(ctx context.Context, body []byte) error {
	var event entity.LeadEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}

	switch event.Type {
	case entity.EventHandoffRequested:
		if w.Notifier == nil {
			log.Debug().Str("lead_id", event.LeadID).Msg("No handoff notifier configured, skipping")
			return nil
		}
		if err := w.Notifier.NotifyHandoff(ctx, event); err != nil {
			middleware.RecordIntegrationError("mail")
			return err
		}
		log.Info().Str("lead_id", event.LeadID).Msg("📧 Handoff notification sent")

	case entity.EventOrderCreated:
		if w.CRM == nil {
			log.Debug().Str("order_id", event.OrderID).Msg("No CRM configured, skipping")
			return nil
		}
		if err := w.CRM.SyncOrder(ctx, event); err != nil {
			middleware.RecordIntegrationError("kommo")
			return err
		}
		log.Info().Str("order_id", event.OrderID).Msg("🔗 Order synced to CRM")

	default:
		log.Warn().Str("type", string(event.Type)).Msg("⚠️ Unknown lead event, acknowledging")
	}
	return nil
}
