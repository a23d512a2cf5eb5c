package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jeffleon2/draftea-storefront-service/internal/metrics"
	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/sirupsen/logrus"
)

const dedupeKind = "orderpaid"

// Publisher defines the interface for publishing events to Kafka topics.
type Publisher interface {
	Publish(ctx context.Context, topic string, key string, message interface{}) error
}

// Deduper hands out one claim per key.
type Deduper interface {
	Key(kind, id string) string
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// OrderPaidNotifier tells downstream fulfillment (receipts, shipping) that an
// order was paid. Both Publisher and Deduper are optional.
type OrderPaidNotifier struct {
	Publisher Publisher
	Deduper   Deduper
	Topic     string
}

func NewOrderPaidNotifier(p Publisher, d Deduper, topic string) *OrderPaidNotifier {
	if topic == "" {
		topic = models.OrderPaidEventTopic
	}
	return &OrderPaidNotifier{
		Publisher: p,
		Deduper:   d,
		Topic:     topic,
	}
}

// NotifyOrderPaid publishes one OrderPaidEvent per order. Redelivered
// confirmations for an order already announced are skipped. If publishing
// fails the claim is released so a later redelivery can try again.
func (n *OrderPaidNotifier) NotifyOrderPaid(ctx context.Context, order *models.Order, event models.PaymentEvent) error {
	log := logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"event_id": event.ID,
	})

	if n.Publisher == nil {
		log.Info("Order paid notification disabled, skipping")
		metrics.OrderPaidNotifications.WithLabelValues("disabled").Inc()
		return nil
	}

	var key string
	if n.Deduper != nil {
		key = n.Deduper.Key(dedupeKind, order.ID)
		claimed, err := n.Deduper.Claim(ctx, key)
		switch {
		case err != nil:
			log.WithError(err).Warn("Dedupe store unavailable, publishing without claim")
			key = ""
		case !claimed:
			log.Info("Order paid notification already sent")
			metrics.OrderPaidNotifications.WithLabelValues("duplicate").Inc()
			return nil
		}
	}

	if err := n.Publisher.Publish(ctx, n.Topic, order.ID, buildOrderPaidEvent(order, event)); err != nil {
		metrics.OrderPaidNotifications.WithLabelValues("failed").Inc()
		if key != "" {
			if relErr := n.Deduper.Release(context.WithoutCancel(ctx), key); relErr != nil {
				log.WithError(relErr).Error("Error releasing order paid claim")
			}
		}
		return fmt.Errorf("error publishing order paid event %w", err)
	}

	metrics.OrderPaidNotifications.WithLabelValues("published").Inc()
	log.Info("Order paid notification published")
	return nil
}

func buildOrderPaidEvent(order *models.Order, event models.PaymentEvent) models.OrderPaidEvent {
	items := make([]models.OrderPaidItem, 0, len(order.OrderItems))
	for _, it := range order.OrderItems {
		items = append(items, models.OrderPaidItem{ID: it.ID, ProductID: it.ProductID})
	}

	return models.OrderPaidEvent{
		EventID:       uuid.New().String(),
		OrderID:       order.ID,
		StripeEventID: event.ID,
		Items:         items,
		Phone:         order.Phone,
		Address:       order.Address,
		PaidAt:        time.Now().UTC(),
	}
}
