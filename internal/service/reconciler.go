package service

import (
	"context"
	"errors"
	"time"

	"github.com/jeffleon2/draftea-storefront-service/internal/metrics"
	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/sirupsen/logrus"
)

const defaultStoreTimeout = 5 * time.Second

// OrderStore is the persistence capability the reconciler needs.
// UpdatePaidAndFetch must set is_paid=true and return the updated order with
// its line items in a single atomic operation. It returns an error wrapping
// models.ErrOrderNotFound when no order has the given id.
type OrderStore interface {
	UpdatePaidAndFetch(ctx context.Context, orderID string) (*models.Order, error)
}

type Outcome int

const (
	OutcomeConfirmed Outcome = iota
	OutcomeNotApplicable
	OutcomeOrderNotFound
	OutcomeStoreUnavailable
)

func (o Outcome) String() string {
	switch o {
	case OutcomeConfirmed:
		return "confirmed"
	case OutcomeNotApplicable:
		return "not_applicable"
	case OutcomeOrderNotFound:
		return "order_not_found"
	case OutcomeStoreUnavailable:
		return "store_unavailable"
	default:
		return "unknown"
	}
}

// ReconcileResult reports what happened to the referenced order. Order is
// only set for OutcomeConfirmed; Err is only set for OutcomeStoreUnavailable
// and OutcomeOrderNotFound.
type ReconcileResult struct {
	Outcome Outcome
	OrderID string
	Order   *models.Order
	Err     error
}

// OrderReconciler marks orders paid in response to verified payment events.
type OrderReconciler struct {
	Store   OrderStore
	Timeout time.Duration
}

// NewOrderReconciler creates an OrderReconciler. Every store round trip is
// bounded by timeout; a non-positive timeout falls back to 5s.
func NewOrderReconciler(store OrderStore, timeout time.Duration) *OrderReconciler {
	if timeout <= 0 {
		timeout = defaultStoreTimeout
	}
	return &OrderReconciler{
		Store:   store,
		Timeout: timeout,
	}
}

// Reconcile applies a verified payment event. Only checkout-completed events
// touch the store, and they do so with one unconditional "mark paid" update,
// which is safe to repeat. No retries happen here; a StoreUnavailable outcome
// is meant to make the payment processor redeliver.
func (r *OrderReconciler) Reconcile(ctx context.Context, event models.PaymentEvent) ReconcileResult {
	log := logrus.WithFields(logrus.Fields{
		"event_id":   event.ID,
		"event_type": event.RawType,
	})

	switch event.Type {
	case models.EventTypeCheckoutCompleted:
		return r.confirm(ctx, event, log)
	case models.EventTypeOther:
		log.Info("Payment event ignored")
	}

	return ReconcileResult{Outcome: OutcomeNotApplicable}
}

func (r *OrderReconciler) confirm(ctx context.Context, event models.PaymentEvent, log *logrus.Entry) ReconcileResult {
	if event.OrderID == "" {
		log.Errorf("Checkout session has no %q metadata", models.OrderIDMetadataKey)
		return ReconcileResult{Outcome: OutcomeOrderNotFound, Err: models.ErrOrderNotFound}
	}

	log = log.WithField("order_id", event.OrderID)

	storeCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	start := time.Now()
	order, err := r.Store.UpdatePaidAndFetch(storeCtx, event.OrderID)
	result := classify(event.OrderID, order, err)
	metrics.OrderStoreDuration.WithLabelValues(result.Outcome.String()).Observe(time.Since(start).Seconds())

	switch result.Outcome {
	case OutcomeConfirmed:
		log.WithField("items", len(order.OrderItems)).Info("Order marked as paid")
	case OutcomeOrderNotFound:
		log.Error("Order referenced by checkout session does not exist")
	default:
		log.WithError(result.Err).Error("Order store unavailable")
	}

	return result
}

func classify(orderID string, order *models.Order, err error) ReconcileResult {
	switch {
	case err == nil && order != nil:
		return ReconcileResult{Outcome: OutcomeConfirmed, OrderID: orderID, Order: order}
	case errors.Is(err, models.ErrOrderNotFound):
		return ReconcileResult{Outcome: OutcomeOrderNotFound, OrderID: orderID, Err: err}
	case err == nil:
		err = errors.New("order store returned no order")
	}

	return ReconcileResult{Outcome: OutcomeStoreUnavailable, OrderID: orderID, Err: err}
}
