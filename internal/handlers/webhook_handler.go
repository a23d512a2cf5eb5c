package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-storefront-service/internal/metrics"
	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/jeffleon2/draftea-storefront-service/internal/service"
	"github.com/jeffleon2/draftea-storefront-service/internal/verifier"
	"github.com/sirupsen/logrus"
)

const (
	defaultMaxBodyBytes  = 1 << 20
	defaultNotifyTimeout = 3 * time.Second
)

type EventVerifier interface {
	Verify(rawBody []byte, signatureHeader string) (models.PaymentEvent, error)
}

type Reconciler interface {
	Reconcile(ctx context.Context, event models.PaymentEvent) service.ReconcileResult
}

type OrderPaidNotifier interface {
	NotifyOrderPaid(ctx context.Context, order *models.Order, event models.PaymentEvent) error
}

// WebhookHandler turns Stripe deliveries into HTTP statuses the processor
// understands: 2xx stops redelivery, 4xx flags a bad request, 5xx asks for a
// retry with backoff.
type WebhookHandler struct {
	Verifier      EventVerifier
	Reconciler    Reconciler
	Notifier      OrderPaidNotifier
	MaxBodyBytes  int64
	NotifyTimeout time.Duration
}

func NewWebhookHandler(v EventVerifier, r Reconciler, n OrderPaidNotifier, maxBodyBytes int64, notifyTimeout time.Duration) *WebhookHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = defaultMaxBodyBytes
	}
	if notifyTimeout <= 0 {
		notifyTimeout = defaultNotifyTimeout
	}
	return &WebhookHandler{
		Verifier:      v,
		Reconciler:    r,
		Notifier:      n,
		MaxBodyBytes:  maxBodyBytes,
		NotifyTimeout: notifyTimeout,
	}
}

// POST /api/webhook
func (h *WebhookHandler) HandleStripeWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBodyBytes))
	if err != nil {
		logrus.WithError(err).Error("Error reading webhook body")
		respond(c, "malformed_payload", http.StatusBadRequest, gin.H{"error": "payload too large or unreadable"})
		return
	}

	event, err := h.Verifier.Verify(rawBody, c.GetHeader(verifier.SignatureHeader))
	if err != nil {
		h.reject(c, err)
		return
	}

	result := h.Reconciler.Reconcile(c.Request.Context(), event)

	switch result.Outcome {
	case service.OutcomeConfirmed:
		h.notify(c.Request.Context(), result.Order, event)
		respond(c, result.Outcome.String(), http.StatusOK, gin.H{"status": "success", "orderId": result.OrderID})
	case service.OutcomeNotApplicable:
		respond(c, result.Outcome.String(), http.StatusOK, gin.H{"status": "ignored", "type": event.RawType})
	case service.OutcomeOrderNotFound:
		respond(c, result.Outcome.String(), http.StatusBadRequest, gin.H{"error": "order not found", "orderId": result.OrderID})
	default:
		respond(c, service.OutcomeStoreUnavailable.String(), http.StatusInternalServerError, gin.H{"error": "database error"})
	}
}

func (h *WebhookHandler) reject(c *gin.Context, err error) {
	log := logrus.WithField("remote_addr", c.ClientIP()).WithError(err)

	switch {
	case errors.Is(err, verifier.ErrMissingSignature):
		log.Warn("Webhook rejected: missing signature, possible tampering or misconfigured endpoint")
		respond(c, "missing_signature", http.StatusBadRequest, gin.H{"error": "missing stripe signature"})
	case errors.Is(err, verifier.ErrInvalidSignature):
		log.Warn("Webhook signature verification failed, possible tampering or wrong secret")
		respond(c, "invalid_signature", http.StatusBadRequest, gin.H{"error": "webhook error"})
	default:
		log.Error("Webhook payload could not be parsed despite a valid signature")
		respond(c, "malformed_payload", http.StatusBadRequest, gin.H{"error": "malformed payload"})
	}
}

// notify runs after the order is already paid, so its failure is logged and
// never changes the response.
func (h *WebhookHandler) notify(ctx context.Context, order *models.Order, event models.PaymentEvent) {
	if h.Notifier == nil || order == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.NotifyTimeout)
	defer cancel()

	if err := h.Notifier.NotifyOrderPaid(ctx, order, event); err != nil {
		logrus.WithField("order_id", order.ID).WithError(err).Error("Error notifying order paid")
	}
}

func respond(c *gin.Context, outcome string, status int, body gin.H) {
	metrics.WebhookEventsTotal.WithLabelValues(outcome).Inc()
	c.JSON(status, body)
}
