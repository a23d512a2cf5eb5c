// Package verifier authenticates Stripe webhook payloads before any business
// logic sees them.
package verifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const SignatureHeader = "Stripe-Signature"

var (
	ErrMissingSignature = errors.New("missing stripe signature")
	ErrInvalidSignature = errors.New("invalid stripe signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Verifier checks the Stripe-Signature header of a webhook against the
// endpoint's signing secret. It holds no mutable state.
type Verifier struct {
	secret    string
	tolerance time.Duration
}

// New returns a Verifier for the given signing secret. A zero tolerance
// disables the timestamp window; the signature itself is always checked.
func New(secret string, tolerance time.Duration) *Verifier {
	return &Verifier{
		secret:    secret,
		tolerance: tolerance,
	}
}

// Verify authenticates rawBody against signatureHeader and decodes it into a
// PaymentEvent. Rejections wrap ErrMissingSignature, ErrInvalidSignature or
// ErrMalformedPayload.
func (v *Verifier) Verify(rawBody []byte, signatureHeader string) (models.PaymentEvent, error) {
	if signatureHeader == "" {
		return models.PaymentEvent{}, ErrMissingSignature
	}

	if err := v.validate(rawBody, signatureHeader); err != nil {
		return models.PaymentEvent{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var event stripe.Event
	if err := json.Unmarshal(rawBody, &event); err != nil {
		return models.PaymentEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	rawType := string(event.Type)
	paymentEvent := models.PaymentEvent{
		ID:                event.ID,
		Type:              models.ParseEventType(rawType),
		RawType:           rawType,
		RawPayload:        rawBody,
		ReceivedSignature: signatureHeader,
	}

	switch paymentEvent.Type {
	case models.EventTypeCheckoutCompleted:
		orderID, err := checkoutOrderID(event)
		if err != nil {
			return models.PaymentEvent{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
		}
		paymentEvent.OrderID = orderID
	case models.EventTypeOther:
	}

	return paymentEvent, nil
}

func (v *Verifier) validate(rawBody []byte, signatureHeader string) error {
	if v.tolerance <= 0 {
		return webhook.ValidatePayloadIgnoringTolerance(rawBody, signatureHeader, v.secret)
	}
	return webhook.ValidatePayloadWithTolerance(rawBody, signatureHeader, v.secret, v.tolerance)
}

func checkoutOrderID(event stripe.Event) (string, error) {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return "", errors.New("checkout session event has no data object")
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return "", fmt.Errorf("error parsing checkout session %w", err)
	}

	return session.Metadata[models.OrderIDMetadataKey], nil
}
