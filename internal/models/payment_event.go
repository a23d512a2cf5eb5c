package models

// StripeCheckoutSessionCompleted is the only Stripe event type that confirms an order.
const StripeCheckoutSessionCompleted = "checkout.session.completed"

// OrderIDMetadataKey is the checkout session metadata key holding the storefront order id.
const OrderIDMetadataKey = "orderId"

type EventType int

const (
	EventTypeOther EventType = iota
	EventTypeCheckoutCompleted
)

func (t EventType) String() string {
	switch t {
	case EventTypeCheckoutCompleted:
		return "checkout_completed"
	default:
		return "other"
	}
}

// ParseEventType maps a Stripe event type string onto the closed set of
// types this service reacts to.
func ParseEventType(raw string) EventType {
	switch raw {
	case StripeCheckoutSessionCompleted:
		return EventTypeCheckoutCompleted
	default:
		return EventTypeOther
	}
}

// PaymentEvent is a payment processor notification whose signature has been verified.
type PaymentEvent struct {
	ID                string
	Type              EventType
	RawType           string
	OrderID           string
	RawPayload        []byte
	ReceivedSignature string
}
