package models

import "time"

const (
	OrderPaidEventTopic = "orders.paid"
)

type OrderPaidEvent struct {
	EventID       string          `json:"event_id"`
	OrderID       string          `json:"order_id"`
	StripeEventID string          `json:"stripe_event_id,omitempty"`
	Items         []OrderPaidItem `json:"items"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	PaidAt        time.Time       `json:"paid_at"`
}

type OrderPaidItem struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
}
