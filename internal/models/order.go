package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrOrderNotFound is returned by order stores when no order matches the given id.
var ErrOrderNotFound = errors.New("order not found")

// Order is the storefront order record. IsPaid only moves from false to true,
// and only through payment reconciliation.
type Order struct {
	ID         string      `gorm:"primaryKey" json:"id"`
	IsPaid     bool        `gorm:"not null;default:false" json:"isPaid"`
	Phone      string      `json:"phone"`
	Address    string      `json:"address"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"orderItems"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

type OrderItem struct {
	ID        string `gorm:"primaryKey" json:"id"`
	OrderID   string `gorm:"index;not null" json:"orderId"`
	ProductID string `gorm:"not null" json:"productId"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}

	return
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}

	return
}

// Clone returns a deep copy so callers never share the line item slice.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.OrderItems))
	copy(items, o.OrderItems)
	o.OrderItems = items
	return o
}
