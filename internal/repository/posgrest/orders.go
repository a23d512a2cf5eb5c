package posgrest

import (
	"context"
	"errors"
	"fmt"

	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"gorm.io/gorm"
)

// OrderRepository is the postgres-backed order store.
type OrderRepository struct {
	*repository[models.Order]
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{repository: New[models.Order](db)}
}

// UpdatePaidAndFetch marks the order paid and reloads it with its items in one
// transaction. The update is unconditional, so concurrent or repeated calls
// for the same order all succeed with the same end state.
func (r *OrderRepository) UpdatePaidAndFetch(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("is_paid", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s: %w", orderID, models.ErrOrderNotFound)
		}

		return tx.Preload("OrderItems").Where("id = ?", orderID).First(&order).Error
	})
	switch {
	case err == nil:
		return &order, nil
	case errors.Is(err, models.ErrOrderNotFound):
		return nil, err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("order %s: %w", orderID, models.ErrOrderNotFound)
	}

	return nil, fmt.Errorf("error marking order %s paid: %w", orderID, err)
}
