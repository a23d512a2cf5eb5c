package database

import (
	"context"
	"errors"
	"time"

	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type OrderWriter interface {
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
}

// DemoOrders are the unpaid orders a local environment starts with. Their ids
// can be put in checkout session metadata when replaying Stripe CLI events.
func DemoOrders() []models.Order {
	now := time.Now()
	return []models.Order{
		{
			ID:      "ord_demo_1",
			Phone:   "+1 555 0101",
			Address: "221B Baker Street",
			OrderItems: []models.OrderItem{
				{ID: "item_demo_1a", OrderID: "ord_demo_1", ProductID: "prod_keyboard"},
				{ID: "item_demo_1b", OrderID: "ord_demo_1", ProductID: "prod_mouse"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:      "ord_demo_2",
			Phone:   "+1 555 0102",
			Address: "742 Evergreen Terrace",
			OrderItems: []models.OrderItem{
				{ID: "item_demo_2a", OrderID: "ord_demo_2", ProductID: "prod_monitor"},
			},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "ord_demo_3",
			Phone:     "+1 555 0103",
			Address:   "31 Spooner Street",
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SeedOrders inserts every order that does not exist yet. Existing orders are
// left untouched so a restart never flips is_paid back.
func SeedOrders(ctx context.Context, repo OrderWriter, orders []models.Order) error {
	created := 0
	for _, order := range orders {
		_, err := repo.GetByID(ctx, order.ID)
		switch {
		case err == nil:
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		order := order.Clone()
		if err := repo.Create(ctx, &order); err != nil {
			return err
		}
		created++
	}

	logrus.WithField("created", created).Info("✅ Orders seeded successfully")
	return nil
}
