package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/jeffleon2/draftea-storefront-service/internal/repository/memory"
	"github.com/jeffleon2/draftea-storefront-service/internal/service"
	"github.com/jeffleon2/draftea-storefront-service/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func checkoutCompleted(orderID string) models.PaymentEvent {
	return models.PaymentEvent{
		ID:      "evt_1",
		Type:    models.EventTypeCheckoutCompleted,
		RawType: models.StripeCheckoutSessionCompleted,
		OrderID: orderID,
	}
}

func pendingOrder() models.Order {
	return models.Order{
		ID: "ord_42",
		OrderItems: []models.OrderItem{
			{ID: "item-1", OrderID: "ord_42", ProductID: "prod-1"},
			{ID: "item-2", OrderID: "ord_42", ProductID: "prod-2"},
		},
	}
}

func TestReconcile_Confirmed(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	paid := pendingOrder()
	paid.IsPaid = true

	mockStore.EXPECT().
		UpdatePaidAndFetch(mock.Anything, "ord_42").
		Return(&paid, nil).
		Once()

	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_42"))

	assert.Equal(t, service.OutcomeConfirmed, result.Outcome)
	assert.Equal(t, "ord_42", result.OrderID)
	require.NotNil(t, result.Order)
	assert.True(t, result.Order.IsPaid)
	assert.Len(t, result.Order.OrderItems, 2)
	assert.NoError(t, result.Err)
}

func TestReconcile_OtherEventNeverTouchesStore(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	event := models.PaymentEvent{
		Type:    models.EventTypeOther,
		RawType: "payment_intent.succeeded",
		OrderID: "ord_42",
	}

	result := reconciler.Reconcile(context.Background(), event)

	assert.Equal(t, service.OutcomeNotApplicable, result.Outcome)
	mockStore.AssertNotCalled(t, "UpdatePaidAndFetch", mock.Anything, mock.Anything)
}

func TestReconcile_EmptyOrderID(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	result := reconciler.Reconcile(context.Background(), checkoutCompleted(""))

	assert.Equal(t, service.OutcomeOrderNotFound, result.Outcome)
	assert.Empty(t, result.OrderID)
	assert.ErrorIs(t, result.Err, models.ErrOrderNotFound)
	mockStore.AssertNotCalled(t, "UpdatePaidAndFetch", mock.Anything, mock.Anything)
}

func TestReconcile_OrderNotFound(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	mockStore.EXPECT().
		UpdatePaidAndFetch(mock.Anything, "ord_missing").
		Return(nil, fmt.Errorf("order ord_missing: %w", models.ErrOrderNotFound)).
		Once()

	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_missing"))

	assert.Equal(t, service.OutcomeOrderNotFound, result.Outcome)
	assert.Equal(t, "ord_missing", result.OrderID)
	assert.Nil(t, result.Order)
}

func TestReconcile_StoreError(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	expectedError := errors.New("connection refused")

	mockStore.EXPECT().
		UpdatePaidAndFetch(mock.Anything, "ord_42").
		Return(nil, expectedError).
		Once()

	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_42"))

	assert.Equal(t, service.OutcomeStoreUnavailable, result.Outcome)
	assert.ErrorIs(t, result.Err, expectedError)
}

func TestReconcile_StoreReturnsNilOrder(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, time.Second)

	mockStore.EXPECT().
		UpdatePaidAndFetch(mock.Anything, "ord_42").
		Return(nil, nil).
		Once()

	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_42"))

	assert.Equal(t, service.OutcomeStoreUnavailable, result.Outcome)
	assert.Error(t, result.Err)
}

func TestReconcile_StoreCallIsBounded(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)
	reconciler := service.NewOrderReconciler(mockStore, 20*time.Millisecond)

	mockStore.EXPECT().
		UpdatePaidAndFetch(mock.Anything, "ord_42").
		RunAndReturn(func(ctx context.Context, orderID string) (*models.Order, error) {
			_, hasDeadline := ctx.Deadline()
			assert.True(t, hasDeadline)
			<-ctx.Done()
			return nil, ctx.Err()
		}).
		Once()

	start := time.Now()
	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_42"))

	assert.Equal(t, service.OutcomeStoreUnavailable, result.Outcome)
	assert.ErrorIs(t, result.Err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestReconcile_CancelledRequest(t *testing.T) {
	store := memory.NewOrderStore([]models.Order{pendingOrder()}, memory.WithLatency(time.Second))
	reconciler := service.NewOrderReconciler(store, 5*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := reconciler.Reconcile(ctx, checkoutCompleted("ord_42"))

	assert.Equal(t, service.OutcomeStoreUnavailable, result.Outcome)
	stored, _ := store.Get("ord_42")
	assert.False(t, stored.IsPaid)
}

func TestReconcile_IsIdempotent(t *testing.T) {
	store := memory.NewOrderStore([]models.Order{pendingOrder()})
	reconciler := service.NewOrderReconciler(store, time.Second)
	event := checkoutCompleted("ord_42")

	first := reconciler.Reconcile(context.Background(), event)
	second := reconciler.Reconcile(context.Background(), event)

	assert.Equal(t, service.OutcomeConfirmed, first.Outcome)
	assert.Equal(t, service.OutcomeConfirmed, second.Outcome)

	stored, ok := store.Get("ord_42")
	require.True(t, ok)
	assert.True(t, stored.IsPaid)
	assert.Equal(t, pendingOrder().OrderItems, stored.OrderItems)
}

func TestReconcile_UnknownOrderLeavesStoreUnchanged(t *testing.T) {
	store := memory.NewOrderStore([]models.Order{pendingOrder()})
	reconciler := service.NewOrderReconciler(store, time.Second)

	result := reconciler.Reconcile(context.Background(), checkoutCompleted("ord_missing"))

	assert.Equal(t, service.OutcomeOrderNotFound, result.Outcome)
	stored, _ := store.Get("ord_42")
	assert.False(t, stored.IsPaid)
	assert.Equal(t, 0, store.Updates())
}

func TestReconcile_ConcurrentDeliveries(t *testing.T) {
	store := memory.NewOrderStore([]models.Order{pendingOrder()})
	reconciler := service.NewOrderReconciler(store, time.Second)
	event := checkoutCompleted("ord_42")

	results := make([]service.ReconcileResult, 2)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = reconciler.Reconcile(context.Background(), event)
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, service.OutcomeConfirmed, r.Outcome)
	}
	stored, _ := store.Get("ord_42")
	assert.True(t, stored.IsPaid)
	assert.Equal(t, pendingOrder().OrderItems, stored.OrderItems)
}

func TestNewOrderReconciler_DefaultTimeout(t *testing.T) {
	mockStore := mocks.NewMockOrderStore(t)

	reconciler := service.NewOrderReconciler(mockStore, 0)

	assert.Equal(t, 5*time.Second, reconciler.Timeout)
	assert.Equal(t, mockStore, reconciler.Store)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "confirmed", service.OutcomeConfirmed.String())
	assert.Equal(t, "not_applicable", service.OutcomeNotApplicable.String())
	assert.Equal(t, "order_not_found", service.OutcomeOrderNotFound.String())
	assert.Equal(t, "store_unavailable", service.OutcomeStoreUnavailable.String())
}
