package handlers_test

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jeffleon2/draftea-storefront-service/internal/handlers"
	"github.com/jeffleon2/draftea-storefront-service/internal/handlers/mocks"
	"github.com/jeffleon2/draftea-storefront-service/internal/metrics"
	"github.com/jeffleon2/draftea-storefront-service/internal/models"
	"github.com/jeffleon2/draftea-storefront-service/internal/repository/memory"
	"github.com/jeffleon2/draftea-storefront-service/internal/service"
	"github.com/jeffleon2/draftea-storefront-service/internal/verifier"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const (
	testSecret   = "whsec_test_secret"
	webhookPath  = "/api/webhook"
	checkoutBody = `{"type":"checkout.session.completed","data":{"object":{"metadata":{"orderId":"ord_42"}}}}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

func sign(body string, ts time.Time) string {
	sig := webhook.ComputeSignature(ts, []byte(body), testSecret)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(sig))
}

func pendingOrder() models.Order {
	return models.Order{
		ID: "ord_42",
		OrderItems: []models.OrderItem{
			{ID: "item-1", OrderID: "ord_42", ProductID: "prod-1"},
		},
	}
}

type testEnv struct {
	router   *gin.Engine
	store    *memory.OrderStore
	notifier *mocks.MockOrderPaidNotifier
}

func newTestEnv(t *testing.T, storeTimeout time.Duration, opts ...memory.Option) *testEnv {
	t.Helper()

	store := memory.NewOrderStore([]models.Order{pendingOrder()}, opts...)
	notifier := mocks.NewMockOrderPaidNotifier(t)
	h := handlers.NewWebhookHandler(
		verifier.New(testSecret, 0),
		service.NewOrderReconciler(store, storeTimeout),
		notifier,
		0,
		time.Second,
	)

	router := gin.New()
	router.POST(webhookPath, h.HandleStripeWebhook)

	return &testEnv{router: router, store: store, notifier: notifier}
}

func (e *testEnv) post(body string, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, webhookPath, strings.NewReader(body))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWebhook_ConfirmsOrder(t *testing.T) {
	env := newTestEnv(t, time.Second)
	before := testutil.ToFloat64(metrics.WebhookEventsTotal.WithLabelValues("confirmed"))

	env.notifier.EXPECT().
		NotifyOrderPaid(mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
			return o.ID == "ord_42" && o.IsPaid && len(o.OrderItems) == 1
		}), mock.AnythingOfType("models.PaymentEvent")).
		Return(nil).
		Once()

	w := env.post(checkoutBody, sign(checkoutBody, time.Unix(123, 0)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", decode(t, w)["status"])
	stored, _ := env.store.Get("ord_42")
	assert.True(t, stored.IsPaid)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.WebhookEventsTotal.WithLabelValues("confirmed")))
}

func TestWebhook_RedeliveryStaysPaid(t *testing.T) {
	env := newTestEnv(t, time.Second)
	signature := sign(checkoutBody, time.Unix(123, 0))

	env.notifier.EXPECT().
		NotifyOrderPaid(mock.Anything, mock.Anything, mock.Anything).
		Return(nil).
		Twice()

	first := env.post(checkoutBody, signature)
	second := env.post(checkoutBody, signature)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
	stored, _ := env.store.Get("ord_42")
	assert.True(t, stored.IsPaid)
	assert.Len(t, stored.OrderItems, 1)
}

func TestWebhook_MissingSignature(t *testing.T) {
	env := newTestEnv(t, time.Second)

	w := env.post(checkoutBody, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "missing stripe signature", decode(t, w)["error"])
	stored, _ := env.store.Get("ord_42")
	assert.False(t, stored.IsPaid)
	assert.Equal(t, 0, env.store.Updates())
}

func TestWebhook_InvalidSignature(t *testing.T) {
	env := newTestEnv(t, time.Second)
	tampered := strings.Replace(checkoutBody, "ord_42", "ord_43", 1)

	w := env.post(tampered, sign(checkoutBody, time.Unix(123, 0)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "webhook error", decode(t, w)["error"])
	assert.Equal(t, 0, env.store.Updates())
}

func TestWebhook_MalformedPayload(t *testing.T) {
	env := newTestEnv(t, time.Second)
	body := `{"type":`

	w := env.post(body, sign(body, time.Unix(123, 0)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "malformed payload", decode(t, w)["error"])
}

func TestWebhook_IgnoresOtherEvents(t *testing.T) {
	env := newTestEnv(t, time.Second)
	body := `{"type":"payment_intent.created","data":{"object":{"metadata":{"orderId":"ord_42"}}}}`

	w := env.post(body, sign(body, time.Unix(123, 0)))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "ignored", resp["status"])
	assert.Equal(t, "payment_intent.created", resp["type"])
	assert.Equal(t, 0, env.store.Updates())
}

func TestWebhook_UnknownOrder(t *testing.T) {
	env := newTestEnv(t, time.Second)
	body := strings.Replace(checkoutBody, "ord_42", "ord_missing", 1)

	w := env.post(body, sign(body, time.Unix(123, 0)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "order not found", resp["error"])
	assert.Equal(t, "ord_missing", resp["orderId"])
	assert.Equal(t, 0, env.store.Updates())
}

func TestWebhook_MissingOrderMetadata(t *testing.T) {
	env := newTestEnv(t, time.Second)
	body := `{"type":"checkout.session.completed","data":{"object":{"metadata":{}}}}`

	w := env.post(body, sign(body, time.Unix(123, 0)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "order not found", decode(t, w)["error"])
}

func TestWebhook_StoreTimeout(t *testing.T) {
	env := newTestEnv(t, 20*time.Millisecond, memory.WithLatency(time.Second))

	w := env.post(checkoutBody, sign(checkoutBody, time.Unix(123, 0)))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "database error", decode(t, w)["error"])
	stored, _ := env.store.Get("ord_42")
	assert.False(t, stored.IsPaid)
	assert.Equal(t, 0, env.store.Updates())
}

func TestWebhook_NotifierFailureKeepsSuccess(t *testing.T) {
	env := newTestEnv(t, time.Second)

	env.notifier.EXPECT().
		NotifyOrderPaid(mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("kafka publish error")).
		Once()

	w := env.post(checkoutBody, sign(checkoutBody, time.Unix(123, 0)))

	assert.Equal(t, http.StatusOK, w.Code)
	stored, _ := env.store.Get("ord_42")
	assert.True(t, stored.IsPaid)
}

func TestWebhook_NotifierGetsBoundedContext(t *testing.T) {
	env := newTestEnv(t, time.Second)

	env.notifier.EXPECT().
		NotifyOrderPaid(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, o *models.Order, e models.PaymentEvent) error {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			assert.Equal(t, "ord_42", e.OrderID)
			return nil
		}).
		Once()

	w := env.post(checkoutBody, sign(checkoutBody, time.Unix(123, 0)))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWebhook_BodyTooLarge(t *testing.T) {
	store := memory.NewOrderStore([]models.Order{pendingOrder()})
	h := handlers.NewWebhookHandler(
		verifier.New(testSecret, 0),
		service.NewOrderReconciler(store, time.Second),
		nil,
		16,
		time.Second,
	)
	router := gin.New()
	router.POST(webhookPath, h.HandleStripeWebhook)

	req := httptest.NewRequest(http.MethodPost, webhookPath, strings.NewReader(checkoutBody))
	req.Header.Set("Stripe-Signature", sign(checkoutBody, time.Unix(123, 0)))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, store.Updates())
}

func TestWebhook_OnlyPost(t *testing.T) {
	env := newTestEnv(t, time.Second)

	req := httptest.NewRequest(http.MethodGet, webhookPath, nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	router := gin.New()
	router.GET("/healthz", handlers.Health)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
