package handlers

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v78/webhook"

	"github.com/shremyagupta/simple-ecommerce/internal/models"
)

func (env *testEnv) doWebhookRequest(payload []byte, signature string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) seedPendingOrder(sessionID string, productID uint, quantity int) {
	order := models.Order{
		Items: []models.OrderItem{{
			ProductID: productID,
			Name:      "seeded",
			Price:     10,
			Quantity:  quantity,
		}},
		TotalAmount:     10 * float64(quantity),
		StripeSessionID: sessionID,
		Status:          models.OrderStatusPending,
	}
	require.NoError(env.T, env.DB.Create(&order).Error)
}

func completedEventPayload(sessionID, email string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"checkout.session.completed","data":{"object":{"id":%q,"customer_details":{"email":%q}}}}`,
		sessionID, email,
	))
}

func expiredEventPayload(sessionID string) []byte {
	return []byte(fmt.Sprintf(
		`{"type":"checkout.session.expired","data":{"object":{"id":%q}}}`,
		sessionID,
	))
}

func TestWebhookCompletedSettlesOrder(t *testing.T) {
	env := newTestEnv(t)

	prod := env.createProduct("speaker", 59.99, 10)
	env.seedPendingOrder("cs_test_settle", prod.ID, 3)

	rec, c := env.doWebhookRequest(completedEventPayload("cs_test_settle", "buyer@example.com"), "")
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"received":true`)

	order := env.orderBySession("cs_test_settle")
	require.Equal(t, models.OrderStatusCompleted, order.Status)
	require.Equal(t, "buyer@example.com", order.CustomerEmail)
	require.Equal(t, 7, env.productStock(prod.ID))
}

func TestWebhookExpiredCancelsWithoutStockChange(t *testing.T) {
	env := newTestEnv(t)

	prod := env.createProduct("speaker", 59.99, 10)
	env.seedPendingOrder("cs_test_expire", prod.ID, 3)

	rec, c := env.doWebhookRequest(expiredEventPayload("cs_test_expire"), "")
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)

	order := env.orderBySession("cs_test_expire")
	require.Equal(t, models.OrderStatusCancelled, order.Status)
	require.Empty(t, order.CustomerEmail)
	require.Equal(t, 10, env.productStock(prod.ID))
}

func TestWebhookUnknownTypeAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	prod := env.createProduct("speaker", 59.99, 10)
	env.seedPendingOrder("cs_test_other", prod.ID, 3)

	payload := []byte(`{"type":"payment_intent.succeeded","data":{"object":{"id":"pi_123"}}}`)
	rec, c := env.doWebhookRequest(payload, "")
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"received":true`)

	order := env.orderBySession("cs_test_other")
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, 10, env.productStock(prod.ID))
}

func TestWebhookMissingOrderStillAcknowledged(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doWebhookRequest(completedEventPayload("cs_test_nobody", "x@example.com"), "")
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"received":true`)
}

func TestWebhookBadSignatureRejectedBeforeMutation(t *testing.T) {
	env := newTestEnvWith(t, "", "whsec_test_secret", false)

	prod := env.createProduct("speaker", 59.99, 10)
	env.seedPendingOrder("cs_test_sig", prod.ID, 3)

	rec, c := env.doWebhookRequest(completedEventPayload("cs_test_sig", "x@example.com"), "t=1,v1=deadbeef")
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Webhook Error")

	order := env.orderBySession("cs_test_sig")
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, 10, env.productStock(prod.ID))
}

func TestWebhookValidSignatureSettles(t *testing.T) {
	const secret = "whsec_test_secret"
	env := newTestEnvWith(t, "", secret, false)

	prod := env.createProduct("speaker", 59.99, 10)
	env.seedPendingOrder("cs_test_signed", prod.ID, 2)

	payload := completedEventPayload("cs_test_signed", "buyer@example.com")
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))

	rec, c := env.doWebhookRequest(payload, header)
	require.NoError(t, env.C.Webhook(c))
	require.Equal(t, http.StatusOK, rec.Code)

	order := env.orderBySession("cs_test_signed")
	require.Equal(t, models.OrderStatusCompleted, order.Status)
	require.Equal(t, 8, env.productStock(prod.ID))
}
