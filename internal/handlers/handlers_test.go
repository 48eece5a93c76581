package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/models"
	"github.com/shremyagupta/simple-ecommerce/internal/mykafka"
	"github.com/shremyagupta/simple-ecommerce/internal/payments"
)

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *gorm.DB
	P        *ProductHandler
	O        *OrderHandler
	C        *CheckoutHandler
	H        *HealthHandler
	Producer *mykafka.Producer
}

func InitTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	return newTestEnvWith(t, "", "", false)
}

func newTestEnvWith(t *testing.T, stripeKey, webhookSecret string, demoStockCheck bool) *testEnv {
	db := InitTestDB(t)
	stripeClient := payments.New(stripeKey, "pk_test_env", webhookSecret)

	env := &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
	}

	env.P = &ProductHandler{DB: db, Producer: env.Producer}
	env.O = &OrderHandler{DB: db}
	env.C = &CheckoutHandler{
		DB:             db,
		Producer:       env.Producer,
		Stripe:         stripeClient,
		DemoStockCheck: demoStockCheck,
	}
	env.H = &HealthHandler{DB: db, Stripe: stripeClient}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createProduct(name string, price float64, stock int) *models.Product {
	prod := &models.Product{
		Name:        name,
		Description: name + " description",
		Price:       price,
		Image:       "/images/" + name + ".svg",
		Category:    "Electronics",
		Stock:       stock,
	}
	require.NoError(env.T, env.DB.Create(prod).Error)
	return prod
}

func (env *testEnv) productStock(id uint) int {
	var prod models.Product
	require.NoError(env.T, env.DB.First(&prod, id).Error)
	return prod.Stock
}

func (env *testEnv) orderBySession(sessionID string) *models.Order {
	var order models.Order
	require.NoError(env.T, env.DB.Preload("Items").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error)
	return &order
}

func checkoutRequestFor(products []*models.Product, quantities []int) CheckoutRequest {
	var req CheckoutRequest
	for i, p := range products {
		var li CheckoutLineItem
		li.PriceData.Currency = "usd"
		li.PriceData.UnitAmount = int64(p.Price * 100)
		li.PriceData.ProductData.Name = p.Name
		li.PriceData.ProductData.Description = p.Description
		li.PriceData.ProductData.Images = []string{p.Image}
		li.Quantity = quantities[i]
		req.LineItems = append(req.LineItems, li)
		req.ProductMetadata = append(req.ProductMetadata, ProductMetadata{
			ProductID: p.ID,
			Quantity:  quantities[i],
		})
	}
	return req
}
