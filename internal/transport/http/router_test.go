package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/cartstore"
	"github.com/shremyagupta/simple-ecommerce/internal/handlers"
	"github.com/shremyagupta/simple-ecommerce/internal/handlers/cart"
	"github.com/shremyagupta/simple-ecommerce/internal/models"
	"github.com/shremyagupta/simple-ecommerce/internal/payments"
)

const productPayload = `{"name":"USB-C Hub","description":"Multi-port hub","price":79.99,"image":"/images/usb-hub.svg"}`

func newTestServer(t *testing.T, adminSecret string) (*echo.Echo, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	stripeClient := payments.New("", "pk_test_router", "")

	e := echo.New()
	deps := Deps{
		DB:              db,
		ProductHandler:  &handlers.ProductHandler{DB: db},
		OrderHandler:    &handlers.OrderHandler{DB: db},
		CheckoutHandler: &handlers.CheckoutHandler{DB: db, Stripe: stripeClient},
		HealthHandler:   &handlers.HealthHandler{DB: db, Stripe: stripeClient},
		CartHandler:     &cart.CartHandler{DB: db, Store: cartstore.NewMemoryStore()},
		AdminSecret:     []byte(adminSecret),
	}
	Register(e, &deps)
	return e, db
}

func adminToken(t *testing.T, secret string) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestAdminGuardRejectsMissingToken(t *testing.T) {
	e, db := newTestServer(t, "admin-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(productPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var count int64
	require.NoError(t, db.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestAdminGuardRejectsStockUpdateWithoutToken(t *testing.T) {
	e, db := newTestServer(t, "admin-secret")

	prod := models.Product{Name: "hub", Description: "hub", Price: 79.99, Stock: 40}
	require.NoError(t, db.Create(&prod).Error)

	req := httptest.NewRequest(http.MethodPatch, "/api/products/1/stock", strings.NewReader(`{"stock":5}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var unchanged models.Product
	require.NoError(t, db.First(&unchanged, prod.ID).Error)
	require.Equal(t, 40, unchanged.Stock)
}

func TestAdminGuardRejectsBadToken(t *testing.T) {
	e, _ := newTestServer(t, "admin-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(productPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t, "wrong-secret"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminGuardAcceptsSignedToken(t *testing.T) {
	e, _ := newTestServer(t, "admin-secret")

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(productPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+adminToken(t, "admin-secret"))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "USB-C Hub", resp.Name)
}

// Without an admin secret the catalog mutations stay open.
func TestCatalogMutationsOpenWithoutSecret(t *testing.T) {
	e, _ := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/products", strings.NewReader(productPayload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}
