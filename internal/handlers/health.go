package handlers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/payments"
)

type HealthHandler struct {
	DB     *gorm.DB
	Stripe *payments.Client
}

func (h *HealthHandler) Health(c echo.Context) error {
	database := "Disconnected"
	if sqlDB, err := h.DB.DB(); err == nil {
		if err := sqlDB.PingContext(c.Request().Context()); err == nil {
			database = "Connected"
		}
	}

	configured := h.Stripe.Configured()
	return c.JSON(http.StatusOK, echo.Map{
		"status":           "OK",
		"message":          "Server is running",
		"database":         database,
		"demo":             !configured,
		"stripeConfigured": configured,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

// Config exposes the publishable key for client-side Stripe initialization.
func (h *HealthHandler) Config(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"publishableKey": h.Stripe.PublishableKey,
	})
}
