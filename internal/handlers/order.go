package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/models"
)

type OrderHandler struct {
	DB *gorm.DB
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	var orders []models.Order
	if err := h.DB.WithContext(c.Request().Context()).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Failed to fetch orders")
	}
	return c.JSON(http.StatusOK, orders)
}
