package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/es"
	"github.com/shremyagupta/simple-ecommerce/internal/models"
	"github.com/shremyagupta/simple-ecommerce/internal/mykafka"
)

const (
	defaultCategory = "Electronics"
	defaultStock    = 100
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Indexer  *es.Indexer
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, echo.Map{"error": message})
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	var products []models.Product
	if err := h.DB.WithContext(c.Request().Context()).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Failed to fetch products")
	}
	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid product id")
	}

	var product models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "Product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "Failed to fetch product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Image       string  `json:"image"`
		Category    *string `json:"category"`
		Stock       *int    `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Name == "" || req.Description == "" {
		return errorResponse(c, http.StatusBadRequest, "name and description are required")
	}
	if req.Price < 0 {
		return errorResponse(c, http.StatusBadRequest, "price cannot be negative")
	}

	prod := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    defaultCategory,
		Stock:       defaultStock,
	}
	if req.Category != nil {
		prod.Category = *req.Category
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return errorResponse(c, http.StatusBadRequest, "stock cannot be negative")
		}
		prod.Stock = *req.Stock
	}

	if err := h.DB.WithContext(c.Request().Context()).Create(&prod).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Failed to create product")
	}

	h.Indexer.IndexProduct(c.Request().Context(), &prod)

	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.Name,
	})

	return c.JSON(http.StatusCreated, prod)
}

// UpdateStock sets the absolute stock level. This is the only mutation of a
// product's stock outside of order settlement.
func (h *ProductHandler) UpdateStock(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Stock *int `json:"stock"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if req.Stock == nil {
		return errorResponse(c, http.StatusBadRequest, "stock is required")
	}
	if *req.Stock < 0 {
		return errorResponse(c, http.StatusBadRequest, "stock cannot be negative")
	}

	var prod models.Product
	if err := h.DB.WithContext(c.Request().Context()).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "Product not found")
		}
		return errorResponse(c, http.StatusInternalServerError, "Failed to update stock")
	}

	prod.Stock = *req.Stock
	if err := h.DB.WithContext(c.Request().Context()).Save(&prod).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, "Failed to update stock")
	}

	h.publish(c, map[string]any{
		"type":      "stock_updated",
		"productID": prod.ID,
		"stock":     prod.Stock,
	})

	return c.JSON(http.StatusOK, prod)
}
