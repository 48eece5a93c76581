package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/models"
	"github.com/shremyagupta/simple-ecommerce/internal/mykafka"
	"github.com/shremyagupta/simple-ecommerce/internal/payments"
)

// demoSessionPrefix is the naming convention for simulated checkout sessions.
// Demo completion rejects any session identifier without it.
const demoSessionPrefix = "cs_demo_"

type CheckoutHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	Stripe   *payments.Client

	// DemoStockCheck enables the stock pre-check in simulated mode.
	// Off by default: demo checkouts normally accept any quantity.
	DemoStockCheck bool
}

type CheckoutLineItem struct {
	PriceData struct {
		Currency    string `json:"currency"`
		UnitAmount  int64  `json:"unit_amount"`
		ProductData struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Images      []string `json:"images"`
		} `json:"product_data"`
	} `json:"price_data"`
	Quantity int `json:"quantity"`
}

type ProductMetadata struct {
	ProductID uint `json:"productId"`
	Quantity  int  `json:"quantity"`
}

type CheckoutRequest struct {
	LineItems       []CheckoutLineItem `json:"line_items"`
	ProductMetadata []ProductMetadata  `json:"product_metadata"`
	SuccessURL      string             `json:"success_url"`
	CancelURL       string             `json:"cancel_url"`
}

func (h *CheckoutHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["sessionID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if len(req.LineItems) == 0 {
		return errorResponse(c, http.StatusBadRequest, "line_items is required")
	}

	if !h.Stripe.Configured() {
		return h.createDemoSession(c, req)
	}
	return h.createLiveSession(c, req)
}

// checkStock rejects the request if any referenced product is missing or has
// less stock than requested. A check only: nothing reserves the stock between
// here and settlement, so concurrent checkouts can still race past it.
func (h *CheckoutHandler) checkStock(c echo.Context, metadata []ProductMetadata) error {
	ctx := c.Request().Context()
	for _, md := range metadata {
		if md.ProductID == 0 {
			continue
		}
		var p models.Product
		if err := h.DB.WithContext(ctx).First(&p, md.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errorResponse(c, http.StatusBadRequest, fmt.Sprintf("Product not found: %d", md.ProductID))
			}
			return h.checkoutFailure(c, err)
		}
		if p.Stock < md.Quantity {
			return errorResponse(c, http.StatusBadRequest,
				fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, p.Stock))
		}
	}
	return nil
}

func (h *CheckoutHandler) createDemoSession(c echo.Context, req CheckoutRequest) error {
	if h.DemoStockCheck {
		if err := h.checkStock(c, req.ProductMetadata); err != nil {
			return err
		}
	}

	sessionID := demoSessionPrefix + uuid.NewString()

	items := make([]models.OrderItem, 0, len(req.LineItems))
	for i, li := range req.LineItems {
		item := models.OrderItem{
			Name:     li.PriceData.ProductData.Name,
			Price:    float64(li.PriceData.UnitAmount) / 100,
			Quantity: li.Quantity,
		}
		if len(li.PriceData.ProductData.Images) > 0 {
			item.Image = li.PriceData.ProductData.Images[0]
		}
		if i < len(req.ProductMetadata) {
			item.ProductID = req.ProductMetadata[i].ProductID
		}
		items = append(items, item)
	}

	order := models.Order{
		Items:           items,
		TotalAmount:     orderTotal(items),
		StripeSessionID: sessionID,
		Status:          models.OrderStatusPending,
	}
	if err := h.DB.WithContext(c.Request().Context()).Create(&order).Error; err != nil {
		return h.checkoutFailure(c, err)
	}

	h.publish(c, map[string]any{
		"type":      "order_created",
		"sessionID": sessionID,
		"orderID":   order.ID,
		"total":     order.TotalAmount,
		"demo":      true,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"id":      sessionID,
		"demo":    true,
		"message": "Demo mode - no real payment will be processed",
	})
}

func (h *CheckoutHandler) createLiveSession(c echo.Context, req CheckoutRequest) error {
	ctx := c.Request().Context()

	if err := h.checkStock(c, req.ProductMetadata); err != nil {
		return err
	}

	origin := c.Request().Header.Get("Origin")
	successURL := req.SuccessURL
	if successURL == "" {
		successURL = origin + "/success?session_id={CHECKOUT_SESSION_ID}"
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = origin + "/cart"
	}

	sessionItems := make([]payments.SessionLineItem, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		sessionItems = append(sessionItems, payments.SessionLineItem{
			Name:        li.PriceData.ProductData.Name,
			Description: li.PriceData.ProductData.Description,
			Images:      li.PriceData.ProductData.Images,
			Currency:    li.PriceData.Currency,
			UnitAmount:  li.PriceData.UnitAmount,
			Quantity:    int64(li.Quantity),
		})
	}

	session, err := h.Stripe.CreateCheckoutSession(ctx, sessionItems, successURL, cancelURL)
	if err != nil {
		return h.checkoutFailure(c, err)
	}

	// Denormalized snapshot: re-fetch each referenced product, falling back
	// to the request-supplied values when the lookup fails.
	items := make([]models.OrderItem, 0, len(req.LineItems))
	for i, li := range req.LineItems {
		item := models.OrderItem{
			Name:     li.PriceData.ProductData.Name,
			Price:    float64(li.PriceData.UnitAmount) / 100,
			Quantity: li.Quantity,
		}
		if len(li.PriceData.ProductData.Images) > 0 {
			item.Image = li.PriceData.ProductData.Images[0]
		}
		if i < len(req.ProductMetadata) && req.ProductMetadata[i].ProductID != 0 {
			item.ProductID = req.ProductMetadata[i].ProductID
			var p models.Product
			if err := h.DB.WithContext(ctx).First(&p, item.ProductID).Error; err == nil {
				item.Name = p.Name
				item.Price = p.Price
				item.Image = p.Image
			} else {
				c.Logger().Errorf("product lookup for order item failed: %v", err)
			}
		}
		items = append(items, item)
	}

	order := models.Order{
		Items:           items,
		TotalAmount:     orderTotal(items),
		StripeSessionID: session.ID,
		Status:          models.OrderStatusPending,
	}
	if err := h.DB.WithContext(ctx).Create(&order).Error; err != nil {
		return h.checkoutFailure(c, err)
	}

	h.publish(c, map[string]any{
		"type":      "order_created",
		"sessionID": session.ID,
		"orderID":   order.ID,
		"total":     order.TotalAmount,
	})

	return c.JSON(http.StatusOK, echo.Map{"id": session.ID})
}

func (h *CheckoutHandler) checkoutFailure(c echo.Context, err error) error {
	message, code := payments.ErrorDetails(err)
	c.Logger().Errorf("checkout session error: %s (code=%s)", message, code)
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":      "Failed to create checkout session",
		"details":    message,
		"suggestion": "Please check your Stripe API keys in the .env file",
	})
}

// CompleteDemoCheckout is the synchronous settlement path for simulated
// sessions. It must end in the same state a completed-session webhook would.
func (h *CheckoutHandler) CompleteDemoCheckout(c echo.Context) error {
	var req struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, "invalid request body")
	}
	if !strings.HasPrefix(req.SessionID, demoSessionPrefix) {
		return errorResponse(c, http.StatusBadRequest, "Invalid demo session")
	}

	order, err := h.settleCompleted(c.Request().Context(), req.SessionID, "demo@example.com")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusNotFound, "Order not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "order_completed",
		"sessionID": req.SessionID,
		"orderID":   order.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"success": true, "order": order})
}

// settleCompleted marks the order completed and applies its inventory effect.
// The decrement is unconditional and not idempotent: settling the same session
// twice decrements twice. Shared by the demo and webhook paths so both end in
// equivalent states.
func (h *CheckoutHandler) settleCompleted(ctx context.Context, sessionID, email string) (*models.Order, error) {
	var order models.Order
	if err := h.DB.WithContext(ctx).
		Preload("Items").
		Where("stripe_session_id = ?", sessionID).
		First(&order).Error; err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCompleted
	order.CustomerEmail = email
	if err := h.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("stripe_session_id = ?", sessionID).
		Updates(map[string]any{
			"status":         models.OrderStatusCompleted,
			"customer_email": email,
		}).Error; err != nil {
		return nil, err
	}

	for _, item := range order.Items {
		if item.ProductID == 0 {
			continue
		}
		if err := h.DB.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
			return nil, err
		}
	}

	return &order, nil
}

// settleExpired cancels the order. Stock is untouched: nothing was reserved.
func (h *CheckoutHandler) settleExpired(ctx context.Context, sessionID string) error {
	return h.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("stripe_session_id = ?", sessionID).
		Update("status", models.OrderStatusCancelled).Error
}

func orderTotal(items []models.OrderItem) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}
