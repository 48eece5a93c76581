package cart

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shremyagupta/simple-ecommerce/internal/cartstore"
	"github.com/shremyagupta/simple-ecommerce/internal/models"
	"github.com/shremyagupta/simple-ecommerce/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Store    cartstore.Store
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	token := cartToken(c)

	items, err := h.Store.Get(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []cartstore.Item{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	token := cartToken(c)

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Product not found"})
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	items, err := h.Store.Get(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	merged := false
	for i := range items {
		if items[i].ProductID == req.ProductID {
			items[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, cartstore.Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  req.Quantity,
		})
	}

	if err := h.Store.Save(ctx, token, items); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "add_cart_items",
		"cartToken": token,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	return c.JSON(http.StatusOK, items)
}

// DeleteOneFromCart drops one unit of the product; the line disappears when
// its quantity reaches zero.
func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	token := cartToken(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	productID := uint(id)

	ctx := c.Request().Context()
	items, err := h.Store.Get(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	found := false
	out := items[:0]
	for _, it := range items {
		if it.ProductID == productID {
			found = true
			it.Quantity--
			if it.Quantity <= 0 {
				continue
			}
		}
		out = append(out, it)
	}
	if !found {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "item not found"})
	}

	if err := h.Store.Save(ctx, token, out); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "one_elem_deleted",
		"cartToken": token,
		"productID": productID,
	})

	return c.JSON(http.StatusOK, out)
}

// DeleteAllFromCart removes the whole line for a product and returns the
// remaining cart.
func (h *CartHandler) DeleteAllFromCart(c echo.Context) error {
	token := cartToken(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	productID := uint(id)

	ctx := c.Request().Context()
	items, err := h.Store.Get(ctx, token)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	remaining := make([]cartstore.Item, 0, len(items))
	for _, it := range items {
		if it.ProductID != productID {
			remaining = append(remaining, it)
		}
	}

	if err := h.Store.Save(ctx, token, remaining); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"cartToken":    token,
		"deleted_item": productID,
		"remaining":    remaining,
	})

	return c.JSON(http.StatusOK, remaining)
}
