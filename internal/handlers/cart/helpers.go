package cart

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	cartCookieName = "cartToken"
	cartCookieAge  = 7 * 24 * time.Hour
)

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", event["cartToken"].(string), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// cartToken returns the caller's cart token, minting one and setting the
// cookie when absent. The token scopes the cart; there is no user account
// behind it.
func cartToken(c echo.Context) string {
	if cookie, err := c.Cookie(cartCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	token := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     cartCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cartCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}
