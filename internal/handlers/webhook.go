package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/stripe/stripe-go/v78"
	"gorm.io/gorm"
)

// Webhook is the asynchronous settlement path. Verification failure
// short-circuits before any state mutation; every accepted notification is
// acknowledged with {"received": true} whether or not it changed anything.
func (h *CheckoutHandler) Webhook(c echo.Context) error {
	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
	}

	if h.Stripe.WebhookSecret == "" {
		c.Logger().Warn("no webhook secret configured, parsing raw event")
	}
	event, err := h.Stripe.ParseWebhook(payload, c.Request().Header.Get("Stripe-Signature"))
	if err != nil {
		c.Logger().Errorf("webhook signature verification failed: %v", err)
		return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
	}

	ctx := c.Request().Context()

	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		}
		email := ""
		if session.CustomerDetails != nil {
			email = session.CustomerDetails.Email
		}

		order, err := h.settleCompleted(ctx, session.ID, email)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.Logger().Warnf("completed session %s has no matching order", session.ID)
				break
			}
			c.Logger().Errorf("settlement failed for session %s: %v", session.ID, err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		h.publish(c, map[string]any{
			"type":      "order_completed",
			"sessionID": session.ID,
			"orderID":   order.ID,
		})

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return c.String(http.StatusBadRequest, "Webhook Error: "+err.Error())
		}
		if err := h.settleExpired(ctx, session.ID); err != nil {
			c.Logger().Errorf("cancel failed for session %s: %v", session.ID, err)
			return c.String(http.StatusInternalServerError, err.Error())
		}

		h.publish(c, map[string]any{
			"type":      "order_cancelled",
			"sessionID": session.ID,
		})

	default:
		c.Logger().Infof("unhandled event type %s", event.Type)
	}

	return c.JSON(http.StatusOK, echo.Map{"received": true})
}
