package payments

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// placeholderMarker is the value shipped in the example .env; a key containing
// it counts as "not configured" and switches the whole flow to demo mode.
const placeholderMarker = "your_stripe_secret_key_here"

var shippingCountries = []string{"US", "CA", "GB", "AU", "IN", "HK"}

type Client struct {
	api            *client.API
	secretKey      string
	PublishableKey string
	WebhookSecret  string
}

func New(secretKey, publishableKey, webhookSecret string) *Client {
	c := &Client{
		secretKey:      secretKey,
		PublishableKey: publishableKey,
		WebhookSecret:  webhookSecret,
	}
	if c.Configured() {
		c.api = &client.API{}
		c.api.Init(secretKey, nil)
	}
	return c
}

func (c *Client) Configured() bool {
	return c.secretKey != "" && !strings.Contains(c.secretKey, placeholderMarker)
}

type SessionLineItem struct {
	Name        string
	Description string
	Images      []string
	Currency    string
	UnitAmount  int64
	Quantity    int64
}

// CreateCheckoutSession creates a hosted card-payment session. Line items are
// forwarded verbatim from the checkout request.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []SessionLineItem, successURL, cancelURL string) (*stripe.CheckoutSession, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		currency := it.Currency
		if currency == "" {
			currency = "usd"
		}
		productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(it.Name),
		}
		if it.Description != "" {
			productData.Description = stripe.String(it.Description)
		}
		if len(it.Images) > 0 {
			productData.Images = stripe.StringSlice(it.Images)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			Quantity: stripe.Int64(it.Quantity),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				UnitAmount:  stripe.Int64(it.UnitAmount),
				ProductData: productData,
			},
		})
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes:       stripe.StringSlice([]string{"card"}),
		LineItems:                lineItems,
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:               stripe.String(successURL),
		CancelURL:                stripe.String(cancelURL),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionAuto)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(shippingCountries),
		},
	}
	params.Context = ctx

	return c.api.CheckoutSessions.New(params)
}

// ParseWebhook verifies the notification against the shared signing secret.
// Without a secret the payload is parsed unverified; callers are expected to
// log that this fallback is active.
func (c *Client) ParseWebhook(payload []byte, signature string) (stripe.Event, error) {
	if c.WebhookSecret != "" {
		return webhook.ConstructEvent(payload, signature, c.WebhookSecret)
	}

	var event stripe.Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return stripe.Event{}, err
	}
	return event, nil
}

// ErrorDetails extracts the upstream message and code when err came from the
// Stripe API, for the diagnostic fields of checkout failure responses.
func ErrorDetails(err error) (message, code string) {
	if stripeErr, ok := err.(*stripe.Error); ok {
		return stripeErr.Msg, string(stripeErr.Code)
	}
	return err.Error(), ""
}
