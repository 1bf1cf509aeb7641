package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

func (c *HTTPClient) BillingHistory(ctx context.Context) ([]models.Invoice, error) {
	var inv []models.Invoice
	err := c.do(ctx, request{method: http.MethodGet, path: "/billing/history", out: &inv})
	return inv, err
}

// CreateCheckoutSession opens an embedded checkout session with the payment
// processor via the backend. The returned client secret is handed to the
// hosted checkout UI.
func (c *HTTPClient) CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error) {
	var s models.CheckoutSession
	err := c.do(ctx, request{method: http.MethodPost, path: "/billing/checkout-session", body: req, out: &s})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) CurrentSubscription(ctx context.Context) (*models.Subscription, error) {
	var s models.Subscription
	if err := c.do(ctx, request{method: http.MethodGet, path: "/subscriptions/current", out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) CancelSubscription(ctx context.Context) (*models.Subscription, error) {
	var s models.Subscription
	if err := c.do(ctx, request{method: http.MethodPost, path: "/subscriptions/current/cancel", out: &s}); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Notifications(ctx context.Context) ([]models.Notification, error) {
	var ns []models.Notification
	err := c.do(ctx, request{method: http.MethodGet, path: "/notifications", out: &ns})
	return ns, err
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/notifications/" + url.PathEscape(id) + "/read"})
}
