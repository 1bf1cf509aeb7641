package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

func (a *App) Billing(ctx context.Context, _ []string) error {
	if err := a.enter(ctx, "/billing"); err != nil {
		return err
	}
	inv, err := a.api.BillingHistory(ctx)
	if err != nil {
		return err
	}
	printInvoices(a.out, inv)
	return nil
}

// Checkout opens an embedded checkout session and prints what the hosted
// payment page needs.
func (a *App) Checkout(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return usage("checkout <price-id> [return-url]")
	}
	if err := a.enter(ctx, "/billing/checkout"); err != nil {
		return err
	}

	req := models.CheckoutRequest{PriceID: args[0]}
	if len(args) > 1 {
		req.ReturnURL = args[1]
	}
	s, err := a.api.CreateCheckoutSession(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Checkout session: %s\nClient secret:    %s\n", s.SessionID, s.ClientSecret)
	return nil
}

func (a *App) Subscription(ctx context.Context, _ []string) error {
	if err := a.enter(ctx, "/billing"); err != nil {
		return err
	}
	s, err := a.api.CurrentSubscription(ctx)
	if err != nil {
		return err
	}
	printSubscription(a.out, s)
	return nil
}

func (a *App) CancelSubscription(ctx context.Context, _ []string) error {
	if err := a.enter(ctx, "/billing"); err != nil {
		return err
	}
	s, err := a.api.CancelSubscription(ctx)
	if err != nil {
		return err
	}
	printSubscription(a.out, s)
	return nil
}

func (a *App) Notifications(ctx context.Context, _ []string) error {
	if err := a.enter(ctx, "/notifications"); err != nil {
		return err
	}
	ns, err := a.api.Notifications(ctx)
	if err != nil {
		return err
	}
	printNotifications(a.out, ns)
	return nil
}

func (a *App) Read(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("read <notification-id>")
	}
	if err := a.enter(ctx, "/notifications"); err != nil {
		return err
	}
	if err := a.api.MarkNotificationRead(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Marked as read.")
	return nil
}
