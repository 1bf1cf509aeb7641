package models

import "time"

// Invoice is one line of the billing history.
type Invoice struct {
	ID          string    `json:"id"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Subscription is the owner's plan with the payment processor.
type Subscription struct {
	ID               string    `json:"id"`
	Plan             string    `json:"plan"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"currentPeriodEnd"`
	CancelAtPeriod   bool      `json:"cancelAtPeriodEnd"`
}

// CheckoutRequest asks the backend to open an embedded checkout session.
type CheckoutRequest struct {
	PriceID   string `json:"priceId"`
	ReturnURL string `json:"returnUrl,omitempty"`
}

// CheckoutSession carries what the hosted checkout UI needs.
type CheckoutSession struct {
	SessionID    string `json:"sessionId"`
	ClientSecret string `json:"clientSecret"`
}

// DashboardSummary feeds the owner dashboard.
type DashboardSummary struct {
	Courts              int   `json:"courts"`
	PendingReservations int   `json:"pendingReservations"`
	UpcomingBookings    int   `json:"upcomingBookings"`
	RevenueCents        int64 `json:"revenueCents"`
}
