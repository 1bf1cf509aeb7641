package client

import (
	"context"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

// Client is the backend surface used by the CLI.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	RefreshSession(ctx context.Context) (string, error)

	ListCourts(ctx context.Context, f models.CourtFilter) ([]models.Court, error)
	GetCourt(ctx context.Context, id string) (*models.Court, error)

	MyReservations(ctx context.Context) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error)
	CancelReservation(ctx context.Context, id string) (*models.Reservation, error)
	OwnerReservations(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error)
	ApproveReservation(ctx context.Context, id string) (*models.Reservation, error)
	RejectReservation(ctx context.Context, id, reason string) (*models.Reservation, error)

	BillingHistory(ctx context.Context) ([]models.Invoice, error)
	CreateCheckoutSession(ctx context.Context, req models.CheckoutRequest) (*models.CheckoutSession, error)
	CurrentSubscription(ctx context.Context) (*models.Subscription, error)
	CancelSubscription(ctx context.Context) (*models.Subscription, error)

	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error

	Dashboard(ctx context.Context) (*models.DashboardSummary, error)
}

var _ Client = (*HTTPClient)(nil)
