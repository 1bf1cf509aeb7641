package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

func (c *HTTPClient) MyReservations(ctx context.Context) ([]models.Reservation, error) {
	var rs []models.Reservation
	err := c.do(ctx, request{method: http.MethodGet, path: "/reservations/me", out: &rs})
	return rs, err
}

// CreateReservation validates the request locally before sending it.
func (c *HTTPClient) CreateReservation(ctx context.Context, req models.ReservationRequest) (*models.Reservation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.reservationCall(ctx, http.MethodPost, "/reservations", req)
}

func (c *HTTPClient) CancelReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return c.reservationCall(ctx, http.MethodPost, "/reservations/"+url.PathEscape(id)+"/cancel", nil)
}

// OwnerReservations lists reservations on the caller's courts. An empty
// status lists all of them.
func (c *HTTPClient) OwnerReservations(ctx context.Context, status models.ReservationStatus) ([]models.Reservation, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var rs []models.Reservation
	err := c.do(ctx, request{method: http.MethodGet, path: "/owner/reservations", query: q, out: &rs})
	return rs, err
}

func (c *HTTPClient) ApproveReservation(ctx context.Context, id string) (*models.Reservation, error) {
	return c.reservationCall(ctx, http.MethodPost, "/owner/reservations/"+url.PathEscape(id)+"/approve", nil)
}

func (c *HTTPClient) RejectReservation(ctx context.Context, id, reason string) (*models.Reservation, error) {
	return c.reservationCall(ctx, http.MethodPost, "/owner/reservations/"+url.PathEscape(id)+"/reject",
		models.ReservationDecision{Reason: reason})
}

func (c *HTTPClient) reservationCall(ctx context.Context, method, path string, body any) (*models.Reservation, error) {
	var r models.Reservation
	if err := c.do(ctx, request{method: method, path: path, body: body, out: &r}); err != nil {
		return nil, err
	}
	return &r, nil
}
