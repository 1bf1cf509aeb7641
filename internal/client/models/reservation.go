package models

import (
	"errors"
	"time"
)

// ReservationStatus follows the owner approval workflow:
// PENDING -> APPROVED | REJECTED, and any non-final state -> CANCELLED.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "PENDING"
	ReservationApproved  ReservationStatus = "APPROVED"
	ReservationRejected  ReservationStatus = "REJECTED"
	ReservationCancelled ReservationStatus = "CANCELLED"
)

var (
	ErrReservationWindow = errors.New("reservation must end after it starts")
	ErrReservationCourt  = errors.New("reservation must reference a court")
)

type Reservation struct {
	ID        string            `json:"id"`
	CourtID   string            `json:"courtId"`
	CourtName string            `json:"courtName,omitempty"`
	UserID    string            `json:"userId"`
	StartsAt  time.Time         `json:"startsAt"`
	EndsAt    time.Time         `json:"endsAt"`
	Status    ReservationStatus `json:"status"`
	Note      string            `json:"note,omitempty"`
}

// ReservationRequest is the body of POST /reservations.
type ReservationRequest struct {
	CourtID  string    `json:"courtId"`
	StartsAt time.Time `json:"startsAt"`
	EndsAt   time.Time `json:"endsAt"`
	Note     string    `json:"note,omitempty"`
}

// Validate performs the checks the booking form does before submitting.
func (r ReservationRequest) Validate() error {
	if r.CourtID == "" {
		return ErrReservationCourt
	}
	if !r.EndsAt.After(r.StartsAt) {
		return ErrReservationWindow
	}
	return nil
}

// ReservationDecision is the body of the owner approve/reject endpoints.
type ReservationDecision struct {
	Reason string `json:"reason,omitempty"`
}
