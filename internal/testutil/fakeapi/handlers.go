package fakeapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

func (s *Server) listCourts(w http.ResponseWriter, r *http.Request) {
	city, sport := r.URL.Query().Get("city"), r.URL.Query().Get("sport")

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Court, 0, len(s.courts))
	for _, c := range s.courts {
		if city != "" && c.City != city {
			continue
		}
		if sport != "" && c.Sport != sport {
			continue
		}
		out = append(out, c)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getCourt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courts {
		if c.ID == id {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, r, http.StatusNotFound, "not_found", "court not found")
}

func (s *Server) courtLocked(id string) (models.Court, bool) {
	for _, c := range s.courts {
		if c.ID == id {
			return c, true
		}
	}
	return models.Court{}, false
}

func (s *Server) myReservations(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Reservation{}
	for _, res := range s.reservations {
		if res.UserID == uid {
			out = append(out, *res)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	court, ok := s.courtLocked(req.CourtID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "court not found")
		return
	}
	for _, other := range s.reservations {
		if other.CourtID == req.CourtID && other.Status != models.ReservationCancelled &&
			other.Status != models.ReservationRejected &&
			req.StartsAt.Before(other.EndsAt) && other.StartsAt.Before(req.EndsAt) {
			writeError(w, r, http.StatusConflict, "conflict", "slot already taken")
			return
		}
	}

	res := &models.Reservation{
		ID:        uuid.NewString(),
		CourtID:   court.ID,
		CourtName: court.Name,
		UserID:    userFrom(r).user.ID,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
		Status:    models.ReservationPending,
		Note:      req.Note,
	}
	s.reservations[res.ID] = res
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) cancelReservation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.reservations[id]
	if !ok || res.UserID != userFrom(r).user.ID {
		writeError(w, r, http.StatusNotFound, "not_found", "reservation not found")
		return
	}
	if res.Status == models.ReservationCancelled || res.Status == models.ReservationRejected {
		writeError(w, r, http.StatusConflict, "conflict", "reservation already closed")
		return
	}
	res.Status = models.ReservationCancelled
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) ownerReservations(w http.ResponseWriter, r *http.Request) {
	status := models.ReservationStatus(r.URL.Query().Get("status"))
	owner := userFrom(r).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Reservation{}
	for _, res := range s.reservations {
		court, _ := s.courtLocked(res.CourtID)
		if court.OwnerID != owner || (status != "" && res.Status != status) {
			continue
		}
		out = append(out, *res)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) decide(to models.ReservationStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dec models.ReservationDecision
		if r.ContentLength > 0 && !decode(w, r, &dec) {
			return
		}
		id := chi.URLParam(r, "id")

		s.mu.Lock()
		defer s.mu.Unlock()

		res, ok := s.reservations[id]
		if ok {
			court, _ := s.courtLocked(res.CourtID)
			ok = court.OwnerID == userFrom(r).user.ID
		}
		if !ok {
			writeError(w, r, http.StatusNotFound, "not_found", "reservation not found")
			return
		}
		if res.Status != models.ReservationPending {
			writeError(w, r, http.StatusConflict, "conflict", "reservation is not pending")
			return
		}
		res.Status = to
		if dec.Reason != "" {
			res.Note = dec.Reason
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	owner := userFrom(r).user.ID
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var d models.DashboardSummary
	for _, c := range s.courts {
		if c.OwnerID == owner {
			d.Courts++
		}
	}
	for _, res := range s.reservations {
		court, _ := s.courtLocked(res.CourtID)
		if court.OwnerID != owner {
			continue
		}
		switch res.Status {
		case models.ReservationPending:
			d.PendingReservations++
		case models.ReservationApproved:
			if res.StartsAt.After(now) {
				d.UpcomingBookings++
			}
			d.RevenueCents += int64(court.PricePerHour*res.EndsAt.Sub(res.StartsAt).Hours()) * 100
		}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) billingHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, []models.Invoice{{
		ID:          "in_1",
		AmountCents: 1999,
		Currency:    "eur",
		Status:      "paid",
		Description: "Owner plan",
		CreatedAt:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}})
}

func (s *Server) checkoutSession(w http.ResponseWriter, r *http.Request) {
	var req models.CheckoutRequest
	if !decode(w, r, &req) {
		return
	}
	if req.PriceID == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "priceId is required")
		return
	}
	id := "cs_test_" + uuid.NewString()
	writeJSON(w, http.StatusOK, models.CheckoutSession{SessionID: id, ClientSecret: id + "_secret"})
}

func (s *Server) currentSubscription(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[uid]
	if !ok {
		sub = &models.Subscription{
			ID:               "sub_" + uid,
			Plan:             "owner-monthly",
			Status:           "active",
			CurrentPeriodEnd: time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		}
		s.subscriptions[uid] = sub
	}
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) cancelSubscription(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subscriptions[uid]
	if !ok {
		writeError(w, r, http.StatusNotFound, "not_found", "no subscription")
		return
	}
	sub.CancelAtPeriod = true
	writeJSON(w, http.StatusOK, sub)
}

func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	uid := userFrom(r).user.ID

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Notification{}
	for _, n := range s.notifications[uid] {
		out = append(out, *n)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) readNotification(w http.ResponseWriter, r *http.Request) {
	uid, id := userFrom(r).user.ID, chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[uid] {
		if n.ID == id {
			n.Read = true
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeError(w, r, http.StatusNotFound, "not_found", "notification not found")
}
