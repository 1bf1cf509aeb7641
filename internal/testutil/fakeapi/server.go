// Package fakeapi is an in-process stand-in for the courtbook REST backend.
//
// It mints real HS256 access tokens, rotates single-use refresh tokens and
// speaks the backend's JSON error envelope, so the client's refresh logic
// is exercised against the same wire behavior it sees in production.
// Knobs let tests hold a refresh in flight, make refresh fail and count
// refresh calls.
package fakeapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
	"github.com/dmitrijs2005/courtbook/internal/common"
)

// BasePath is where the API is mounted; URL() includes it.
const BasePath = "/api"

type account struct {
	user     models.User
	password string
}

// Server is a running fake backend.
type Server struct {
	srv       *httptest.Server
	secret    []byte
	accessTTL time.Duration

	mu            sync.Mutex
	accounts      map[string]*account // by email
	byID          map[string]*account
	refreshTokens map[string]string // token -> user id
	courts        []models.Court
	reservations  map[string]*models.Reservation
	notifications map[string][]*models.Notification // by user id
	subscriptions map[string]*models.Subscription   // by user id

	refreshCalls atomic.Int32
	failRefresh  atomic.Bool
	gate         atomic.Pointer[chan struct{}]
	requestIDs   sync.Map
}

// Option configures a Server.
type Option func(*Server)

// WithAccessTTL sets the lifetime of issued access tokens.
func WithAccessTTL(d time.Duration) Option {
	return func(s *Server) { s.accessTTL = d }
}

// New starts a fake backend and closes it when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		secret:        []byte("fakeapi-secret"),
		accessTTL:     15 * time.Minute,
		accounts:      make(map[string]*account),
		byID:          make(map[string]*account),
		refreshTokens: make(map[string]string),
		reservations:  make(map[string]*models.Reservation),
		notifications: make(map[string][]*models.Notification),
		subscriptions: make(map[string]*models.Subscription),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.seed()

	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL to hand to the client.
func (s *Server) URL() string { return s.srv.URL + BasePath }

// Secret is the HS256 signing key.
func (s *Server) Secret() []byte { return s.secret }

// RefreshCalls counts POST /auth/refresh requests received.
func (s *Server) RefreshCalls() int { return int(s.refreshCalls.Load()) }

// FailRefresh makes every refresh answer 401 invalid_token.
func (s *Server) FailRefresh(fail bool) { s.failRefresh.Store(fail) }

// HoldRefresh parks refresh requests until the returned func is called.
func (s *Server) HoldRefresh() (release func()) {
	ch := make(chan struct{})
	s.gate.Store(&ch)
	var once sync.Once
	return func() {
		once.Do(func() {
			s.gate.Store(nil)
			close(ch)
		})
	}
}

// SawRequestID reports whether a request carried the given X-Request-Id.
func (s *Server) SawRequestID(id string) bool {
	_, ok := s.requestIDs.Load(id)
	return ok
}

// AddUser registers an account and returns its profile.
func (s *Server) AddUser(email, password string, typ models.UserType) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(models.SignupRequest{
		FirstName: strings.Split(email, "@")[0],
		Email:     email,
		Password:  password,
		UserType:  typ,
	})
}

// IssuePair mints a valid pair for userID as a login would.
func (s *Server) IssuePair(t testing.TB, userID string) models.TokenPair {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	pair, err := s.issueLocked(userID)
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}
	return pair
}

// ExpiredAccessToken mints a correctly signed access token that is already
// past its exp.
func (s *Server) ExpiredAccessToken(t testing.TB, userID string) string {
	t.Helper()
	tok, err := GenerateToken(userID, "", s.secret, -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return tok
}

// AddNotification queues a notification for userID.
func (s *Server) AddNotification(userID, title string) models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := &models.Notification{ID: uuid.NewString(), Title: title, CreatedAt: time.Now().UTC()}
	s.notifications[userID] = append(s.notifications[userID], n)
	return *n
}

// Courts lists the seeded courts.
func (s *Server) Courts() []models.Court {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Court(nil), s.courts...)
}

func (s *Server) seed() {
	owner := s.addUserLocked(models.SignupRequest{
		FirstName: "Olga", LastName: "Owner", Email: "owner@courtbook.test",
		Password: "owner-pass", UserType: models.UserTypeHouseOwner,
	})
	s.courts = []models.Court{
		{ID: "c1", Name: "Centre Court", Sport: "tennis", City: "Riga", Address: "Brivibas 1", PricePerHour: 20, OwnerID: owner.ID, Active: true},
		{ID: "c2", Name: "Arena Padel", Sport: "padel", City: "Riga", Address: "Krasta 5", PricePerHour: 30, OwnerID: owner.ID, Active: true},
		{ID: "c3", Name: "Old Town Hoops", Sport: "basketball", City: "Tallinn", Address: "Viru 2", PricePerHour: 15, OwnerID: owner.ID, Active: true},
	}
}

func (s *Server) addUserLocked(req models.SignupRequest) models.User {
	if req.UserType == "" {
		req.UserType = models.UserTypeUser
	}
	a := &account{
		user: models.User{
			ID:        uuid.NewString(),
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Email:     req.Email,
			Phone:     req.Phone,
			UserType:  req.UserType,
		},
		password: req.Password,
	}
	s.accounts[req.Email] = a
	s.byID[a.user.ID] = a
	return a.user
}

func (s *Server) issueLocked(userID string) (models.TokenPair, error) {
	a, ok := s.byID[userID]
	if !ok {
		return models.TokenPair{}, common.ErrNotFound
	}
	access, err := GenerateToken(userID, string(a.user.UserType), s.secret, s.accessTTL)
	if err != nil {
		return models.TokenPair{}, err
	}
	refresh := uuid.NewString()
	s.refreshTokens[refresh] = userID
	return models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.recordRequestID)

	r.Route(BasePath, func(r chi.Router) {
		r.Post("/auth/login", s.login)
		r.Post("/auth/signup", s.signup)
		r.Post("/auth/refresh", s.refresh)

		r.Get("/courts", s.listCourts)
		r.Get("/courts/{id}", s.getCourt)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Post("/auth/logout", s.logout)
			r.Get("/auth/me", s.me)

			r.Get("/reservations/me", s.myReservations)
			r.Post("/reservations", s.createReservation)
			r.Post("/reservations/{id}/cancel", s.cancelReservation)

			r.Get("/billing/history", s.billingHistory)
			r.Post("/billing/checkout-session", s.checkoutSession)
			r.Get("/subscriptions/current", s.currentSubscription)
			r.Post("/subscriptions/current/cancel", s.cancelSubscription)

			r.Get("/notifications", s.listNotifications)
			r.Post("/notifications/{id}/read", s.readNotification)

			r.Group(func(r chi.Router) {
				r.Use(s.ownerOnly)
				r.Get("/owner/reservations", s.ownerReservations)
				r.Post("/owner/reservations/{id}/approve", s.decide(models.ReservationApproved))
				r.Post("/owner/reservations/{id}/reject", s.decide(models.ReservationRejected))
				r.Get("/owner/dashboard", s.dashboard)
			})
		})
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":       code,
			"message":    msg,
			"request_id": r.Header.Get(common.RequestIDHeaderName),
		},
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "malformed body")
		return false
	}
	return true
}

func (s *Server) recordRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := r.Header.Get(common.RequestIDHeaderName); id != "" {
			s.requestIDs.Store(id, struct{}{})
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if !decode(w, r, &creds) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[creds.Email]
	if !ok || a.password != creds.Password {
		writeError(w, r, http.StatusUnauthorized, "invalid_credentials", "wrong email or password")
		return
	}
	pair, err := s.issueLocked(a.user.ID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "invalid_argument", "email and password are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[req.Email]; exists {
		writeError(w, r, http.StatusConflict, "conflict", "email already registered")
		return
	}
	writeJSON(w, http.StatusCreated, s.addUserLocked(req))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	s.refreshCalls.Add(1)

	if gate := s.gate.Load(); gate != nil {
		select {
		case <-*gate:
		case <-r.Context().Done():
			return
		}
	}

	var req models.RefreshRequest
	if !decode(w, r, &req) {
		return
	}
	if s.failRefresh.Load() {
		writeError(w, r, http.StatusUnauthorized, "invalid_token", "refresh token revoked")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	userID, ok := s.refreshTokens[req.RefreshToken]
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "invalid_token", "unknown refresh token")
		return
	}
	delete(s.refreshTokens, req.RefreshToken)

	pair, err := s.issueLocked(userID)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "invalid_token", "user gone")
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

type ctxKey struct{}

func userFrom(r *http.Request) *account {
	a, _ := r.Context().Value(ctxKey{}).(*account)
	return a
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get(common.AuthorizationHeaderName), common.BearerPrefix)
		if !ok || raw == "" {
			writeError(w, r, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
			return
		}

		userID, err := UserIDFromToken(raw, s.secret)
		switch {
		case errors.Is(err, common.ErrTokenExpired):
			writeError(w, r, http.StatusUnauthorized, "token_expired", "access token expired")
			return
		case err != nil:
			writeError(w, r, http.StatusUnauthorized, "invalid_token", "access token invalid")
			return
		}

		s.mu.Lock()
		a, ok := s.byID[userID]
		s.mu.Unlock()
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "invalid_token", "unknown user")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, a)))
	})
}

func (s *Server) ownerOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userFrom(r).user.IsOwner() {
			writeError(w, r, http.StatusForbidden, "permission_denied", "owners only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	a := userFrom(r)

	s.mu.Lock()
	for tok, id := range s.refreshTokens {
		if id == a.user.ID {
			delete(s.refreshTokens, tok)
		}
	}
	s.mu.Unlock()

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r).user)
}
