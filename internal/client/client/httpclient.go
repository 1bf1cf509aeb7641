package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/courtbook/internal/client/metrics"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
	"github.com/dmitrijs2005/courtbook/internal/common"
	"github.com/dmitrijs2005/courtbook/internal/logging"
	"github.com/google/uuid"
)

// AuthFailureFunc runs once per unrecoverable authentication failure: a 401
// with no refresh token, or a failed refresh call.
type AuthFailureFunc func(ctx context.Context, err error)

// authMode says how a request is authenticated.
type authMode int

const (
	// authRefresh attaches the bearer token and recovers from 401 by
	// refreshing and replaying.
	authRefresh authMode = iota
	// authBearer attaches the bearer token, 401 is returned as is.
	authBearer
	// authNone sends no credentials.
	authNone
)

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	auth   authMode
}

// HTTPClient talks JSON to the courtbook REST backend. It attaches the
// stored access token to every authenticated call and transparently
// refreshes it on 401.
type HTTPClient struct {
	baseURL   string
	http      *http.Client
	store     tokens.Store
	refresher *Refresher
	log       logging.Logger
	metrics   metrics.Recorder
	requestID func() string

	onAuthFailure atomic.Pointer[AuthFailureFunc]
}

// Option configures an HTTPClient.
type Option func(*settings)

type settings struct {
	http           *http.Client
	requestTimeout time.Duration
	refreshTimeout time.Duration
	log            logging.Logger
	metrics        metrics.Recorder
	requestID      func() string
}

func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.http = c }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *settings) { s.requestTimeout = d }
}

// WithRefreshTimeout bounds the shared refresh call. Parked requests wait
// at most this long for it.
func WithRefreshTimeout(d time.Duration) Option {
	return func(s *settings) { s.refreshTimeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(s *settings) { s.log = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *settings) { s.metrics = r }
}

func withRequestID(fn func() string) Option {
	return func(s *settings) { s.requestID = fn }
}

// NewHTTPClient builds a client for the API rooted at baseURL, e.g.
// "https://api.courtbook.example/api".
func NewHTTPClient(baseURL string, store tokens.Store, opts ...Option) *HTTPClient {
	s := settings{
		requestTimeout: 15 * time.Second,
		refreshTimeout: 10 * time.Second,
		log:            logging.NewNop(),
		metrics:        metrics.Nop{},
		requestID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.http == nil {
		s.http = &http.Client{Timeout: s.requestTimeout}
	}

	c := &HTTPClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      s.http,
		store:     store,
		log:       s.log,
		metrics:   s.metrics,
		requestID: s.requestID,
	}
	c.refresher = newRefresher(store, c.exchangeRefreshToken, s.refreshTimeout, s.log, s.metrics)
	return c
}

// OnAuthFailure installs the forced-logout hook. Set it before issuing
// requests; a nil fn removes the hook.
func (c *HTTPClient) OnAuthFailure(fn AuthFailureFunc) {
	if fn == nil {
		c.onAuthFailure.Store(nil)
		return
	}
	c.onAuthFailure.Store(&fn)
}

// Tokens exposes the store the client reads credentials from. Removing
// tokens through it also discards a refresh still in flight, so a logout
// cannot be undone by a late refresh response. Callers that clear the
// session should use this view rather than the underlying store.
func (c *HTTPClient) Tokens() tokens.Store {
	return sessionStore{Store: c.store, refresher: c.refresher}
}

type sessionStore struct {
	tokens.Store
	refresher *Refresher
}

func (s sessionStore) RemoveTokens(ctx context.Context) error {
	return s.refresher.discard(ctx)
}

func (c *HTTPClient) do(ctx context.Context, req request) error {
	payload, err := encodeBody(req.body)
	if err != nil {
		return err
	}

	rid := c.requestID()
	log := c.log.With("request_id", rid, "method", req.method, "path", req.path)

	var access string
	if req.auth != authNone {
		access, err = c.store.AccessToken(ctx)
		if err != nil {
			return fmt.Errorf("read access token: %w", err)
		}
	}

	err = c.roundTrip(ctx, req, payload, access, rid)

	var apiErr *APIError
	if req.auth != authRefresh || !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		return err
	}

	refreshToken, rerr := c.store.RefreshToken(ctx)
	if rerr != nil {
		return fmt.Errorf("read refresh token: %w", rerr)
	}
	if refreshToken == "" {
		log.Info(ctx, "401 without refresh token, logging out")
		if rmErr := c.refresher.discard(ctx); rmErr != nil {
			log.Error(ctx, "failed to clear tokens", "error", rmErr)
		}
		failure := fmt.Errorf("%w: %w", ErrSessionExpired, err)
		c.authFailed(ctx, metrics.ReasonNoRefreshToken, failure)
		return failure
	}

	fresh, led, err := c.refresher.refresh(ctx, access)
	if err != nil {
		c.refreshFailed(ctx, led, err)
		return err
	}

	log.Debug(ctx, "replaying request with refreshed token")
	c.metrics.RequestReplayed()
	return c.roundTrip(ctx, req, payload, fresh, rid)
}

func (c *HTTPClient) roundTrip(ctx context.Context, req request, payload []byte, token, rid string) error {
	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(common.RequestIDHeaderName, rid)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// refreshFailed runs the hook once per failed refresh, from its leader. A
// refresh cut short by a logout is not an auth failure.
func (c *HTTPClient) refreshFailed(ctx context.Context, led bool, err error) {
	if led && !errors.Is(err, errSignedOut) {
		c.authFailed(ctx, metrics.ReasonRefreshFailed, err)
	}
}

func (c *HTTPClient) authFailed(ctx context.Context, reason string, err error) {
	c.metrics.AuthFailure(reason)
	if fn := c.onAuthFailure.Load(); fn != nil {
		(*fn)(ctx, err)
	}
}

func encodeBody(v any) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return b, nil
}
