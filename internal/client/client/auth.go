package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
	"github.com/dmitrijs2005/courtbook/internal/common"
)

// Login posts credentials and returns the issued pair. Persisting it is up
// to the caller (the session controller).
func (c *HTTPClient) Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   creds,
		out:    &pair,
		auth:   authNone,
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := checkPair(pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	var u models.User
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/signup",
		body:   req,
		out:    &u,
		auth:   authNone,
	})
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout tells the backend to revoke the session. It never refreshes: an
// expired session is already as logged out as it gets.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/logout",
		auth:   authBearer,
	})
}

func (c *HTTPClient) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// RefreshSession obtains a new access token through the shared Refresher,
// so it never races with a refresh started by a failing request. The new
// pair is persisted before it returns. When this call led a refresh that
// failed, the auth-failure hook runs as it would for a failed request.
func (c *HTTPClient) RefreshSession(ctx context.Context) (string, error) {
	stale, err := c.store.AccessToken(ctx)
	if err != nil {
		return "", fmt.Errorf("read access token: %w", err)
	}
	token, led, err := c.refresher.refresh(ctx, stale)
	if err != nil {
		c.refreshFailed(ctx, led, err)
	}
	return token, err
}

// exchangeRefreshToken is the raw POST /auth/refresh call; only the
// Refresher invokes it.
func (c *HTTPClient) exchangeRefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var pair models.TokenPair
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/refresh",
		body:   models.RefreshRequest{RefreshToken: refreshToken},
		out:    &pair,
		auth:   authNone,
	})
	if err != nil {
		return models.TokenPair{}, err
	}
	if err := checkPair(pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

func checkPair(p models.TokenPair) error {
	if p.AccessToken == "" || p.RefreshToken == "" {
		return fmt.Errorf("%w: backend returned an incomplete token pair", common.ErrInvalidToken)
	}
	return nil
}
