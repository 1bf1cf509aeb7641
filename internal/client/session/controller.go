// Package session keeps the signed-in user for the running client.
//
// A Controller is the process-wide session handle: the CLI and the API
// client hold it by reference. It bootstraps the session from stored
// tokens (Check), signs users in and out, and is installed as the API
// client's forced-logout hook. Route guarding is delegated to a
// Navigator; unauthenticated users on protected routes are sent to "/".
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
	"github.com/dmitrijs2005/courtbook/internal/common"
	"github.com/dmitrijs2005/courtbook/internal/logging"
)

// State is a snapshot of the session.
type State struct {
	User            *models.User
	IsAuthenticated bool
	IsLoading       bool
}

// Controller owns the in-memory session.
type Controller struct {
	api   API
	store tokens.Store
	nav   Navigator
	log   logging.Logger
	now   func() time.Time

	checks singleflight.Group

	mu      sync.RWMutex
	user    *models.User
	loading bool
}

// Option configures a Controller.
type Option func(*Controller)

func WithLogger(l logging.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock replaces time.Now for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// New returns a controller in the loading state; call Check to settle it.
func New(api API, store tokens.Store, nav Navigator, opts ...Option) *Controller {
	c := &Controller{
		api:     api,
		store:   store,
		nav:     nav,
		log:     logging.NewNop(),
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var u *models.User
	if c.user != nil {
		cp := *c.user
		u = &cp
	}
	return State{User: u, IsAuthenticated: u != nil, IsLoading: c.loading}
}

// Check validates the stored session and loads the profile. Concurrent
// calls share one run. A nil error with an unauthenticated State means
// there simply was no session; an error means one existed and was dropped.
func (c *Controller) Check(ctx context.Context) (State, error) {
	ch := c.checks.DoChan("check", func() (any, error) {
		return nil, c.check(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		return c.State(), res.Err
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

func (c *Controller) check(ctx context.Context) error {
	c.setLoading(true)
	defer c.setLoading(false)

	access, refresh, err := c.readTokens(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}

	if access == "" && refresh == "" {
		c.setUser(nil)
		c.redirectIfProtected(ctx)
		return nil
	}

	if access != "" {
		expired, err := c.expired(access)
		if err != nil {
			return c.fail(ctx, err)
		}
		if expired {
			if refresh == "" {
				return c.fail(ctx, common.ErrTokenExpired)
			}
			access = ""
		}
	}

	if access == "" {
		if _, err := c.api.RefreshSession(ctx); err != nil {
			return c.fail(ctx, err)
		}
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		return c.fail(ctx, err)
	}
	c.setUser(user)
	c.log.Info(ctx, "session restored", "user_id", user.ID)
	return nil
}

// SignIn logs in, persists the pair, loads the profile and lands on the
// home page.
func (c *Controller) SignIn(ctx context.Context, creds models.Credentials) (*models.User, error) {
	pair, err := c.api.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return nil, fmt.Errorf("persist tokens: %w", err)
	}

	user, err := c.api.Me(ctx)
	if err != nil {
		c.clear(ctx)
		return nil, err
	}

	c.setUser(user)
	c.setLoading(false)
	c.log.Info(ctx, "signed in", "user_id", user.ID)
	c.nav.Navigate(ctx, common.RouteHome)
	return user, nil
}

// SignOut drops the session and returns to the landing page. The backend
// is told on a best-effort basis.
func (c *Controller) SignOut(ctx context.Context) error {
	if access, err := c.store.AccessToken(ctx); err == nil && access != "" {
		if err := c.api.Logout(ctx); err != nil {
			c.log.Warn(ctx, "backend logout failed", "error", err)
		}
	}

	err := c.store.RemoveTokens(ctx)
	c.setUser(nil)
	c.nav.Navigate(ctx, common.RouteLanding)
	if err != nil {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

// ForceLogout is the API client's auth-failure hook.
func (c *Controller) ForceLogout(ctx context.Context, cause error) {
	c.log.Warn(ctx, "session ended by the backend", "error", cause)
	c.clear(ctx)
	c.nav.Navigate(ctx, common.RouteLanding)
}

func (c *Controller) fail(ctx context.Context, err error) error {
	c.log.Info(ctx, "session check failed", "error", err)
	c.clear(ctx)
	c.redirectIfProtected(ctx)
	return err
}

func (c *Controller) clear(ctx context.Context) {
	if err := c.store.RemoveTokens(ctx); err != nil {
		c.log.Error(ctx, "failed to clear tokens", "error", err)
	}
	c.setUser(nil)
}

func (c *Controller) redirectIfProtected(ctx context.Context) {
	if !c.nav.IsPublic(c.nav.Path()) {
		c.nav.Navigate(ctx, common.RouteLanding)
	}
}

func (c *Controller) readTokens(ctx context.Context) (string, string, error) {
	access, err := c.store.AccessToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("read access token: %w", err)
	}
	refresh, err := c.store.RefreshToken(ctx)
	if err != nil {
		return "", "", fmt.Errorf("read refresh token: %w", err)
	}
	return access, refresh, nil
}

// expired decodes exp without verifying the signature; the backend does
// that on every request.
func (c *Controller) expired(access string) (bool, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(access, claims); err != nil {
		return false, fmt.Errorf("%w: %w", common.ErrInvalidToken, err)
	}
	if claims.ExpiresAt == nil {
		return false, fmt.Errorf("%w: no exp claim", common.ErrInvalidToken)
	}
	return !c.now().Before(claims.ExpiresAt.Time), nil
}

func (c *Controller) setUser(u *models.User) {
	c.mu.Lock()
	c.user = u
	c.mu.Unlock()
}

func (c *Controller) setLoading(v bool) {
	c.mu.Lock()
	c.loading = v
	c.mu.Unlock()
}
