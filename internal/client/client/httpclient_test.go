package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
	"github.com/dmitrijs2005/courtbook/internal/common"
	"github.com/dmitrijs2005/courtbook/internal/testutil/fakeapi"
)

type fixture struct {
	api    *fakeapi.Server
	store  *tokens.MemoryStore
	client *HTTPClient
	rec    *countingRecorder
	user   models.User
	hooks  atomic.Int32
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		api:   fakeapi.New(t),
		store: tokens.NewMemoryStore(),
		rec:   &countingRecorder{},
	}
	f.user = f.api.AddUser("player@courtbook.test", "secret", models.UserTypeUser)
	opts = append([]Option{WithMetrics(f.rec), WithRefreshTimeout(2 * time.Second)}, opts...)
	f.client = NewHTTPClient(f.api.URL(), f.store, opts...)
	f.client.OnAuthFailure(func(context.Context, error) { f.hooks.Add(1) })
	return f
}

// signIn stores a valid pair.
func (f *fixture) signIn(t *testing.T) models.TokenPair {
	t.Helper()
	pair := f.api.IssuePair(t, f.user.ID)
	require.NoError(t, f.store.SetTokens(context.Background(), pair.AccessToken, pair.RefreshToken))
	return pair
}

// expireAccess stores an expired access token next to a valid refresh
// token.
func (f *fixture) expireAccess(t *testing.T) models.TokenPair {
	t.Helper()
	pair := f.api.IssuePair(t, f.user.ID)
	pair.AccessToken = f.api.ExpiredAccessToken(t, f.user.ID)
	require.NoError(t, f.store.SetTokens(context.Background(), pair.AccessToken, pair.RefreshToken))
	return pair
}

func (f *fixture) tokens(t *testing.T) (string, string) {
	t.Helper()
	a, err := f.store.AccessToken(context.Background())
	require.NoError(t, err)
	r, err := f.store.RefreshToken(context.Background())
	require.NoError(t, err)
	return a, r
}

func TestHTTPClient_AttachesBearerAndRequestID(t *testing.T) {
	f := newFixture(t, withRequestID(func() string { return "rid-42" }))
	f.signIn(t)

	me, err := f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.user.ID, me.ID)
	assert.True(t, f.api.SawRequestID("rid-42"))
	assert.Equal(t, 0, f.api.RefreshCalls())
}

func TestHTTPClient_RefreshesAndReplaysOn401(t *testing.T) {
	f := newFixture(t)
	old := f.expireAccess(t)

	me, err := f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, f.user.Email, me.Email)
	assert.Equal(t, 1, f.api.RefreshCalls())
	assert.Equal(t, int32(1), f.rec.replayed.Load())
	assert.Zero(t, f.hooks.Load())

	access, refresh := f.tokens(t)
	assert.NotEqual(t, old.AccessToken, access)
	assert.NotEqual(t, old.RefreshToken, refresh, "refresh token is rotated")

	_, err = f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, f.api.RefreshCalls(), "replaced token is used for later requests")
}

func TestHTTPClient_ConcurrentUnauthorizedShareOneRefresh(t *testing.T) {
	const n = 10

	f := newFixture(t)
	f.expireAccess(t)
	release := f.api.HoldRefresh()
	defer release()

	errs := make(chan error, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.client.MyReservations(context.Background())
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		return f.api.RefreshCalls() == 1 && f.client.refresher.waiting() == n-1
	}, 5*time.Second, 5*time.Millisecond)
	release()
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, 1, f.api.RefreshCalls(), "exactly one refresh call for the burst")
	assert.Equal(t, int32(n-1), f.rec.queued.Load())
	assert.Equal(t, int32(n), f.rec.replayed.Load())
	assert.Zero(t, f.hooks.Load())
}

func TestHTTPClient_NoRefreshTokenFastFails(t *testing.T) {
	f := newFixture(t)
	expired := f.api.ExpiredAccessToken(t, f.user.ID)
	require.NoError(t, f.store.SetTokens(context.Background(), expired, ""))

	var hookErr error
	f.client.OnAuthFailure(func(_ context.Context, err error) {
		f.hooks.Add(1)
		hookErr = err
	})

	_, err := f.client.Me(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	assert.Equal(t, 0, f.api.RefreshCalls(), "no refresh call without a refresh token")
	assert.Equal(t, int32(1), f.hooks.Load())
	assert.ErrorIs(t, hookErr, ErrSessionExpired)
	assert.Equal(t, int32(1), f.rec.failures.Load())

	access, _ := f.tokens(t)
	assert.Empty(t, access)
}

func TestHTTPClient_RefreshFailureRejectsAllWaiters(t *testing.T) {
	const n = 6

	f := newFixture(t)
	f.expireAccess(t)
	f.api.FailRefresh(true)
	release := f.api.HoldRefresh()
	defer release()

	errs := make(chan error, n)
	for range n {
		go func() {
			_, err := f.client.Notifications(context.Background())
			errs <- err
		}()
	}

	require.Eventually(t, func() bool {
		return f.api.RefreshCalls() == 1 && f.client.refresher.waiting() == n-1
	}, 5*time.Second, 5*time.Millisecond)
	release()

	first := <-errs
	require.ErrorIs(t, first, ErrSessionExpired)
	require.ErrorIs(t, first, common.ErrInvalidToken)
	for range n - 1 {
		assert.True(t, <-errs == first, "waiters are rejected with the leader's error")
	}

	assert.Equal(t, 1, f.api.RefreshCalls())
	assert.Equal(t, int32(1), f.hooks.Load(), "one forced logout per failed refresh")
	assert.Zero(t, f.rec.replayed.Load())

	access, refresh := f.tokens(t)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestHTTPClient_NonUnauthorizedPassesThrough(t *testing.T) {
	f := newFixture(t, withRequestID(func() string { return "rid-404" }))
	f.signIn(t)

	_, err := f.client.GetCourt(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.NotErrorIs(t, err, ErrSessionExpired)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, CodeNotFound, apiErr.Code)
	assert.Equal(t, "court not found", apiErr.Message)
	assert.Equal(t, "rid-404", apiErr.RequestID)

	_, err = f.client.Dashboard(context.Background())
	assert.ErrorIs(t, err, common.ErrPermissionDenied)
	assert.NotErrorIs(t, err, ErrUnauthorized)

	assert.Equal(t, 0, f.api.RefreshCalls())
	assert.Zero(t, f.hooks.Load())
}

func TestHTTPClient_LoginIsNotIntercepted(t *testing.T) {
	f := newFixture(t)

	_, err := f.client.Login(context.Background(), models.Credentials{Email: f.user.Email, Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, f.api.RefreshCalls())
	assert.Zero(t, f.hooks.Load())

	pair, err := f.client.Login(context.Background(), models.Credentials{Email: f.user.Email, Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	access, _ := f.tokens(t)
	assert.Empty(t, access, "Login leaves persistence to the caller")
}

func TestHTTPClient_LogoutDoesNotRefresh(t *testing.T) {
	f := newFixture(t)
	f.expireAccess(t)

	err := f.client.Logout(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 0, f.api.RefreshCalls())
	assert.Zero(t, f.hooks.Load())

	f.signIn(t)
	require.NoError(t, f.client.Logout(context.Background()))
}

func TestHTTPClient_RefreshSession(t *testing.T) {
	f := newFixture(t)
	old := f.expireAccess(t)

	tok, err := f.client.RefreshSession(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, old.AccessToken, tok)

	access, _ := f.tokens(t)
	assert.Equal(t, tok, access)
	assert.Equal(t, 1, f.api.RefreshCalls())
	assert.Zero(t, f.hooks.Load())
}

func TestHTTPClient_RefreshSessionLeaderFailureRunsHookOnce(t *testing.T) {
	f := newFixture(t)
	f.expireAccess(t)
	f.api.FailRefresh(true)
	release := f.api.HoldRefresh()
	defer release()

	leaderErr := make(chan error, 1)
	go func() {
		_, err := f.client.RefreshSession(context.Background())
		leaderErr <- err
	}()
	require.Eventually(t, func() bool { return f.api.RefreshCalls() == 1 }, 5*time.Second, 5*time.Millisecond)

	waiterErr := make(chan error, 1)
	go func() {
		_, err := f.client.Notifications(context.Background())
		waiterErr <- err
	}()
	require.Eventually(t, func() bool { return f.client.refresher.waiting() == 1 }, 5*time.Second, 5*time.Millisecond)
	release()

	assert.ErrorIs(t, <-leaderErr, ErrSessionExpired)
	assert.ErrorIs(t, <-waiterErr, ErrSessionExpired)
	assert.Equal(t, 1, f.api.RefreshCalls())
	assert.Equal(t, int32(1), f.hooks.Load())
	assert.Equal(t, int32(1), f.rec.failures.Load())
}

func TestHTTPClient_Unavailable(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	c := NewHTTPClient(dead.URL, tokens.NewMemoryStore())
	_, err := c.ListCourts(context.Background(), models.CourtFilter{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_ContextCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.client.ListCourts(ctx, models.CourtFilter{})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_OnAuthFailureNil(t *testing.T) {
	f := newFixture(t)
	f.client.OnAuthFailure(nil)
	require.NoError(t, f.store.SetTokens(context.Background(), "garbage", ""))

	_, err := f.client.Me(context.Background())
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.hooks.Load())
}

func TestHTTPClient_LogoutDuringRefreshIsNotUndone(t *testing.T) {
	f := newFixture(t)
	f.expireAccess(t)
	release := f.api.HoldRefresh()
	defer release()

	errs := make(chan error, 1)
	go func() {
		_, err := f.client.Notifications(context.Background())
		errs <- err
	}()
	require.Eventually(t, func() bool { return f.api.RefreshCalls() == 1 }, 5*time.Second, 5*time.Millisecond)

	require.NoError(t, f.client.Tokens().RemoveTokens(context.Background()))
	release()

	assert.ErrorIs(t, <-errs, ErrSessionExpired)
	access, refresh := f.tokens(t)
	assert.Empty(t, access)
	assert.Empty(t, refresh)
	assert.Zero(t, f.hooks.Load(), "a logout is not an auth failure")
	assert.Zero(t, f.rec.failures.Load())
}
