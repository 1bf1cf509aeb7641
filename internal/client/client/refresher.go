package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/courtbook/internal/client/metrics"
	"github.com/dmitrijs2005/courtbook/internal/client/models"
	"github.com/dmitrijs2005/courtbook/internal/client/tokens"
	"github.com/dmitrijs2005/courtbook/internal/logging"
)

// refreshFunc exchanges a refresh token for a new pair.
type refreshFunc func(ctx context.Context, refreshToken string) (models.TokenPair, error)

// errSignedOut ends a refresh whose session was cleared while the call was
// in flight.
var errSignedOut = errors.New("signed out during refresh")

type refreshResult struct {
	token string
	err   error
}

// Refresher guarantees that at most one refresh call is outstanding.
//
// The first caller that needs a new token becomes the leader and performs
// the call. Callers arriving while it runs are parked on a FIFO wait-list
// and all receive the leader's outcome: the same new access token, or the
// same error.
type Refresher struct {
	mu       sync.Mutex
	inflight bool
	waiters  []chan refreshResult
	// gen counts discards; a leader persists only if it is unchanged.
	gen uint64

	store   tokens.Store
	call    refreshFunc
	timeout time.Duration
	log     logging.Logger
	metrics metrics.Recorder
}

func newRefresher(store tokens.Store, call refreshFunc, timeout time.Duration, log logging.Logger, rec metrics.Recorder) *Refresher {
	return &Refresher{
		store:   store,
		call:    call,
		timeout: timeout,
		log:     log,
		metrics: rec,
	}
}

// refresh returns an access token newer than stale. led reports whether
// this caller performed the refresh call itself; only the leader should run
// failure side effects, so they happen once per failed refresh.
//
// A waiter whose ctx ends stops waiting; the refresh itself is not
// cancelled and the other waiters still get its result.
func (r *Refresher) refresh(ctx context.Context, stale string) (token string, led bool, err error) {
	r.mu.Lock()

	if r.inflight {
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		n := len(r.waiters)
		r.mu.Unlock()

		r.metrics.RequestQueued()
		r.log.Debug(ctx, "waiting for in-flight token refresh", "position", n)

		select {
		case res := <-ch:
			return res.token, false, res.err
		case <-ctx.Done():
			return "", false, ctx.Err()
		}
	}

	// Another leader may have finished between our 401 and now.
	current, err := r.store.AccessToken(ctx)
	if err == nil && current != "" && current != stale {
		r.mu.Unlock()
		return current, false, nil
	}

	r.inflight = true
	gen := r.gen
	r.mu.Unlock()

	token, err = r.run(ctx, gen)

	r.mu.Lock()
	waiters := r.waiters
	r.waiters = nil
	r.inflight = false
	r.mu.Unlock()

	for _, ch := range waiters {
		ch <- refreshResult{token: token, err: err}
	}

	if err != nil {
		r.log.Warn(ctx, "token refresh failed", "waiters", len(waiters), "error", err)
	} else {
		r.log.Info(ctx, "token refreshed", "waiters", len(waiters))
	}
	return token, true, err
}

// run performs the refresh call on a context detached from the leader's
// cancellation: the waiters depend on it.
func (r *Refresher) run(ctx context.Context, gen uint64) (string, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	pair, err := r.exchange(ctx, gen)
	if err != nil {
		if rmErr := r.store.RemoveTokens(ctx); rmErr != nil {
			r.log.Error(ctx, "failed to clear tokens after refresh failure", "error", rmErr)
		}
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, err)
	}
	return pair.AccessToken, nil
}

func (r *Refresher) exchange(ctx context.Context, gen uint64) (models.TokenPair, error) {
	refreshToken, err := r.store.RefreshToken(ctx)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("read refresh token: %w", err)
	}
	if refreshToken == "" {
		return models.TokenPair{}, ErrNoRefreshToken
	}

	start := time.Now()
	pair, err := r.call(ctx, refreshToken)
	r.metrics.RefreshDone(err, time.Since(start))
	if err != nil {
		return models.TokenPair{}, err
	}

	if err := r.persist(ctx, gen, pair); err != nil {
		return models.TokenPair{}, err
	}
	return pair, nil
}

// persist stores pair unless the session was discarded after gen was taken.
// The check and the write happen under mu so a concurrent discard either
// precedes both or follows both.
func (r *Refresher) persist(ctx context.Context, gen uint64, pair models.TokenPair) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != gen {
		return errSignedOut
	}
	if err := r.store.SetTokens(ctx, pair.AccessToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("persist tokens: %w", err)
	}
	return nil
}

// discard removes the stored pair and invalidates any refresh in flight, so
// its result is never written back.
func (r *Refresher) discard(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.gen++
	return r.store.RemoveTokens(ctx)
}

// waiting reports the number of parked callers.
func (r *Refresher) waiting() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.waiters)
}
