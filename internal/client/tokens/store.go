// Package tokens stores the access/refresh token pair between runs.
//
// Tokens are kept with cookie semantics: two named entries, a 30-day max
// age and the root path. An entry that is missing or past its expiry reads
// as the empty string. Token contents are never validated here; expiry of
// the JWT itself is the caller's business.
//
// Backends:
//
//   - MemoryStore: process-local jar of *http.Cookie values
//   - SQLiteStore: cookies table in the local client database
//   - RedisStore: keys with a TTL, for sharing a session between processes
package tokens

import (
	"context"
	"net/http"
	"time"
)

// Cookie policy.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	CookiePath         = "/"
	MaxAge             = 30 * 24 * time.Hour
)

// Store reads, writes and clears the token pair.
type Store interface {
	AccessToken(ctx context.Context) (string, error)
	RefreshToken(ctx context.Context) (string, error)
	SetTokens(ctx context.Context, access, refresh string) error
	RemoveTokens(ctx context.Context) error
	// Cookies lists the live entries ordered by name.
	Cookies(ctx context.Context) ([]*http.Cookie, error)
}

// NewCookie builds a token cookie under the store's policy.
func NewCookie(name, value string, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   int(MaxAge / time.Second),
		Expires:  now.Add(MaxAge).UTC(),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

func alive(c *http.Cookie, now time.Time) bool {
	return c != nil && c.Value != "" && now.Before(c.Expires)
}

// Option tweaks a store at construction.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now; tests use it to step past the max age.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
