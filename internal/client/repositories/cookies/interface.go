// Package cookies persists named cookie entries (value, path and expiry) in
// the local database.
package cookies

import (
	"context"
	"net/http"
)

// Repository stores cookies by name. Get returns (nil, nil) when the name is
// unknown; expiry is not interpreted here.
type Repository interface {
	Get(ctx context.Context, name string) (*http.Cookie, error)
	Put(ctx context.Context, c *http.Cookie) error
	Delete(ctx context.Context, name string) error
	List(ctx context.Context) ([]*http.Cookie, error)
}
