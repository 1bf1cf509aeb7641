package session

import (
	"context"
	"path"
	"strings"
	"sync"

	"github.com/dmitrijs2005/courtbook/internal/common"
	"github.com/dmitrijs2005/courtbook/internal/logging"
)

// Navigator is the in-process stand-in for the UI router.
type Navigator interface {
	Path() string
	Navigate(ctx context.Context, to string)
	IsPublic(p string) bool
}

// Routes is the public-route allow-list. Anything not listed is protected.
type Routes struct {
	exact    map[string]struct{}
	prefixes []string
}

// NewRoutes builds an allow-list from exact paths and path prefixes. A
// prefix matches itself and everything below it.
func NewRoutes(exact, prefixes []string) Routes {
	r := Routes{exact: make(map[string]struct{}, len(exact))}
	for _, p := range exact {
		r.exact[Clean(p)] = struct{}{}
	}
	for _, p := range prefixes {
		r.prefixes = append(r.prefixes, Clean(p))
	}
	return r
}

// DefaultRoutes are the pages reachable without a session.
func DefaultRoutes() Routes {
	return NewRoutes(
		[]string{common.RouteLanding, common.RouteLogin, "/signup", "/forgot-password", "/reset-password"},
		[]string{"/courts"},
	)
}

func (r Routes) IsPublic(p string) bool {
	p = Clean(p)
	if _, ok := r.exact[p]; ok {
		return true
	}
	for _, prefix := range r.prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

// Clean normalizes a route: rooted, no trailing slash, no query.
func Clean(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return path.Clean("/" + p)
}

// GuardFunc runs after navigating to a protected route.
type GuardFunc func(ctx context.Context, to string)

// Router tracks the current route.
type Router struct {
	routes Routes
	log    logging.Logger

	mu    sync.Mutex
	path  string
	guard GuardFunc
}

func NewRouter(routes Routes, log logging.Logger) *Router {
	return &Router{routes: routes, log: log, path: common.RouteLanding}
}

// OnProtected installs the guard, typically a session re-check.
func (r *Router) OnProtected(fn GuardFunc) {
	r.mu.Lock()
	r.guard = fn
	r.mu.Unlock()
}

func (r *Router) Path() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path
}

func (r *Router) IsPublic(p string) bool {
	return r.routes.IsPublic(p)
}

// Navigate moves to the given route. The guard runs outside the lock so
// it may navigate again.
func (r *Router) Navigate(ctx context.Context, to string) {
	to = Clean(to)

	r.mu.Lock()
	from := r.path
	r.path = to
	guard := r.guard
	r.mu.Unlock()

	if from != to {
		r.log.Debug(ctx, "navigate", "from", from, "to", to)
	}
	if guard != nil && !r.routes.IsPublic(to) {
		guard(ctx, to)
	}
}
