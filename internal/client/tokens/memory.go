package tokens

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// MemoryStore keeps the token cookies in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	cookies map[string]*http.Cookie
	opts    options
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{cookies: make(map[string]*http.Cookie), opts: buildOptions(opts)}
}

func (s *MemoryStore) AccessToken(_ context.Context) (string, error) {
	return s.value(AccessTokenCookie), nil
}

func (s *MemoryStore) RefreshToken(_ context.Context) (string, error) {
	return s.value(RefreshTokenCookie), nil
}

func (s *MemoryStore) SetTokens(_ context.Context, access, refresh string) error {
	now := s.opts.now()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cookies[AccessTokenCookie] = NewCookie(AccessTokenCookie, access, now)
	s.cookies[RefreshTokenCookie] = NewCookie(RefreshTokenCookie, refresh, now)
	return nil
}

func (s *MemoryStore) RemoveTokens(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cookies, AccessTokenCookie)
	delete(s.cookies, RefreshTokenCookie)
	return nil
}

// Cookies returns copies of the live cookies ordered by name.
func (s *MemoryStore) Cookies(_ context.Context) ([]*http.Cookie, error) {
	now := s.opts.now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*http.Cookie, 0, len(s.cookies))
	for _, c := range s.cookies {
		if alive(c, now) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemoryStore) value(name string) string {
	s.mu.RLock()
	c := s.cookies[name]
	s.mu.RUnlock()

	if !alive(c, s.opts.now()) {
		return ""
	}
	return c.Value
}
