package tokens

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/courtbook/internal/client/repositories/cookies"
	"github.com/dmitrijs2005/courtbook/internal/dbx"
)

// SQLiteStore keeps the token cookies in the local client database so the
// session survives restarts.
type SQLiteStore struct {
	db   dbx.TxStarter
	opts options
}

func NewSQLiteStore(db dbx.TxStarter, opts ...Option) *SQLiteStore {
	return &SQLiteStore{db: db, opts: buildOptions(opts)}
}

func (s *SQLiteStore) AccessToken(ctx context.Context) (string, error) {
	return s.value(ctx, AccessTokenCookie)
}

func (s *SQLiteStore) RefreshToken(ctx context.Context) (string, error) {
	return s.value(ctx, RefreshTokenCookie)
}

// SetTokens writes both cookies in one transaction.
func (s *SQLiteStore) SetTokens(ctx context.Context, access, refresh string) error {
	now := s.opts.now()
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := cookies.NewSQLiteRepository(tx)
		if err := repo.Put(ctx, NewCookie(AccessTokenCookie, access, now)); err != nil {
			return err
		}
		return repo.Put(ctx, NewCookie(RefreshTokenCookie, refresh, now))
	})
	if err != nil {
		return fmt.Errorf("set tokens: %w", err)
	}
	return nil
}

func (s *SQLiteStore) RemoveTokens(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := cookies.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, AccessTokenCookie); err != nil {
			return err
		}
		return repo.Delete(ctx, RefreshTokenCookie)
	})
	if err != nil {
		return fmt.Errorf("remove tokens: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Cookies(ctx context.Context) ([]*http.Cookie, error) {
	all, err := cookies.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.opts.now()
	live := all[:0]
	for _, c := range all {
		if alive(c, now) {
			live = append(live, c)
		}
	}
	return live, nil
}

func (s *SQLiteStore) value(ctx context.Context, name string) (string, error) {
	c, err := cookies.NewSQLiteRepository(s.db).Get(ctx, name)
	if err != nil {
		return "", err
	}
	if !alive(c, s.opts.now()) {
		return "", nil
	}
	return c.Value, nil
}
