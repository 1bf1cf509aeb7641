package tokens

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE cookies (
  name       TEXT PRIMARY KEY,
  value      TEXT    NOT NULL,
  path       TEXT    NOT NULL DEFAULT '/',
  expires_at INTEGER NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	checkRoundTrip(t, NewSQLiteStore(setupDB(t)))
}

func TestSQLiteStore_PersistsAcrossInstances(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	require.NoError(t, NewSQLiteStore(db).SetTokens(ctx, "A", "R"))

	reopened := NewSQLiteStore(db)
	a, err := reopened.AccessToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A", a)
}

func TestSQLiteStore_ExpiresAfterMaxAge(t *testing.T) {
	clock := newClock()
	s := NewSQLiteStore(setupDB(t), WithClock(clock.Now))
	ctx := context.Background()

	require.NoError(t, s.SetTokens(ctx, "A", "R"))
	clock.Advance(MaxAge + time.Second)

	r, err := s.RefreshToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, r)

	cs, err := s.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, cs, "expired rows are not listed")
}

func TestSQLiteStore_SetTokensRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO cookies`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO cookies`).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = NewSQLiteStore(db).SetTokens(context.Background(), "A", "R")
	require.ErrorContains(t, err, "set tokens")
	require.ErrorContains(t, err, "disk full")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ReadErrorPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT value, path, expires_at FROM cookies`).WillReturnError(errors.New("io"))

	_, err = NewSQLiteStore(db).AccessToken(context.Background())
	require.ErrorContains(t, err, "failed to get cookie[access_token]")
}
