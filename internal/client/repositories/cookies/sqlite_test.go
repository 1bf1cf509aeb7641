package cookies

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
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

func cookie(name, value string, exp time.Time) *http.Cookie {
	return &http.Cookie{Name: name, Value: value, Path: "/", Expires: exp}
}

func TestPutAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Date(2026, 11, 14, 0, 0, 0, 0, time.UTC)

	require.NoError(t, r.Put(ctx, cookie("access_token", "A1", exp)))

	c, err := r.Get(ctx, "access_token")
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "A1", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, exp.Equal(c.Expires))
}

func TestGet_NotExists_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	c, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestPut_UpsertOverwrites(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Put(ctx, cookie("k", "old", exp)))
	require.NoError(t, r.Put(ctx, cookie("k", "new", exp)))

	c, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "new", c.Value)
}

func TestList_AndDelete(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	require.NoError(t, r.Put(ctx, cookie("b", "2", exp)))
	require.NoError(t, r.Put(ctx, cookie("a", "1", exp)))

	all, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "b", all[1].Name)

	require.NoError(t, r.Delete(ctx, "a"))
	require.NoError(t, r.Delete(ctx, "a"))

	all, err = r.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0].Name)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := NewSQLiteRepository(db)
	ctx := context.Background()
	boom := errors.New("boom")

	mock.ExpectQuery(`SELECT value, path, expires_at FROM cookies`).WithArgs("k").WillReturnError(boom)
	_, err = r.Get(ctx, "k")
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "failed to get cookie[k]")

	mock.ExpectExec(`INSERT INTO cookies`).WillReturnError(boom)
	err = r.Put(ctx, cookie("k", "v", time.Now()))
	require.ErrorContains(t, err, "failed to put cookie[k]")

	mock.ExpectExec(`DELETE FROM cookies WHERE name = \?`).WithArgs("k").WillReturnError(boom)
	require.ErrorContains(t, r.Delete(ctx, "k"), "failed to delete cookie[k]")

	mock.ExpectQuery(`SELECT name, value, path, expires_at FROM cookies`).WillReturnError(boom)
	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list cookies")

	require.NoError(t, mock.ExpectationsWereMet())
}
