package cookies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/courtbook/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, name string) (*http.Cookie, error) {
	var (
		value, path string
		expiresAt   int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT value, path, expires_at FROM cookies WHERE name = ?`, name,
	).Scan(&value, &path, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie[%s]: %w", name, err)
	}
	return toCookie(name, value, path, expiresAt), nil
}

func (r *SQLiteRepository) Put(ctx context.Context, c *http.Cookie) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cookies (name, value, path, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			value = excluded.value,
			path = excluded.path,
			expires_at = excluded.expires_at
	`, c.Name, c.Value, c.Path, c.Expires.Unix())
	if err != nil {
		return fmt.Errorf("failed to put cookie[%s]: %w", c.Name, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cookies WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete cookie[%s]: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*http.Cookie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, value, path, expires_at FROM cookies ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cookies: %w", err)
	}
	defer rows.Close()

	var result []*http.Cookie
	for rows.Next() {
		var (
			name, value, path string
			expiresAt         int64
		)
		if err := rows.Scan(&name, &value, &path, &expiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan cookie row: %w", err)
		}
		result = append(result, toCookie(name, value, path, expiresAt))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cookie rows: %w", err)
	}

	return result, nil
}

func toCookie(name, value, path string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:    name,
		Value:   value,
		Path:    path,
		Expires: time.Unix(expiresAt, 0).UTC(),
	}
}
