package session

import (
	"context"

	"github.com/dmitrijs2005/courtbook/internal/client/models"
)

//go:generate mockgen -source=api.go -destination=mocks/api.go -package=mocks

// API is the part of the backend client the controller needs.
// client.HTTPClient satisfies it.
type API interface {
	Login(ctx context.Context, creds models.Credentials) (models.TokenPair, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	// RefreshSession exchanges the stored refresh token through the
	// process-wide refresher and persists the new pair.
	RefreshSession(ctx context.Context) (string, error)
}
