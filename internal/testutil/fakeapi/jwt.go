package fakeapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/courtbook/internal/common"
)

// Claims are the access token claims the backend issues. The subject is
// the user id.
type Claims struct {
	jwt.RegisteredClaims
	UserType string `json:"userType,omitempty"`
}

// GenerateToken signs an HS256 access token for userID that expires after
// ttl. A negative ttl yields an already expired token.
func GenerateToken(userID, userType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserType: userType,
	})
	return token.SignedString(secret)
}

// UserIDFromToken verifies the signature and expiry of an access token.
func UserIDFromToken(tokenString string, secret []byte) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
