// Package models defines client-side data models exchanged with the
// courtbook REST backend.
package models

// TokenPair is what the backend issues on login and on refresh.
type TokenPair struct {
	// AccessToken is a short-lived JWT carrying an exp claim.
	AccessToken string `json:"accessToken"`

	// RefreshToken is exchanged for a new pair once AccessToken expires.
	RefreshToken string `json:"refreshToken"`
}

// Credentials is the login form payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the registration form payload.
type SignupRequest struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone,omitempty"`
	Password  string   `json:"password"`
	UserType  UserType `json:"userType"`
}

// RefreshRequest is the body of POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
