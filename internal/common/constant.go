// Package common contains shared constants and sentinel errors used across
// courtbook components.
package common

// Outbound request headers.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-Id"
	BearerPrefix            = "Bearer "
)

// Well-known routes of the client.
const (
	RouteLanding = "/"
	RouteHome    = "/home"
	RouteLogin   = "/login"
)
