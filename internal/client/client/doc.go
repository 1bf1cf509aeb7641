// Package client contains the API client for the courtbook REST backend.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface): auth
//     (Login, Signup, Logout, Me, RefreshSession), courts, reservations,
//     owner approvals, billing, subscriptions and notifications.
//  2. A concrete JSON-over-HTTP implementation (see HTTPClient) that attaches
//     the stored access token to every request and transparently refreshes
//     it when the backend answers 401.
//  3. A single-flight Refresher that keeps at most one refresh call in
//     flight and fans its outcome out to every request parked behind it.
//
// # Refresh flow
//
// When an authenticated request gets 401:
//   - without a refresh token the client gives up at once: tokens are
//     cleared, the auth-failure hook runs and ErrSessionExpired is returned;
//   - otherwise it joins (or starts) the shared refresh and replays the
//     request once with the new access token.
//
// A failed refresh clears the tokens, rejects every parked request with the
// same error and runs the auth-failure hook once. Login, signup and the
// refresh call itself are never intercepted.
//
// # Error Handling
//
// Non-2xx answers surface as *APIError. Its Code matches the shared
// sentinels with errors.Is (common.ErrNotFound, common.ErrConflict, ...).
// Transport failures wrap ErrUnavailable.
//
// # Concurrency & Contexts
//
// HTTPClient is safe for concurrent use. All operations accept a
// context.Context; a refresh in progress is not cancelled by any single
// caller's context.
package client
