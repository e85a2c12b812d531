// Package auth implements the stateless token core: encoding and decoding of
// signed claims, access/refresh token issuance, verification against the live
// user store, and the static role permission table consulted by handlers.
//
// The package never panics; every failure is reported through one of the
// sentinel errors below so callers can map them to HTTP statuses. The gate
// middleware deliberately collapses all of them into a single 401 so clients
// cannot probe why authentication failed.
package auth

import "errors"

var (
	// ErrMalformed is returned when a token cannot be parsed, its signature
	// does not verify, or it was signed with an unexpected algorithm.
	ErrMalformed = errors.New("auth: malformed token")

	// ErrExpired is returned when a structurally valid token is past its
	// expiry time.
	ErrExpired = errors.New("auth: token expired")

	// ErrWrongTokenType is returned when an access token is presented where
	// a refresh token is required, or vice versa.
	ErrWrongTokenType = errors.New("auth: wrong token type")

	// ErrPrincipalNotFound is returned when the subject of a valid token no
	// longer exists in the user store.
	ErrPrincipalNotFound = errors.New("auth: principal not found")

	// ErrInactive is returned when the subject exists but the account is
	// deactivated. Deactivation takes effect on the next verification even
	// while previously issued tokens are still unexpired.
	ErrInactive = errors.New("auth: principal inactive")
)
