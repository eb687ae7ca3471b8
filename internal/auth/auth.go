// Package auth holds the credential primitives used by the login flow and the
// route guards: password hashing and bearer token issuing/verification.
package auth

import (
	"errors"
)

// ErrInvalidToken is returned for tokens that fail signature, expiry or claim checks
var ErrInvalidToken = errors.New("invalid or expired token")

// ClaimsContextKey is the key used to store verified claims in the Gin context
const ClaimsContextKey = "claims"
