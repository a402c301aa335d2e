package auth

import (
	"context"
	"errors"
)

// Identity is the authenticated principal behind a connection.
// Immutable once attached.
type Identity struct {
	ID       int64
	Username string
}

// ErrInvalidCredential is returned for any credential that does not
// verify: bad signature, malformed token, or expired.
var ErrInvalidCredential = errors.New("invalid or expired credential")

// Verifier validates a bearer credential and resolves the identity it
// was issued to. Implementations may block (e.g. remote introspection),
// so callers must not hold hub locks across a call.
type Verifier interface {
	VerifyCredential(ctx context.Context, token string) (Identity, error)
}
