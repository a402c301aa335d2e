package membership

import (
	"context"
	"errors"
)

// Role is an identity's role within a server, as stored by the
// membership service.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// ErrNotAMember is returned when the identity holds no role in the
// server.
var ErrNotAMember = errors.New("not a member of this server")

// Oracle answers the live membership question for a (server, user)
// pair. Roles are never cached by callers; every room join re-asks so
// that revocations take effect immediately. Implementations may block
// (the production oracle is backed by the chat database), so callers
// must not hold hub locks across a call.
type Oracle interface {
	GetRole(ctx context.Context, serverID, userID int64) (Role, error)
}
