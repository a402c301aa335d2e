package membership

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// StaticOracle is an in-memory membership table for single-binary
// deployments and tests. Mutable at runtime so revocations can be
// exercised without a backing store.
type StaticOracle struct {
	mu      sync.RWMutex
	members map[int64]map[int64]Role
}

var _ Oracle = (*StaticOracle)(nil)

func NewStaticOracle() *StaticOracle {
	return &StaticOracle{members: make(map[int64]map[int64]Role)}
}

// NewStaticOracleFromSeed builds an oracle from the config seed table,
// where ids arrive as decimal strings and roles as case-insensitive
// names.
func NewStaticOracleFromSeed(seed map[string]map[string]string) (*StaticOracle, error) {
	o := NewStaticOracle()
	for serverKey, users := range seed {
		serverID, err := strconv.ParseInt(serverKey, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid server id %q in membership seed: %w", serverKey, err)
		}
		for userKey, roleName := range users {
			userID, err := strconv.ParseInt(userKey, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid user id %q in membership seed: %w", userKey, err)
			}
			role, err := parseRole(roleName)
			if err != nil {
				return nil, err
			}
			o.Grant(serverID, userID, role)
		}
	}
	return o, nil
}

func parseRole(name string) (Role, error) {
	switch Role(strings.ToUpper(name)) {
	case RoleOwner:
		return RoleOwner, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleMember:
		return RoleMember, nil
	default:
		return "", fmt.Errorf("unknown role %q in membership seed", name)
	}
}

func (o *StaticOracle) Grant(serverID, userID int64, role Role) {
	o.mu.Lock()
	defer o.mu.Unlock()

	users, ok := o.members[serverID]
	if !ok {
		users = make(map[int64]Role)
		o.members[serverID] = users
	}
	users[userID] = role
}

func (o *StaticOracle) Revoke(serverID, userID int64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	users, ok := o.members[serverID]
	if !ok {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(o.members, serverID)
	}
}

func (o *StaticOracle) GetRole(_ context.Context, serverID, userID int64) (Role, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	role, ok := o.members[serverID][userID]
	if !ok {
		return "", ErrNotAMember
	}
	return role, nil
}
