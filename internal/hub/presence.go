package hub

import (
	"slices"
	"sync"
)

// Presence tracks which identities are currently present in each
// server room. Conceptually a set of (serverID, userID) pairs; all
// operations are total and idempotent.
type Presence struct {
	mu      sync.RWMutex
	servers map[int64]map[int64]struct{}
}

func NewPresence() *Presence {
	return &Presence{servers: make(map[int64]map[int64]struct{})}
}

// Add marks the identity as present in the server. Duplicate adds are
// no-ops.
func (p *Presence) Add(serverID, userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, ok := p.servers[serverID]
	if !ok {
		users = make(map[int64]struct{})
		p.servers[serverID] = users
	}
	users[userID] = struct{}{}
}

// Remove clears the identity's presence in the server. Removing an
// absent entry is a no-op.
func (p *Presence) Remove(serverID, userID int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	users, ok := p.servers[serverID]
	if !ok {
		return
	}
	delete(users, userID)
	if len(users) == 0 {
		delete(p.servers, serverID)
	}
}

// List snapshots the identities present in the server, sorted for
// deterministic output. Unknown servers yield an empty slice.
func (p *Presence) List(serverID int64) []int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	users := p.servers[serverID]
	ids := make([]int64, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Contains reports whether the identity is present in the server.
func (p *Presence) Contains(serverID, userID int64) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.servers[serverID][userID]
	return ok
}
