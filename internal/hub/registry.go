package hub

import (
	"log/slog"
	"sync"
	"time"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/google/uuid"
)

// Connection is the hub-side record of a live transport session.
// Identity stays nil until the session authenticates.
type Connection struct {
	ID        uuid.UUID
	Transport Sender
	Identity  *auth.Identity
	CreatedAt time.Time
}

// Registry maps live connections to the identities that authenticated
// them. All operations are total; absence is a boolean, never an error.
type Registry struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]*Connection
	logger *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		conns:  make(map[uuid.UUID]*Connection),
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register records a freshly accepted, not yet authenticated
// connection.
func (r *Registry) Register(transport Sender) *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn := &Connection{
		ID:        transport.ID(),
		Transport: transport,
		CreatedAt: time.Now(),
	}
	r.conns[conn.ID] = conn
	r.logger.Debug("Connection registered", slog.String("connID", conn.ID.String()))
	return conn
}

// Attach associates an identity with a connection, replacing any
// prior association.
func (r *Registry) Attach(connID uuid.UUID, identity auth.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.conns[connID]
	if !ok {
		// The transport closed between accept and authenticate.
		r.logger.Debug("Attach on unknown connection", slog.String("connID", connID.String()))
		return
	}
	conn.Identity = &identity
	r.logger.Debug("Identity attached",
		slog.String("connID", connID.String()),
		slog.Int64("userID", identity.ID),
	)
}

// Lookup returns the identity attached to the connection, if any.
func (r *Registry) Lookup(connID uuid.UUID) (auth.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connID]
	if !ok || conn.Identity == nil {
		return auth.Identity{}, false
	}
	return *conn.Identity, true
}

// Get returns the full connection record.
func (r *Registry) Get(connID uuid.UUID) (*Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.conns[connID]
	return conn, ok
}

// Forget removes the connection's record. Forgetting an unknown
// connection is a no-op.
func (r *Registry) Forget(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conns[connID]; !ok {
		return
	}
	delete(r.conns, connID)
	r.logger.Debug("Connection forgotten", slog.String("connID", connID.String()))
}

// All snapshots every live connection record, for shutdown draining.
func (r *Registry) All() []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*Connection, 0, len(r.conns))
	for _, c := range r.conns {
		conns = append(conns, c)
	}
	return conns
}
