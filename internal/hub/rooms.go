package hub

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Rooms maps room names to the connections subscribed to them. It is
// the fan-out half of the broadcast sink; delivery is best-effort and
// a slow or closed recipient never affects the others.
type Rooms struct {
	mu     sync.RWMutex
	rooms  map[string]map[uuid.UUID]Sender
	logger *slog.Logger
}

func NewRooms(logger *slog.Logger) *Rooms {
	return &Rooms{
		rooms:  make(map[string]map[uuid.UUID]Sender),
		logger: logger.With(slog.String("component", "rooms")),
	}
}

// Join subscribes the connection to the room, creating the room on
// first use. Re-joining is a no-op.
func (r *Rooms) Join(room string, conn Sender) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		members = make(map[uuid.UUID]Sender)
		r.rooms[room] = members
	}
	members[conn.ID()] = conn
}

// Leave unsubscribes the connection. Leaving a room it is not in is a
// no-op; empty rooms are dropped.
func (r *Rooms) Leave(room string, connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[room]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(r.rooms, room)
	}
}

// DropConn removes the connection from every room it is subscribed
// to. Used at teardown so an abruptly closed transport leaves nothing
// behind.
func (r *Rooms) DropConn(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room, members := range r.rooms {
		delete(members, connID)
		if len(members) == 0 {
			delete(r.rooms, room)
		}
	}
}

// Contains reports whether the connection is subscribed to the room.
func (r *Rooms) Contains(room string, connID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rooms[room][connID]
	return ok
}

// snapshot copies the member list so sends happen outside the lock; a
// recipient with a full send buffer must not stall the room table.
func (r *Rooms) snapshot(room string, except uuid.UUID, useExcept bool) []Sender {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[room]
	targets := make([]Sender, 0, len(members))
	for id, conn := range members {
		if useExcept && id == except {
			continue
		}
		targets = append(targets, conn)
	}
	return targets
}

// Broadcast delivers the frame to every connection in the room.
func (r *Rooms) Broadcast(room string, frame []byte) {
	targets := r.snapshot(room, uuid.UUID{}, false)
	for _, conn := range targets {
		conn.Send(frame)
	}
	r.logger.Debug("Broadcast to room",
		slog.String("room", room),
		slog.Int("recipients", len(targets)),
	)
}

// BroadcastExcept delivers the frame to every connection in the room
// but the sender.
func (r *Rooms) BroadcastExcept(room string, except uuid.UUID, frame []byte) {
	targets := r.snapshot(room, except, true)
	for _, conn := range targets {
		conn.Send(frame)
	}
	r.logger.Debug("Broadcast to room",
		slog.String("room", room),
		slog.Int("recipients", len(targets)),
	)
}
