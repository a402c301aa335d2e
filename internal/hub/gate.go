package hub

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/AleLBO/chatIRC-epitech/internal/membership"
	"github.com/AleLBO/chatIRC-epitech/pkg/event"
	"github.com/google/uuid"
)

// Gate drives the per-connection protocol: authenticate, join and
// leave server rooms, typing, and teardown. It is the only code that
// mutates the registry, the presence table and the room table, and it
// never calls a collaborator while holding one of their locks.
type Gate struct {
	logger   *slog.Logger
	hub      *Hub
	verifier auth.Verifier
	oracle   membership.Oracle

	// Per-connection set of joined server ids, so a raw transport
	// close can converge presence for every room the connection was
	// in, not just the last one it touched.
	mu     sync.Mutex
	joined map[uuid.UUID]map[int64]struct{}
}

func NewGate(logger *slog.Logger, h *Hub, verifier auth.Verifier, oracle membership.Oracle) *Gate {
	return &Gate{
		logger:   logger.With(slog.String("component", "gate")),
		hub:      h,
		verifier: verifier,
		oracle:   oracle,
		joined:   make(map[uuid.UUID]map[int64]struct{}),
	}
}

// Authenticate verifies the credential and attaches the resolved
// identity to the connection. Failure is fatal to the session: the
// client gets one failure ack and the transport is closed.
func (g *Gate) Authenticate(ctx context.Context, connID uuid.UUID, token string) {
	conn, ok := g.hub.registry.Get(connID)
	if !ok {
		return
	}

	identity, err := g.verifier.VerifyCredential(ctx, token)
	if err != nil {
		g.logger.Warn("Authentication failed",
			slog.String("connID", connID.String()),
			slog.Any("error", err),
		)
		g.send(conn.Transport, event.AuthFailed("Invalid or expired token"))
		conn.Transport.Close(auth.ErrInvalidCredential)
		return
	}

	g.hub.registry.Attach(connID, identity)
	g.logger.Info("Connection authenticated",
		slog.String("connID", connID.String()),
		slog.Int64("userID", identity.ID),
		slog.String("username", identity.Username),
	)
	g.send(conn.Transport, event.AuthSucceeded(identity.ID, identity.Username))
}

// JoinServer admits the connection into a server room after a live
// membership check. The presence mutation commits before anyone hears
// about it, so a member-list read racing the broadcast never runs
// ahead of committed state.
func (g *Gate) JoinServer(ctx context.Context, connID uuid.UUID, serverID int64) {
	conn, ok := g.hub.registry.Get(connID)
	if !ok {
		return
	}
	identity, authed := g.hub.registry.Lookup(connID)
	if !authed {
		g.send(conn.Transport, event.ProtocolError("Not authenticated", event.CodeUnauthorized))
		return
	}

	role, err := g.oracle.GetRole(ctx, serverID, identity.ID)
	if err != nil {
		if !errors.Is(err, membership.ErrNotAMember) {
			g.logger.Error("Membership oracle failed",
				slog.Int64("serverID", serverID),
				slog.Int64("userID", identity.ID),
				slog.Any("error", err),
			)
		}
		g.send(conn.Transport, event.ProtocolError("Not a member of this server", event.CodeForbidden))
		return
	}

	room := ServerRoom(serverID)
	g.hub.rooms.Join(room, conn.Transport)
	g.hub.presence.Add(serverID, identity.ID)
	g.track(connID, serverID)

	g.logger.Info("User joined server room",
		slog.Int64("serverID", serverID),
		slog.Int64("userID", identity.ID),
		slog.String("role", string(role)),
	)

	g.broadcastExcept(room, connID, event.MemberJoined(serverID, identity.ID, identity.Username))
	g.send(conn.Transport, event.ServerJoined(serverID, g.hub.presence.List(serverID)))
}

// LeaveServer withdraws the connection from a server room. Silently
// ignored for unauthenticated connections; leaving a room carries no
// actionable information for them.
func (g *Gate) LeaveServer(connID uuid.UUID, serverID int64) {
	identity, ok := g.hub.registry.Lookup(connID)
	if !ok {
		return
	}

	room := ServerRoom(serverID)
	g.hub.rooms.Leave(room, connID)
	g.hub.presence.Remove(serverID, identity.ID)
	g.untrack(connID, serverID)

	g.logger.Info("User left server room",
		slog.Int64("serverID", serverID),
		slog.Int64("userID", identity.ID),
	)

	g.hub.BroadcastToRoom(room, event.MemberLeft(serverID, identity.ID, identity.Username))
}

// TypingStart relays a typing notification to the channel room,
// excluding the sender. Best-effort; unauthenticated senders are
// silently ignored.
func (g *Gate) TypingStart(connID uuid.UUID, channelID int64) {
	identity, ok := g.hub.registry.Lookup(connID)
	if !ok {
		return
	}

	g.broadcastExcept(ChannelRoom(channelID), connID, event.UserTyping(channelID, identity.ID, identity.Username))
}

// OnDisconnect runs once per connection, on transport close. It
// forgets the registry entry and converges presence for every server
// room the connection had joined.
func (g *Gate) OnDisconnect(connID uuid.UUID) {
	identity, authed := g.hub.registry.Lookup(connID)
	g.hub.registry.Forget(connID)

	g.mu.Lock()
	joined := g.joined[connID]
	delete(g.joined, connID)
	g.mu.Unlock()

	for serverID := range joined {
		room := ServerRoom(serverID)
		g.hub.rooms.Leave(room, connID)
		if authed {
			g.hub.presence.Remove(serverID, identity.ID)
			g.hub.BroadcastToRoom(room, event.UserDisconnected(serverID, identity.ID, identity.Username))
		}
	}

	// Sweep any remaining subscriptions (e.g. channel rooms).
	g.hub.rooms.DropConn(connID)

	if authed {
		g.logger.Info("Connection cleaned up",
			slog.String("connID", connID.String()),
			slog.Int64("userID", identity.ID),
			slog.Int("roomsLeft", len(joined)),
		)
	}
}

func (g *Gate) track(connID uuid.UUID, serverID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	servers, ok := g.joined[connID]
	if !ok {
		servers = make(map[int64]struct{})
		g.joined[connID] = servers
	}
	servers[serverID] = struct{}{}
}

func (g *Gate) untrack(connID uuid.UUID, serverID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	servers, ok := g.joined[connID]
	if !ok {
		return
	}
	delete(servers, serverID)
	if len(servers) == 0 {
		delete(g.joined, connID)
	}
}

func (g *Gate) send(conn Sender, ev event.Event) {
	frame, err := ev.Marshal()
	if err != nil {
		g.logger.Error("Failed to marshal event",
			slog.String("event", ev.Name()),
			slog.Any("error", err),
		)
		return
	}
	conn.Send(frame)
}

func (g *Gate) broadcastExcept(room string, except uuid.UUID, ev event.Event) {
	frame, err := ev.Marshal()
	if err != nil {
		g.logger.Error("Failed to marshal event",
			slog.String("event", ev.Name()),
			slog.Any("error", err),
		)
		return
	}
	g.hub.rooms.BroadcastExcept(room, except, frame)
}
