package hub

import (
	"fmt"
	"log/slog"

	"github.com/AleLBO/chatIRC-epitech/pkg/event"
	"github.com/AleLBO/chatIRC-epitech/pkg/transport"
	"github.com/google/uuid"
)

// Sender is the transport surface the hub needs from a live
// connection. *transport.Conn satisfies it; tests substitute fakes.
type Sender interface {
	ID() uuid.UUID
	Send(msg []byte)
	Close(err error)
}

var _ Sender = (*transport.Conn)(nil)

// ServerRoom names the room carrying presence events for a server.
func ServerRoom(serverID int64) string {
	return fmt.Sprintf("server:%d", serverID)
}

// ChannelRoom names the room carrying message and typing events for a
// channel.
func ChannelRoom(channelID int64) string {
	return fmt.Sprintf("channel:%d", channelID)
}

// Hub owns the process-wide connection state: the connection registry,
// the presence table, and the room membership used for fan-out. It is
// the broadcast sink handed to the REST layer.
type Hub struct {
	logger   *slog.Logger
	registry *Registry
	presence *Presence
	rooms    *Rooms
}

func New(logger *slog.Logger) *Hub {
	return &Hub{
		logger:   logger.With(slog.String("component", "hub")),
		registry: NewRegistry(logger),
		presence: NewPresence(),
		rooms:    NewRooms(logger),
	}
}

func (h *Hub) Registry() *Registry { return h.registry }
func (h *Hub) Presence() *Presence { return h.presence }
func (h *Hub) Rooms() *Rooms       { return h.rooms }

// BroadcastToRoom fans an event out to every connection in the room.
// Fire-and-forget: marshal or delivery problems never surface to the
// caller.
func (h *Hub) BroadcastToRoom(room string, ev event.Event) {
	frame, err := ev.Marshal()
	if err != nil {
		h.logger.Error("Failed to marshal broadcast event",
			slog.String("event", ev.Name()),
			slog.Any("error", err),
		)
		return
	}
	h.rooms.Broadcast(room, frame)
}
