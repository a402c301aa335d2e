package router

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/AleLBO/chatIRC-epitech/internal/hub"
	"github.com/AleLBO/chatIRC-epitech/pkg/event"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Handler processes one inbound operation's payload.
type Handler func(ctx context.Context, connID uuid.UUID, payload []byte)

// Router decodes inbound frames and dispatches them to the gate by
// operation name. The dispatch table is fixed at construction; the
// transport read pump invokes HandleMessage synchronously, so a
// connection's operations run one at a time.
type Router struct {
	logger   *slog.Logger
	handlers map[string]Handler
}

func New(logger *slog.Logger, gate *hub.Gate) *Router {
	r := &Router{
		logger: logger.With(slog.String("component", "router")),
	}
	r.handlers = map[string]Handler{
		"authenticate": func(ctx context.Context, connID uuid.UUID, payload []byte) {
			gate.Authenticate(ctx, connID, gjson.GetBytes(payload, "token").String())
		},
		"join_server": func(ctx context.Context, connID uuid.UUID, payload []byte) {
			gate.JoinServer(ctx, connID, gjson.GetBytes(payload, "server_id").Int())
		},
		"leave_server": func(_ context.Context, connID uuid.UUID, payload []byte) {
			gate.LeaveServer(connID, gjson.GetBytes(payload, "server_id").Int())
		},
		"typing_start": func(_ context.Context, connID uuid.UUID, payload []byte) {
			gate.TypingStart(connID, gjson.GetBytes(payload, "channel_id").Int())
		},
	}
	return r
}

// HandleMessage is the transport message handler.
func (r *Router) HandleMessage(ctx context.Context, connID uuid.UUID, msg []byte) {
	var frame event.Envelope
	if err := json.Unmarshal(msg, &frame); err != nil {
		r.logger.Warn("Failed to unmarshal client frame",
			slog.String("connID", connID.String()),
			slog.Any("error", err),
		)
		return
	}

	handler, ok := r.handlers[frame.Type]
	if !ok {
		r.logger.Warn("Received unknown operation",
			slog.String("type", frame.Type),
			slog.String("connID", connID.String()),
		)
		return
	}

	r.logger.Debug("Dispatching operation",
		slog.String("type", frame.Type),
		slog.String("connID", connID.String()),
	)
	handler(ctx, connID, frame.Data)
}
