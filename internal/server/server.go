package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/AleLBO/chatIRC-epitech/internal/hub"
	"github.com/AleLBO/chatIRC-epitech/internal/membership"
	"github.com/AleLBO/chatIRC-epitech/internal/router"
	"github.com/AleLBO/chatIRC-epitech/internal/server/middleware"
	"github.com/AleLBO/chatIRC-epitech/pkg/config"
	"github.com/AleLBO/chatIRC-epitech/pkg/transport"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type App struct {
	logger      *slog.Logger
	hub         *hub.Hub
	gate        *hub.Gate
	eventRouter *router.Router
	wg          sync.WaitGroup
	http        *http.Server
	config      *config.Config

	ctx context.Context
}

func NewApp(logger *slog.Logger, rootCtx context.Context, cfg *config.Config, verifier auth.Verifier, oracle membership.Oracle) *App {
	h := hub.New(logger)
	gate := hub.NewGate(logger, h, verifier, oracle)
	eventRouter := router.New(logger, gate)

	app := &App{
		logger:      logger,
		hub:         h,
		gate:        gate,
		eventRouter: eventRouter,
		config:      cfg,
		ctx:         rootCtx,
	}

	mux := http.NewServeMux()
	mux.Handle("/ws",
		middleware.Chain(http.HandlerFunc(app.upgradeHandler),
			middleware.RequestMetadataMiddleware(),
			middleware.NewRequestLogger(app.logger),
		),
	)

	app.http = &http.Server{
		Addr:    app.config.Server.Address,
		Handler: mux,
		BaseContext: func(l net.Listener) context.Context {
			return app.ctx
		},
	}

	return app
}

// Hub exposes the broadcast sink, used by the message CRUD layer to
// push message and channel events into the rooms.
func (a *App) Hub() *hub.Hub {
	return a.hub
}

func (a *App) Run() error {
	go func() {
		a.logger.Info("Server starting", slog.String("addr", a.http.Addr))
		if err := a.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
		}
	}()

	<-a.ctx.Done()
	return a.Shutdown()
}

func (a *App) upgradeHandler(w http.ResponseWriter, r *http.Request) {
	reqMeta, _ := middleware.ReqMetadataFrom(r.Context())
	connLogger := a.logger.With(slog.String("remoteAddr", reqMeta.IP))

	wsConn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		a.logger.Error("Failed to accept websocket connection", slog.Any("error", err))
		return
	}

	conn := transport.NewConn(
		r.Context(),
		&a.wg,
		wsConn,
		a.config.Transport,
		a.logger,
	)

	// The connection is registered before authentication; the gate
	// refuses joins until an identity is attached.
	a.hub.Registry().Register(conn)
	conn.SetMessageHandler(a.eventRouter.HandleMessage)
	conn.SetCloseHandler(func(id uuid.UUID, err error) {
		connLogger.Info("Connection closed, running cleanup", slog.String("connID", id.String()))
		a.gate.OnDisconnect(id)
	})

	conn.Run()
	<-conn.Done()
}

// Shutdown runs the graceful shutdown sequence.
func (a *App) Shutdown() error {
	a.logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.http.Shutdown(shutdownCtx); err != nil {
		return err
	}

	// close all active WebSocket connections.
	a.logger.Info("Closing all active connections...")
	for _, conn := range a.hub.Registry().All() {
		conn.Transport.Close(errors.New("graceful shutdown"))
	}

	// wait for all connection goroutines to finish their cleanup.
	a.wg.Wait()
	a.logger.Info("Server shut down gracefully.")
	return nil
}
