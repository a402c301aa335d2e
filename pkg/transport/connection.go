package transport

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// MessageHandler is invoked for every inbound frame. It runs on the
// read pump goroutine, so a connection's own messages are handled one
// at a time, in arrival order.
type MessageHandler func(ctx context.Context, connID uuid.UUID, msg []byte)

// CloseHandler is invoked exactly once, when the connection is torn down.
type CloseHandler func(connID uuid.UUID, err error)

type Config struct {
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// Conn is a single, thread-safe WebSocket connection: a read pump
// feeding the message handler and a write pump draining a buffered
// send channel.
type Conn struct {
	id     uuid.UUID
	ws     *websocket.Conn
	config Config
	send   chan []byte

	onMessage MessageHandler
	onClose   CloseHandler

	done      chan struct{}
	wg        *sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	logger *slog.Logger
}

func NewConn(parentCtx context.Context, wg *sync.WaitGroup, ws *websocket.Conn, config Config, logger *slog.Logger) *Conn {
	id := uuid.New()
	ctx, cancel := context.WithCancel(parentCtx)
	wg.Add(1)

	return &Conn{
		id:     id,
		ws:     ws,
		config: config,
		send:   make(chan []byte, 256),
		done:   make(chan struct{}),
		ctx:    ctx,
		cancel: cancel,
		wg:     wg,
		logger: logger.With(slog.String("connID", id.String())),
	}
}

// Run starts the read and write pumps.
func (c *Conn) Run() {
	go c.readPump()
	go c.writePump()

	c.logger.Info("connection established")
}

func (c *Conn) readPump() {
	var readErr error
	defer func() {
		c.Close(readErr)
	}()

	for {
		readCtx, cancelRead := context.WithTimeout(c.ctx, c.config.ReadTimeout)
		typ, r, err := c.ws.Reader(readCtx)
		if err != nil {
			cancelRead()
			readErr = err
			return
		}
		if typ != websocket.MessageText && typ != websocket.MessageBinary {
			cancelRead()
			continue
		}
		msg, err := io.ReadAll(r)
		cancelRead()
		if err != nil {
			readErr = err
			return
		}
		if c.onMessage != nil {
			c.onMessage(c.ctx, c.id, msg)
		}
	}
}

func (c *Conn) writePump() {
	var writeErr error
	defer func() {
		c.Close(writeErr)
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.ws.Write(c.ctx, websocket.MessageText, msg); err != nil {
				writeErr = err
				return
			}
		case <-c.ctx.Done():
			c.ws.Close(websocket.StatusNormalClosure, "session ended")
			return
		}
	}
}

// Send queues a frame for delivery. Safe for concurrent use, including
// concurrently with Close: the send channel is never closed, so a
// frame racing teardown is silently discarded instead of panicking the
// sender's goroutine.
func (c *Conn) Send(msg []byte) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
		c.logger.Debug("dropped frame for closing connection")
	}
}

// Close tears the connection down. Idempotent; the close handler runs
// exactly once regardless of how many paths race into Close.
func (c *Conn) Close(err error) {
	c.closeOnce.Do(func() {
		c.logger.Info("connection closing", slog.Any("reason", err))

		c.cancel()
		if c.ws != nil {
			c.ws.Close(websocket.StatusNormalClosure, "")
		}
		if c.onClose != nil {
			c.onClose(c.id, err)
		}
		c.wg.Done()
		close(c.done)
	})
}

// Done is closed when the connection is fully terminated.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

func (c *Conn) ID() uuid.UUID {
	return c.id
}

func (c *Conn) SetMessageHandler(h MessageHandler) {
	c.onMessage = h
}

func (c *Conn) SetCloseHandler(h CloseHandler) {
	c.onClose = h
}
