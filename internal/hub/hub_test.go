package hub_test

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/AleLBO/chatIRC-epitech/internal/hub"
	"github.com/AleLBO/chatIRC-epitech/internal/membership"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// --- Test Suite Setup ---

func newTestLogger() *slog.Logger {
	// Discard logger output during tests by setting a high level
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError + 1})
	return slog.New(handler)
}

// fakeConn records every frame the hub sends it.
type fakeConn struct {
	id uuid.UUID

	mu     sync.Mutex
	frames [][]byte
	closed bool
}

func newFakeConn() *fakeConn {
	return &fakeConn{id: uuid.New()}
}

func (f *fakeConn) ID() uuid.UUID { return f.id }

func (f *fakeConn) Send(msg []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, msg)
}

func (f *fakeConn) Close(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// framesOfType returns the decoded frames whose envelope type matches.
func (f *fakeConn) framesOfType(name string) []gjson.Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matches []gjson.Result
	for _, frame := range f.frames {
		if gjson.GetBytes(frame, "type").String() == name {
			matches = append(matches, gjson.GetBytes(frame, "data"))
		}
	}
	return matches
}

func (f *fakeConn) lastFrameOfType(t *testing.T, name string) gjson.Result {
	t.Helper()
	matches := f.framesOfType(name)
	if len(matches) == 0 {
		t.Fatalf("expected at least one %q frame, got none", name)
	}
	return matches[len(matches)-1]
}

// fakeVerifier resolves tokens from a fixed table.
type fakeVerifier struct {
	identities map[string]auth.Identity
}

func (v fakeVerifier) VerifyCredential(_ context.Context, token string) (auth.Identity, error) {
	identity, ok := v.identities[token]
	if !ok {
		return auth.Identity{}, auth.ErrInvalidCredential
	}
	return identity, nil
}

type gateFixture struct {
	hub    *hub.Hub
	gate   *hub.Gate
	oracle *membership.StaticOracle
}

func newGateFixture() *gateFixture {
	logger := newTestLogger()
	h := hub.New(logger)
	oracle := membership.NewStaticOracle()
	verifier := fakeVerifier{identities: map[string]auth.Identity{
		"ana-token": {ID: 7, Username: "ana"},
		"bo-token":  {ID: 9, Username: "bo"},
	}}
	return &gateFixture{
		hub:    h,
		gate:   hub.NewGate(logger, h, verifier, oracle),
		oracle: oracle,
	}
}

// connect registers a fake transport and optionally authenticates it.
func (fx *gateFixture) connect(t *testing.T, token string) *fakeConn {
	t.Helper()
	conn := newFakeConn()
	fx.hub.Registry().Register(conn)
	if token != "" {
		fx.gate.Authenticate(context.Background(), conn.ID(), token)
		ack := conn.lastFrameOfType(t, "authenticated")
		if !ack.Get("success").Bool() {
			t.Fatalf("setup authentication failed: %s", ack.Raw)
		}
	}
	return conn
}
