package hub_test

import (
	"testing"

	"github.com/AleLBO/chatIRC-epitech/internal/hub"
)

func TestRoomNames(t *testing.T) {
	if got := hub.ServerRoom(3); got != "server:3" {
		t.Errorf("expected server:3, got %s", got)
	}
	if got := hub.ChannelRoom(12); got != "channel:12" {
		t.Errorf("expected channel:12, got %s", got)
	}
}

func TestRoomsBroadcast(t *testing.T) {
	r := hub.NewRooms(newTestLogger())
	a, b := newFakeConn(), newFakeConn()
	r.Join("server:1", a)
	r.Join("server:1", b)

	r.Broadcast("server:1", []byte(`{"type":"x"}`))

	for _, conn := range []*fakeConn{a, b} {
		if len(conn.framesOfType("x")) != 1 {
			t.Errorf("expected each member to receive the frame")
		}
	}
}

func TestRoomsBroadcastExceptSkipsSender(t *testing.T) {
	r := hub.NewRooms(newTestLogger())
	a, b := newFakeConn(), newFakeConn()
	r.Join("channel:4", a)
	r.Join("channel:4", b)

	r.BroadcastExcept("channel:4", a.ID(), []byte(`{"type":"x"}`))

	if len(a.framesOfType("x")) != 0 {
		t.Error("sender must not receive its own broadcast")
	}
	if len(b.framesOfType("x")) != 1 {
		t.Error("other members must receive the broadcast")
	}
}

func TestRoomsBroadcastUnknownRoom(t *testing.T) {
	r := hub.NewRooms(newTestLogger())
	// Must be a silent no-op.
	r.Broadcast("server:404", []byte(`{}`))
}

func TestRoomsLeave(t *testing.T) {
	r := hub.NewRooms(newTestLogger())
	a := newFakeConn()
	r.Join("server:1", a)

	if !r.Contains("server:1", a.ID()) {
		t.Fatal("expected member after join")
	}
	r.Leave("server:1", a.ID())
	if r.Contains("server:1", a.ID()) {
		t.Error("expected member gone after leave")
	}
	// Leaving twice is a no-op.
	r.Leave("server:1", a.ID())
}

func TestRoomsDropConnSweepsEveryRoom(t *testing.T) {
	r := hub.NewRooms(newTestLogger())
	a, b := newFakeConn(), newFakeConn()
	r.Join("server:1", a)
	r.Join("server:2", a)
	r.Join("channel:9", a)
	r.Join("server:1", b)

	r.DropConn(a.ID())

	for _, room := range []string{"server:1", "server:2", "channel:9"} {
		if r.Contains(room, a.ID()) {
			t.Errorf("expected %s to no longer contain the dropped connection", room)
		}
	}
	if !r.Contains("server:1", b.ID()) {
		t.Error("other members must be unaffected by DropConn")
	}
}
