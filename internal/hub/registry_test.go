package hub_test

import (
	"testing"

	"github.com/AleLBO/chatIRC-epitech/internal/auth"
	"github.com/AleLBO/chatIRC-epitech/internal/hub"
	"github.com/google/uuid"
)

func TestRegistryLifecycle(t *testing.T) {
	r := hub.NewRegistry(newTestLogger())
	conn := newFakeConn()

	// 1. Register
	rec := r.Register(conn)
	if rec.ID != conn.ID() {
		t.Errorf("registered connection ID mismatch")
	}
	if rec.Identity != nil {
		t.Error("fresh connection must have no identity attached")
	}

	// 2. Lookup before authentication
	if _, found := r.Lookup(conn.ID()); found {
		t.Error("Lookup must report absence before Attach")
	}

	// 3. Attach
	r.Attach(conn.ID(), auth.Identity{ID: 7, Username: "ana"})
	identity, found := r.Lookup(conn.ID())
	if !found {
		t.Fatal("Lookup failed to find attached identity")
	}
	if identity.ID != 7 || identity.Username != "ana" {
		t.Errorf("unexpected identity: %+v", identity)
	}

	// 4. Forget
	r.Forget(conn.ID())
	if _, found := r.Get(conn.ID()); found {
		t.Error("found connection after it should have been forgotten")
	}
}

func TestRegistryAttachOverwrites(t *testing.T) {
	r := hub.NewRegistry(newTestLogger())
	conn := newFakeConn()
	r.Register(conn)

	r.Attach(conn.ID(), auth.Identity{ID: 7, Username: "ana"})
	r.Attach(conn.ID(), auth.Identity{ID: 9, Username: "bo"})

	identity, found := r.Lookup(conn.ID())
	if !found || identity.ID != 9 {
		t.Fatalf("expected re-attach to replace the identity, got %+v", identity)
	}
}

func TestRegistryUnknownConnection(t *testing.T) {
	r := hub.NewRegistry(newTestLogger())

	// None of these may panic or error.
	r.Attach(uuid.New(), auth.Identity{ID: 1})
	r.Forget(uuid.New())
	if _, found := r.Lookup(uuid.New()); found {
		t.Error("Lookup on unknown connection must report absence")
	}
}
