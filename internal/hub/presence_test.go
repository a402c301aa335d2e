package hub_test

import (
	"sync"
	"testing"

	"github.com/AleLBO/chatIRC-epitech/internal/hub"
)

func TestPresenceAddIsIdempotent(t *testing.T) {
	p := hub.NewPresence()

	p.Add(3, 7)
	p.Add(3, 7)

	ids := p.List(3)
	if len(ids) != 1 || ids[0] != 7 {
		t.Fatalf("expected [7], got %v", ids)
	}
	if !p.Contains(3, 7) {
		t.Error("expected Contains(3, 7) to be true")
	}
}

func TestPresenceRemove(t *testing.T) {
	p := hub.NewPresence()
	p.Add(3, 7)
	p.Add(3, 9)

	p.Remove(3, 7)
	ids := p.List(3)
	if len(ids) != 1 || ids[0] != 9 {
		t.Fatalf("expected [9] after removal, got %v", ids)
	}

	// Removing an absent entry is a no-op, not an error.
	p.Remove(3, 7)
	p.Remove(99, 7)
	if len(p.List(3)) != 1 {
		t.Error("no-op removals must not change the set")
	}
}

func TestPresenceListUnknownServerIsEmpty(t *testing.T) {
	p := hub.NewPresence()
	if ids := p.List(42); len(ids) != 0 {
		t.Fatalf("expected empty list for unknown server, got %v", ids)
	}
	if p.Contains(42, 7) {
		t.Error("expected Contains on unknown server to be false")
	}
}

func TestPresenceListIsSorted(t *testing.T) {
	p := hub.NewPresence()
	p.Add(3, 9)
	p.Add(3, 2)
	p.Add(3, 7)

	ids := p.List(3)
	want := []int64{2, 7, 9}
	for i, id := range ids {
		if id != want[i] {
			t.Fatalf("expected %v, got %v", want, ids)
		}
	}
}

func TestPresenceConcurrentChurn(t *testing.T) {
	p := hub.NewPresence()
	numGoroutines := 100
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			serverID := int64(i % 5)
			userID := int64(i % 10)
			p.Add(serverID, userID)
			p.Contains(serverID, userID)
			p.List(serverID)
		}(i)
	}
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Remove(int64(i%5), int64((i+1)%10))
		}(i)
	}
	wg.Wait()
}

func TestConcurrentJoinsSameServerLoseNoUpdate(t *testing.T) {
	p := hub.NewPresence()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p.Add(3, int64(i))
		}(i)
	}
	wg.Wait()

	if got := len(p.List(3)); got != 50 {
		t.Fatalf("expected 50 present identities, got %d", got)
	}
}
