package reschedule

import (
	"context"
	"sync"
	"time"

	id "padoca/pkg/domain"
	"padoca/pkg/platform/sentinel"
)

type tripleKey struct {
	clientID     id.ClientID
	originalDate time.Time
	newDate      time.Time
}

// MemoryStore is an in-memory reschedule store used by unit tests and dev
// mode. It enforces the same uniqueness constraint the relational store does.
type MemoryStore struct {
	mu     sync.RWMutex
	events []Event
	seen   map[tripleKey]bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{seen: make(map[tripleKey]bool)}
}

func (s *MemoryStore) Insert(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := tripleKey{
		clientID:     event.ClientID,
		originalDate: event.OriginalDate.UTC(),
		newDate:      event.NewDate.UTC(),
	}
	if s.seen[key] {
		return sentinel.ErrConflict
	}
	s.seen[key] = true
	s.events = append(s.events, event)
	return nil
}

func (s *MemoryStore) ListByClients(_ context.Context, clientIDs []id.ClientID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.ClientID]bool, len(clientIDs))
	for _, cid := range clientIDs {
		wanted[cid] = true
	}

	var out []Event
	for _, ev := range s.events {
		if len(wanted) > 0 && !wanted[ev.ClientID] {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}
