package eventstore

import (
	"context"
	"sort"
	"sync"
	"time"

	id "padoca/pkg/domain"
	"padoca/pkg/platform/sentinel"
)

// MemoryStore is an in-memory event store used by unit tests and dev mode.
type MemoryStore struct {
	mu      sync.RWMutex
	events  []DeliveryEvent
	configs map[id.ClientID]CadenceConfig
	clients map[id.ClientID]Client
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[id.ClientID]CadenceConfig),
		clients: make(map[id.ClientID]Client),
	}
}

// AddEvent appends a delivery event. Test/dev seeding helper; the production
// write path lives in the ordering workflows, not here.
func (s *MemoryStore) AddEvent(event DeliveryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// PutCadenceConfig stores a client's cadence configuration.
func (s *MemoryStore) PutCadenceConfig(config CadenceConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[config.ClientID] = config
}

// PutClient registers a client.
func (s *MemoryStore) PutClient(client Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client.ID] = client
}

func (s *MemoryStore) ListDeliveryEvents(_ context.Context, clientIDs []id.ClientID, since, until time.Time) ([]DeliveryEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[id.ClientID]bool, len(clientIDs))
	for _, cid := range clientIDs {
		wanted[cid] = true
	}

	var out []DeliveryEvent
	for _, ev := range s.events {
		if len(wanted) > 0 && !wanted[ev.ClientID] {
			continue
		}
		if ev.OccurredAt.Before(since) || ev.OccurredAt.After(until) {
			continue
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	return out, nil
}

func (s *MemoryStore) GetCadenceConfig(_ context.Context, clientID id.ClientID) (*CadenceConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	config, ok := s.configs[clientID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &config, nil
}

func (s *MemoryStore) ListActiveClients(_ context.Context) ([]Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Client
	for _, c := range s.clients {
		if c.Active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
