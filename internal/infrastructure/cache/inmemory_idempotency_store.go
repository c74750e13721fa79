package cache

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/pos-backoffice/internal/application/order"
)

type entry struct {
	orderID   string
	expiresAt time.Time
}

// InMemoryIdempotencyStore llaves de idempotencia para una sola instancia y tests.
// Las llaves vencidas se descartan al consultarlas.
type InMemoryIdempotencyStore struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewInMemoryIdempotencyStore crea el almacén; ttl <= 0 usa 24h.
func NewInMemoryIdempotencyStore(ttl time.Duration) *InMemoryIdempotencyStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &InMemoryIdempotencyStore{entries: map[string]entry{}, ttl: ttl, now: time.Now}
}

func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return e.orderID, false, nil
	}
	s.entries[key] = entry{expiresAt: now.Add(s.ttl)}
	return "", true, nil
}

func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{orderID: orderID, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

var _ order.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
