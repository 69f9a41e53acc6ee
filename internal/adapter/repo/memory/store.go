package memory

import (
	"sync"

	"mulchworks/internal/app/ports"
	"mulchworks/internal/domain/compost"
)

// Store backs the in-memory repositories used in tests and DSN-less dev runs.
type Store struct {
	mu     sync.RWMutex
	piles  map[string]ports.PileRecord
	events map[string][]compost.DomainEvent
}

func NewStore() *Store {
	return &Store{
		piles:  make(map[string]ports.PileRecord),
		events: make(map[string][]compost.DomainEvent),
	}
}

func (s *Store) SeedPile(record ports.PileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.piles[record.PileID] = record
}
