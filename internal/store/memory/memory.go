package memory

import (
	"context"
	"sync"

	"gameshop/backend/internal/domain"
)

// Store keeps the snapshot in memory. Used by tests and as the dev
// fallback when no persistence backend is configured.
type Store struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

func New() *Store {
	return &Store{snap: domain.NewSnapshot()}
}

// NewSeeded returns a store pre-loaded with a small board-game catalog
// for dev/demo mode.
func NewSeeded() *Store {
	snap := domain.NewSnapshot()
	snap.Catalog = []domain.Item{
		{ID: "J1", Name: "Catan", PriceCents: 3500, Stock: 12},
		{ID: "J2", Name: "Carcassonne", PriceCents: 2990, Stock: 8},
		{ID: "J3", Name: "Dixit", PriceCents: 2750, Stock: 10},
		{ID: "J4", Name: "Azul", PriceCents: 3250, Stock: 6},
		{ID: "J5", Name: "Virus!", PriceCents: 1500, Stock: 20},
		{ID: "J6", Name: "Exploding Kittens", PriceCents: 1990, Stock: 15},
		{ID: "J7", Name: "7 Wonders", PriceCents: 4200, Stock: 4},
		{ID: "J8", Name: "Dobble", PriceCents: 1200, Stock: 25},
	}
	return &Store{snap: snap}
}

func (s *Store) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

func (s *Store) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	return nil
}
