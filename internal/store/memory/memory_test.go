package memory

import (
	"context"
	"testing"

	"gameshop/backend/internal/domain"
)

func TestLoadReturnsIsolatedCopies(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	first.Cash.BalanceCents = 1
	first.Catalog = append(first.Catalog, domain.Item{ID: "X"})

	second, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if second.Cash.BalanceCents != domain.OpeningFloatCents || len(second.Catalog) != 0 {
		t.Fatal("mutating a loaded snapshot leaked into the store")
	}
}

func TestSaveStoresCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	snap := domain.NewSnapshot()
	snap.Catalog = append(snap.Catalog, domain.Item{ID: "J1", Name: "Catan", Stock: 5})
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap.Catalog[0].Stock = 99

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Catalog[0].Stock != 5 {
		t.Fatal("mutating a saved snapshot leaked into the store")
	}
}

func TestNewSeededCarriesCatalog(t *testing.T) {
	snap, err := NewSeeded().Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Catalog) == 0 {
		t.Fatal("seeded store has an empty catalog")
	}
	if snap.Cash.BalanceCents != domain.OpeningFloatCents {
		t.Fatalf("balance = %d, want opening float", snap.Cash.BalanceCents)
	}
}
