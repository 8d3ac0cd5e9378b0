package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store"
)

func TestLoadMissingFileYieldsFreshSnapshot(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.json"))
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if snap.Cash.BalanceCents != domain.OpeningFloatCents {
		t.Fatalf("balance = %d, want opening float", snap.Cash.BalanceCents)
	}
	if snap.Catalog == nil || snap.Sales == nil {
		t.Fatal("collections must be non-nil")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shop.json")
	s := New(path)

	snap := domain.NewSnapshot()
	snap.Catalog = append(snap.Catalog, domain.Item{ID: "J1", Name: "Catan", PriceCents: 1500, Stock: 12})
	snap.Cash.BalanceCents = 21500
	snap.Cash.CashVoucherCount = 2

	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Catalog) != 1 || loaded.Catalog[0].Name != "Catan" {
		t.Fatalf("catalog = %+v", loaded.Catalog)
	}
	if loaded.Cash.BalanceCents != 21500 || loaded.Cash.CashVoucherCount != 2 {
		t.Fatalf("cash = %+v", loaded.Cash)
	}
}

func TestLoadDefaultFillsOlderDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	// A document written by an older variant: catalog only.
	old := `{"catalog": [{"id": "J1", "name": "Catan", "price_cents": 1500, "stock": 3}]}`
	if err := os.WriteFile(path, []byte(old), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	snap, err := New(path).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Catalog) != 1 {
		t.Fatalf("catalog = %+v", snap.Catalog)
	}
	if snap.Cash.BalanceCents != domain.OpeningFloatCents {
		t.Fatalf("missing cash key not default-filled: %+v", snap.Cash)
	}
	if snap.Sales == nil || snap.Withdrawals == nil {
		t.Fatal("missing collections not default-filled")
	}
}

func TestLoadCorruptFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := New(path).Load(context.Background()); !errors.Is(err, store.ErrMalformedPayload) {
		t.Fatalf("Load = %v, want ErrMalformedPayload", err)
	}
}

func TestSaveOverwritesAtomically(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "shop.json")
	s := New(path)

	first := domain.NewSnapshot()
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := domain.NewSnapshot()
	second.Cash.BalanceCents = 99
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Cash.BalanceCents != 99 {
		t.Fatalf("balance = %d, want the second write", loaded.Cash.BalanceCents)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}
