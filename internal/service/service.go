// Package service implements the shop server: it merges terminal sync
// payloads into the authoritative snapshot and serves read views of it.
package service

import (
	"context"
	"sync"
	"time"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/report"
	"gameshop/backend/internal/store"
)

type Service struct {
	mu sync.Mutex
	st store.Store
}

func New(st store.Store) *Service {
	return &Service{st: st}
}

// Snapshot returns the current authoritative document.
func (s *Service) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Load(ctx)
}

// Dashboard builds the view model from the current snapshot.
func (s *Service) Dashboard(ctx context.Context, now time.Time) (domain.Dashboard, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return domain.Dashboard{}, err
	}
	return report.Build(snap, now), nil
}

// ApplySync merges a terminal payload into the snapshot. Identity is by
// record id only: a sale, return or withdrawal already present is
// skipped without comparing content, which makes the merge idempotent.
// Balance and voucher counters overwrite unconditionally when the
// payload carries them; a non-nil catalog replaces the server catalog
// wholesale.
func (s *Service) ApplySync(ctx context.Context, payload domain.SyncPayload) (domain.SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.st.Load(ctx)
	if err != nil {
		return domain.SyncResult{}, err
	}

	if payload.BalanceCents != nil {
		snap.Cash.BalanceCents = *payload.BalanceCents
	}
	if payload.CashVoucherCount != nil {
		snap.Cash.CashVoucherCount = *payload.CashVoucherCount
	}
	if payload.CardVoucherCount != nil {
		snap.Cash.CardVoucherCount = *payload.CardVoucherCount
	}

	// When the payload carries a catalog, stock adjustments for accepted
	// records would double-count: the replaced catalog already reflects
	// them on the terminal's side.
	catalogReplaced := payload.Catalog != nil
	if catalogReplaced {
		snap.Catalog = make([]domain.Item, len(payload.Catalog))
		copy(snap.Catalog, payload.Catalog)
	}

	adjustStock := func(itemID string, delta int) {
		for i := range snap.Catalog {
			if snap.Catalog[i].ID == itemID {
				snap.Catalog[i].Stock += delta
				return
			}
		}
	}

	var result domain.SyncResult

	saleIDs := make(map[string]struct{}, len(snap.Sales))
	for _, sale := range snap.Sales {
		saleIDs[sale.ID] = struct{}{}
	}
	for _, sale := range payload.Sales {
		if _, ok := saleIDs[sale.ID]; ok {
			continue
		}
		saleIDs[sale.ID] = struct{}{}
		snap.Sales = append(snap.Sales, sale)
		result.AcceptedSales++
		if !catalogReplaced {
			for _, line := range sale.Lines {
				adjustStock(line.ItemID, -line.Qty)
			}
		}
	}

	returnIDs := make(map[string]struct{}, len(snap.Returns))
	for _, ret := range snap.Returns {
		returnIDs[ret.ID] = struct{}{}
	}
	for _, ret := range payload.Returns {
		if _, ok := returnIDs[ret.ID]; ok {
			continue
		}
		returnIDs[ret.ID] = struct{}{}
		snap.Returns = append(snap.Returns, ret)
		result.AcceptedReturns++
		if !catalogReplaced {
			for _, line := range ret.Lines {
				adjustStock(line.ItemID, line.Qty)
			}
		}
		snap.Cash.BalanceCents -= ret.RefundCents
	}

	withdrawalIDs := make(map[string]struct{}, len(snap.Withdrawals))
	for _, wd := range snap.Withdrawals {
		withdrawalIDs[wd.ID] = struct{}{}
	}
	for _, wd := range payload.Withdrawals {
		if _, ok := withdrawalIDs[wd.ID]; ok {
			continue
		}
		withdrawalIDs[wd.ID] = struct{}{}
		snap.Withdrawals = append(snap.Withdrawals, wd)
		result.AcceptedWithdrawals++
	}

	if err := s.st.Save(ctx, snap); err != nil {
		return domain.SyncResult{}, err
	}
	return result, nil
}
