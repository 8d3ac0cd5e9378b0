package service

import (
	"context"
	"testing"
	"time"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store/memory"
)

func int64p(v int64) *int64 { return &v }
func intp(v int) *int       { return &v }

func testSale(id string, totalCents int64, lines ...domain.SaleLine) domain.Sale {
	return domain.Sale{
		ID:            id,
		CreatedAt:     time.Now().UTC(),
		Seller:        "ana",
		Lines:         lines,
		TotalCents:    totalCents,
		PaymentMethod: domain.PaymentCash,
	}
}

func TestApplySyncAppendsNewRecords(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())

	payload := domain.SyncPayload{
		Sales: []domain.Sale{
			testSale("sale-1", 1500, domain.SaleLine{ItemID: "J1", Qty: 1, UnitPriceCents: 1500, SubtotalCents: 1500}),
		},
		Withdrawals: []domain.Withdrawal{
			{ID: "wd-1", AmountCents: 5000, CreatedAt: time.Now().UTC(), Seller: "ana", BalanceAfterCents: 16500},
		},
		BalanceCents: int64p(16500),
	}

	result, err := svc.ApplySync(ctx, payload)
	if err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	if result.AcceptedSales != 1 || result.AcceptedWithdrawals != 1 {
		t.Fatalf("accepted = %+v, want 1 sale and 1 withdrawal", result)
	}

	snap, err := svc.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snap.Sales) != 1 || len(snap.Withdrawals) != 1 {
		t.Fatalf("snapshot holds %d sales, %d withdrawals", len(snap.Sales), len(snap.Withdrawals))
	}
	if snap.Cash.BalanceCents != 16500 {
		t.Fatalf("balance = %d, want 16500", snap.Cash.BalanceCents)
	}
}

func TestApplySyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())

	payload := domain.SyncPayload{
		Catalog: []domain.Item{{ID: "J1", Name: "Catan", PriceCents: 1500, Stock: 9}},
		Sales: []domain.Sale{
			testSale("sale-1", 1500, domain.SaleLine{ItemID: "J1", Qty: 1, UnitPriceCents: 1500, SubtotalCents: 1500}),
		},
		Returns: []domain.Return{
			{ID: "ret-1", CreatedAt: time.Now().UTC(), SaleID: "sale-1", RefundCents: 1500, Seller: "ana", Lines: []domain.ReturnLine{{ItemID: "J1", Qty: 1}}},
		},
		Withdrawals: []domain.Withdrawal{{ID: "wd-1", AmountCents: 1000, BalanceAfterCents: 19000}},
	}

	first, err := svc.ApplySync(ctx, payload)
	if err != nil {
		t.Fatalf("first ApplySync: %v", err)
	}
	if first.AcceptedSales != 1 || first.AcceptedReturns != 1 || first.AcceptedWithdrawals != 1 {
		t.Fatalf("first accepted = %+v", first)
	}

	second, err := svc.ApplySync(ctx, payload)
	if err != nil {
		t.Fatalf("second ApplySync: %v", err)
	}
	if second.AcceptedSales != 0 || second.AcceptedReturns != 0 || second.AcceptedWithdrawals != 0 {
		t.Fatalf("second accepted = %+v, want all zero", second)
	}

	snap, _ := svc.Snapshot(ctx)
	if len(snap.Sales) != 1 || len(snap.Returns) != 1 || len(snap.Withdrawals) != 1 {
		t.Fatalf("collections grew on replay: %d/%d/%d", len(snap.Sales), len(snap.Returns), len(snap.Withdrawals))
	}
	// The refund was applied once, on first acceptance only.
	if want := domain.OpeningFloatCents - 1500; snap.Cash.BalanceCents != want {
		t.Fatalf("balance = %d, want %d", snap.Cash.BalanceCents, want)
	}
}

func TestApplySyncCatalogReplacesWholesale(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.NewSeeded())

	payload := domain.SyncPayload{
		Catalog: []domain.Item{{ID: "X1", Name: "Azul", PriceCents: 3000, Stock: 4}},
	}
	if _, err := svc.ApplySync(ctx, payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	snap, _ := svc.Snapshot(ctx)
	if len(snap.Catalog) != 1 || snap.Catalog[0].ID != "X1" {
		t.Fatalf("catalog = %+v, want the pushed catalog only", snap.Catalog)
	}
}

func TestApplySyncStockAdjustmentSkippedWhenCatalogPushed(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())

	seed := domain.SyncPayload{Catalog: []domain.Item{{ID: "J1", Name: "Catan", PriceCents: 1500, Stock: 10}}}
	if _, err := svc.ApplySync(ctx, seed); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}

	sale := testSale("sale-1", 1500, domain.SaleLine{ItemID: "J1", Qty: 1, UnitPriceCents: 1500, SubtotalCents: 1500})

	// Payload without a catalog: the server must adjust its own stock.
	if _, err := svc.ApplySync(ctx, domain.SyncPayload{Sales: []domain.Sale{sale}}); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	snap, _ := svc.Snapshot(ctx)
	if snap.Catalog[0].Stock != 9 {
		t.Fatalf("stock = %d, want 9 after catalog-less sale merge", snap.Catalog[0].Stock)
	}

	// Payload carrying the catalog: the replace already reflects the sale.
	sale2 := testSale("sale-2", 1500, domain.SaleLine{ItemID: "J1", Qty: 1, UnitPriceCents: 1500, SubtotalCents: 1500})
	payload := domain.SyncPayload{
		Catalog: []domain.Item{{ID: "J1", Name: "Catan", PriceCents: 1500, Stock: 8}},
		Sales:   []domain.Sale{sale, sale2},
	}
	if _, err := svc.ApplySync(ctx, payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	snap, _ = svc.Snapshot(ctx)
	if snap.Catalog[0].Stock != 8 {
		t.Fatalf("stock = %d, want 8 straight from the pushed catalog", snap.Catalog[0].Stock)
	}
}

func TestApplySyncCounterOverwrite(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())

	payload := domain.SyncPayload{
		CashVoucherCount: intp(3),
		CardVoucherCount: intp(7),
	}
	if _, err := svc.ApplySync(ctx, payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}
	snap, _ := svc.Snapshot(ctx)
	if snap.Cash.CashVoucherCount != 3 || snap.Cash.CardVoucherCount != 7 {
		t.Fatalf("counters = %d/%d, want 3/7", snap.Cash.CashVoucherCount, snap.Cash.CardVoucherCount)
	}
	// Balance untouched when the payload omits it.
	if snap.Cash.BalanceCents != domain.OpeningFloatCents {
		t.Fatalf("balance = %d, want opening float", snap.Cash.BalanceCents)
	}
}

func TestDashboardReflectsMergedState(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New())
	now := time.Now().UTC()

	payload := domain.SyncPayload{
		Catalog: []domain.Item{{ID: "J1", Name: "Catan", PriceCents: 1500, Stock: 2}},
		Sales: []domain.Sale{{
			ID: "sale-1", CreatedAt: now, Seller: "ana",
			Lines:      []domain.SaleLine{{ItemID: "J1", Qty: 1, UnitPriceCents: 1500, SubtotalCents: 1500}},
			TotalCents: 1500, PaymentMethod: domain.PaymentCash,
		}},
		BalanceCents: int64p(21500),
	}
	if _, err := svc.ApplySync(ctx, payload); err != nil {
		t.Fatalf("ApplySync: %v", err)
	}

	dash, err := svc.Dashboard(ctx, now)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if dash.SalesToday != 1 || dash.TotalTodayCents != 1500 {
		t.Fatalf("today = %d sales / %d cents", dash.SalesToday, dash.TotalTodayCents)
	}
	if dash.BalanceCents != 21500 {
		t.Fatalf("balance = %d, want 21500", dash.BalanceCents)
	}
	if len(dash.LowStock) != 1 {
		t.Fatalf("low stock entries = %d, want 1", len(dash.LowStock))
	}
}
