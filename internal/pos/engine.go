// Package pos implements the terminal side of the point of sale: the
// catalog, the cart and sale engine, and the cash drawer ledger. An
// Engine owns the working snapshot in memory and rewrites the whole
// document through its Store after every mutating operation.
package pos

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gameshop/backend/internal/domain"
	"gameshop/backend/internal/store"
	"gameshop/backend/internal/xid"
)

// Pusher ships the current snapshot to the sync server. Push must not
// block the caller; failures are the pusher's problem to log.
type Pusher interface {
	Push(snap *domain.Snapshot)
}

// NoopPusher satisfies Pusher for terminals running without a server.
type NoopPusher struct{}

func (NoopPusher) Push(*domain.Snapshot) {}

type Options struct {
	// ClampStock makes Checkout reject lines that would drive stock
	// negative. Off by default: the drawer keeps selling and the
	// negative count surfaces on the dashboard instead.
	ClampStock bool
}

type Engine struct {
	st     store.Store
	pusher Pusher
	opts   Options

	snap *domain.Snapshot
	cart map[string]int
}

// New loads the working snapshot from st. A nil pusher disables sync.
func New(ctx context.Context, st store.Store, pusher Pusher, opts Options) (*Engine, error) {
	if pusher == nil {
		pusher = NoopPusher{}
	}
	snap, err := st.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &Engine{st: st, pusher: pusher, opts: opts, snap: snap, cart: map[string]int{}}, nil
}

func (e *Engine) Snapshot() *domain.Snapshot {
	return e.snap.Clone()
}

func (e *Engine) BalanceCents() int64 {
	return e.snap.Cash.BalanceCents
}

// persist writes the whole snapshot and then hands it to the pusher.
// The in-memory state is not rolled back on a write failure; the next
// successful persist carries it.
func (e *Engine) persist(ctx context.Context) error {
	if err := e.st.Save(ctx, e.snap); err != nil {
		return err
	}
	e.pusher.Push(e.snap.Clone())
	return nil
}

func (e *Engine) findItem(id string) *domain.Item {
	for i := range e.snap.Catalog {
		if e.snap.Catalog[i].ID == id {
			return &e.snap.Catalog[i]
		}
	}
	return nil
}

// Catalog returns the items sorted by id.
func (e *Engine) Catalog() []domain.Item {
	out := make([]domain.Item, len(e.snap.Catalog))
	copy(out, e.snap.Catalog)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AddCatalogItem inserts the item, or replaces the entry with the same
// id so price corrections do not need a remove/add pair.
func (e *Engine) AddCatalogItem(ctx context.Context, item domain.Item) error {
	if item.ID == "" || item.Name == "" || item.PriceCents < 0 {
		return fmt.Errorf("%w: catalog item needs an id, a name and a non-negative price", store.ErrInvalidAmount)
	}
	if existing := e.findItem(item.ID); existing != nil {
		*existing = item
	} else {
		e.snap.Catalog = append(e.snap.Catalog, item)
	}
	return e.persist(ctx)
}

func (e *Engine) RemoveCatalogItem(ctx context.Context, id string) error {
	for i := range e.snap.Catalog {
		if e.snap.Catalog[i].ID == id {
			e.snap.Catalog = append(e.snap.Catalog[:i], e.snap.Catalog[i+1:]...)
			delete(e.cart, id)
			return e.persist(ctx)
		}
	}
	return fmt.Errorf("%w: item %s", store.ErrNotFound, id)
}

func (e *Engine) SetStock(ctx context.Context, id string, stock int) error {
	item := e.findItem(id)
	if item == nil {
		return fmt.Errorf("%w: item %s", store.ErrNotFound, id)
	}
	item.Stock = stock
	return e.persist(ctx)
}

// AddItem puts qty units of the item into the cart. The check is
// against stock at call time; stock itself only moves at checkout.
func (e *Engine) AddItem(itemID string, qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", store.ErrInvalidAmount)
	}
	item := e.findItem(itemID)
	if item == nil {
		return fmt.Errorf("%w: item %s", store.ErrNotFound, itemID)
	}
	if e.cart[itemID]+qty > item.Stock {
		return fmt.Errorf("%w: item %s has %d in stock", store.ErrOutOfStock, itemID, item.Stock)
	}
	e.cart[itemID] += qty
	return nil
}

// RemoveItem takes qty units out of the cart, clamping at zero.
func (e *Engine) RemoveItem(itemID string, qty int) {
	if qty <= 0 {
		return
	}
	left := e.cart[itemID] - qty
	if left <= 0 {
		delete(e.cart, itemID)
		return
	}
	e.cart[itemID] = left
}

func (e *Engine) ClearCart() {
	e.cart = map[string]int{}
}

// Cart returns the current lines sorted by item id.
func (e *Engine) Cart() []domain.SaleLine {
	lines := make([]domain.SaleLine, 0, len(e.cart))
	for id, qty := range e.cart {
		item := e.findItem(id)
		if item == nil {
			continue
		}
		lines = append(lines, domain.SaleLine{
			ItemID:         id,
			Qty:            qty,
			UnitPriceCents: item.PriceCents,
			SubtotalCents:  item.PriceCents * int64(qty),
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ItemID < lines[j].ItemID })
	return lines
}

func (e *Engine) CartTotalCents() int64 {
	var total int64
	for _, line := range e.Cart() {
		total += line.SubtotalCents
	}
	return total
}

// Checkout turns the cart into a Sale. A requested voucher only takes
// effect on a cash sale whose pre-discount total reaches the threshold;
// otherwise the request is silently ignored. Stock is decremented per
// line without a fresh availability check.
func (e *Engine) Checkout(ctx context.Context, seller, method string, voucherRequested bool) (*domain.Sale, error) {
	if method != domain.PaymentCash && method != domain.PaymentCard {
		return nil, fmt.Errorf("%w: unknown payment method %q", store.ErrInvalidAmount, method)
	}
	lines := e.Cart()
	var total int64
	for _, line := range lines {
		total += line.SubtotalCents
	}
	if len(lines) == 0 || total <= 0 {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidAmount)
	}

	var discount int64
	if voucherRequested && method == domain.PaymentCash && total >= domain.VoucherMinTotalCents {
		discount = domain.VoucherDiscountCents
	}
	total -= discount
	if total < 0 {
		total = 0
	}

	if e.opts.ClampStock {
		for _, line := range lines {
			if item := e.findItem(line.ItemID); item != nil && item.Stock < line.Qty {
				return nil, fmt.Errorf("%w: item %s has %d in stock", store.ErrOutOfStock, line.ItemID, item.Stock)
			}
		}
	}
	for _, line := range lines {
		if item := e.findItem(line.ItemID); item != nil {
			item.Stock -= line.Qty
		}
	}

	sale := domain.Sale{
		ID:            xid.New("sale"),
		CreatedAt:     time.Now().UTC(),
		Seller:        seller,
		Lines:         lines,
		TotalCents:    total,
		DiscountCents: discount,
		PaymentMethod: method,
	}
	e.snap.Sales = append(e.snap.Sales, sale)

	if method == domain.PaymentCash {
		e.snap.Cash.BalanceCents += total
	}
	if discount > 0 {
		e.snap.Cash.CashVoucherCount++
	}
	if method == domain.PaymentCard {
		e.snap.Cash.CardVoucherCount++
	}
	e.cart = map[string]int{}

	if err := e.persist(ctx); err != nil {
		return &sale, err
	}
	return &sale, nil
}

// RecordReturn restocks the listed lines against an existing sale and
// takes the refund back out of the drawer.
func (e *Engine) RecordReturn(ctx context.Context, saleID, seller, reason string, refundCents int64, lines []domain.ReturnLine) (*domain.Return, error) {
	if refundCents < 0 {
		return nil, fmt.Errorf("%w: refund must not be negative", store.ErrInvalidAmount)
	}
	found := false
	for i := range e.snap.Sales {
		if e.snap.Sales[i].ID == saleID {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: sale %s", store.ErrNotFound, saleID)
	}

	for _, line := range lines {
		if item := e.findItem(line.ItemID); item != nil {
			item.Stock += line.Qty
		}
	}
	ret := domain.Return{
		ID:          xid.New("ret"),
		CreatedAt:   time.Now().UTC(),
		SaleID:      saleID,
		RefundCents: refundCents,
		Reason:      reason,
		Seller:      seller,
		Lines:       lines,
	}
	e.snap.Returns = append(e.snap.Returns, ret)
	e.snap.Cash.BalanceCents -= refundCents

	if err := e.persist(ctx); err != nil {
		return &ret, err
	}
	return &ret, nil
}

// Withdraw takes cash out of the drawer and records it in the ledger.
func (e *Engine) Withdraw(ctx context.Context, seller string, amountCents int64) (*domain.Withdrawal, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: withdrawal must be positive", store.ErrInvalidAmount)
	}
	if amountCents > e.snap.Cash.BalanceCents {
		return nil, fmt.Errorf("%w: drawer holds %d cents", store.ErrInsufficientFunds, e.snap.Cash.BalanceCents)
	}
	e.snap.Cash.BalanceCents -= amountCents
	wd := domain.Withdrawal{
		ID:                xid.New("wd"),
		AmountCents:       amountCents,
		CreatedAt:         time.Now().UTC(),
		Seller:            seller,
		BalanceAfterCents: e.snap.Cash.BalanceCents,
	}
	e.snap.Withdrawals = append(e.snap.Withdrawals, wd)

	if err := e.persist(ctx); err != nil {
		return &wd, err
	}
	return &wd, nil
}

// CloseBatch ends the voucher accounting period: both counters reset
// and the withdrawal log is cleared. The balance carries over.
func (e *Engine) CloseBatch(ctx context.Context) error {
	e.snap.Cash.CashVoucherCount = 0
	e.snap.Cash.CardVoucherCount = 0
	e.snap.Withdrawals = []domain.Withdrawal{}
	return e.persist(ctx)
}
