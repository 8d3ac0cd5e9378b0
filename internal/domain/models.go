package domain

import "time"

// All money values are integer cents.
const (
	// VoucherDiscountCents is the flat discount a redeemed voucher grants.
	VoucherDiscountCents int64 = 100
	// VoucherMinTotalCents is the pre-discount total a cash sale must reach
	// before a voucher request takes effect.
	VoucherMinTotalCents int64 = 1000
	// OpeningFloatCents is the drawer balance a brand-new store starts with.
	OpeningFloatCents int64 = 20000
	// LowStockCutoff flags catalog items whose stock is at or below it.
	LowStockCutoff = 5
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
)

type Item struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
	ImageRef   string `json:"image,omitempty"`
}

type SaleLine struct {
	ItemID         string `json:"item_id"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	SubtotalCents  int64  `json:"subtotal_cents"`
}

// Sale is immutable once appended to the sale log.
type Sale struct {
	ID            string     `json:"id"`
	CreatedAt     time.Time  `json:"created_at"`
	Seller        string     `json:"seller"`
	Lines         []SaleLine `json:"lines"`
	TotalCents    int64      `json:"total_cents"`
	DiscountCents int64      `json:"discount_cents"`
	PaymentMethod string     `json:"payment_method"`
}

type ReturnLine struct {
	ItemID string `json:"item_id"`
	Qty    int    `json:"qty"`
}

type Return struct {
	ID          string       `json:"id"`
	CreatedAt   time.Time    `json:"created_at"`
	SaleID      string       `json:"sale_id"`
	RefundCents int64        `json:"refund_cents"`
	Reason      string       `json:"reason"`
	Seller      string       `json:"seller"`
	Lines       []ReturnLine `json:"lines"`
}

type Withdrawal struct {
	ID                string    `json:"id"`
	AmountCents       int64     `json:"amount_cents"`
	CreatedAt         time.Time `json:"created_at"`
	Seller            string    `json:"seller"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
}

type CashState struct {
	BalanceCents     int64 `json:"balance_cents"`
	CashVoucherCount int   `json:"cash_voucher_count"`
	CardVoucherCount int   `json:"card_voucher_count"`
}

// Snapshot is the whole persisted store document. Every mutating
// operation rewrites it wholesale; the last writer wins.
type Snapshot struct {
	Catalog     []Item       `json:"catalog"`
	Sales       []Sale       `json:"sales"`
	Returns     []Return     `json:"returns"`
	Withdrawals []Withdrawal `json:"withdrawals"`
	Cash        CashState    `json:"cash"`
}

// NewSnapshot returns a fresh store document with the opening float and
// non-nil collections.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Catalog:     []Item{},
		Sales:       []Sale{},
		Returns:     []Return{},
		Withdrawals: []Withdrawal{},
		Cash:        CashState{BalanceCents: OpeningFloatCents},
	}
}

// Clone deep-copies the snapshot so callers can hand it out without
// exposing internal slices.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Catalog:     make([]Item, len(s.Catalog)),
		Sales:       make([]Sale, len(s.Sales)),
		Returns:     make([]Return, len(s.Returns)),
		Withdrawals: make([]Withdrawal, len(s.Withdrawals)),
		Cash:        s.Cash,
	}
	copy(out.Catalog, s.Catalog)
	copy(out.Withdrawals, s.Withdrawals)
	for i, sale := range s.Sales {
		lines := make([]SaleLine, len(sale.Lines))
		copy(lines, sale.Lines)
		sale.Lines = lines
		out.Sales[i] = sale
	}
	for i, ret := range s.Returns {
		lines := make([]ReturnLine, len(ret.Lines))
		copy(lines, ret.Lines)
		ret.Lines = lines
		out.Returns[i] = ret
	}
	return out
}

// SyncPayload is the wire form a terminal pushes to the server. Every
// key is optional; absent keys leave the corresponding server value
// untouched. A non-nil Catalog replaces the server catalog wholesale.
type SyncPayload struct {
	Catalog          []Item       `json:"catalog,omitempty"`
	Sales            []Sale       `json:"sales,omitempty"`
	Returns          []Return     `json:"returns,omitempty"`
	Withdrawals      []Withdrawal `json:"withdrawals,omitempty"`
	BalanceCents     *int64       `json:"balance_cents,omitempty"`
	CashVoucherCount *int         `json:"cash_voucher_count,omitempty"`
	CardVoucherCount *int         `json:"card_voucher_count,omitempty"`
}

// PayloadFromSnapshot builds the full-state push payload a terminal
// sends after every mutating operation.
func PayloadFromSnapshot(snap *Snapshot) SyncPayload {
	clone := snap.Clone()
	balance := clone.Cash.BalanceCents
	cashVouchers := clone.Cash.CashVoucherCount
	cardVouchers := clone.Cash.CardVoucherCount
	return SyncPayload{
		Catalog:          clone.Catalog,
		Sales:            clone.Sales,
		Returns:          clone.Returns,
		Withdrawals:      clone.Withdrawals,
		BalanceCents:     &balance,
		CashVoucherCount: &cashVouchers,
		CardVoucherCount: &cardVouchers,
	}
}

type SyncResult struct {
	AcceptedSales       int `json:"accepted_sales"`
	AcceptedReturns     int `json:"accepted_returns"`
	AcceptedWithdrawals int `json:"accepted_withdrawals"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type DayTotal struct {
	Day        string `json:"day"`
	TotalCents int64  `json:"total_cents"`
}

type HourTotal struct {
	Hour       int   `json:"hour"`
	TotalCents int64 `json:"total_cents"`
}

type SellerTotal struct {
	Seller     string `json:"seller"`
	TotalCents int64  `json:"total_cents"`
}

type ItemQty struct {
	ItemID string `json:"item_id"`
	Name   string `json:"name"`
	Qty    int    `json:"qty"`
}

// Dashboard is the read-only view model the web dashboard renders.
// Fully derived from a snapshot; recomputed on every request.
type Dashboard struct {
	BalanceCents      int64         `json:"balance_cents"`
	LastWithdrawal    *Withdrawal   `json:"last_withdrawal,omitempty"`
	SalesToday        int           `json:"sales_today"`
	TotalTodayCents   int64         `json:"total_today_cents"`
	ByDay             []DayTotal    `json:"by_day"`
	ByHour            []HourTotal   `json:"by_hour"`
	TopSellers        []SellerTotal `json:"top_sellers"`
	TopItems          []ItemQty     `json:"top_items"`
	LowStock          []Item        `json:"low_stock"`
	RecentWithdrawals []Withdrawal  `json:"recent_withdrawals"`
	CashVoucherCount  int           `json:"cash_voucher_count"`
	CardVoucherCount  int           `json:"card_voucher_count"`
}
