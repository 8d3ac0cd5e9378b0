// Package report derives the dashboard view model from a snapshot. All
// functions are pure; nothing here mutates or persists.
package report

import (
	"sort"
	"time"

	"gameshop/backend/internal/domain"
)

const dayFormat = "2006-01-02"

// Dashboard hours of business, inclusive.
const (
	openingHour = 9
	closingHour = 21
)

// Build recomputes the whole dashboard from the snapshot. now anchors
// "today" and the trailing seven-day window.
func Build(snap *domain.Snapshot, now time.Time) domain.Dashboard {
	now = now.UTC()
	today := now.Format(dayFormat)

	dash := domain.Dashboard{
		BalanceCents:     snap.Cash.BalanceCents,
		CashVoucherCount: snap.Cash.CashVoucherCount,
		CardVoucherCount: snap.Cash.CardVoucherCount,
		ByDay:            make([]domain.DayTotal, 0, 7),
		ByHour:           make([]domain.HourTotal, 0, closingHour-openingHour+1),
		TopSellers:       []domain.SellerTotal{},
		TopItems:         []domain.ItemQty{},
		LowStock:         []domain.Item{},
	}

	byDay := map[string]int64{}
	byHour := map[int]int64{}
	bySeller := map[string]int64{}
	qtyByItem := map[string]int{}

	for _, sale := range snap.Sales {
		ts := sale.CreatedAt.UTC()
		byDay[ts.Format(dayFormat)] += sale.TotalCents
		if ts.Format(dayFormat) != today {
			continue
		}
		dash.SalesToday++
		dash.TotalTodayCents += sale.TotalCents
		byHour[ts.Hour()] += sale.TotalCents
		bySeller[sale.Seller] += sale.TotalCents
		for _, line := range sale.Lines {
			qtyByItem[line.ItemID] += line.Qty
		}
	}

	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dayFormat)
		dash.ByDay = append(dash.ByDay, domain.DayTotal{Day: day, TotalCents: byDay[day]})
	}
	for h := openingHour; h <= closingHour; h++ {
		dash.ByHour = append(dash.ByHour, domain.HourTotal{Hour: h, TotalCents: byHour[h]})
	}

	for seller, total := range bySeller {
		dash.TopSellers = append(dash.TopSellers, domain.SellerTotal{Seller: seller, TotalCents: total})
	}
	sort.Slice(dash.TopSellers, func(i, j int) bool {
		if dash.TopSellers[i].TotalCents != dash.TopSellers[j].TotalCents {
			return dash.TopSellers[i].TotalCents > dash.TopSellers[j].TotalCents
		}
		return dash.TopSellers[i].Seller < dash.TopSellers[j].Seller
	})
	if len(dash.TopSellers) > 5 {
		dash.TopSellers = dash.TopSellers[:5]
	}

	names := map[string]string{}
	for _, item := range snap.Catalog {
		names[item.ID] = item.Name
		if item.Stock <= domain.LowStockCutoff {
			dash.LowStock = append(dash.LowStock, item)
		}
	}
	sort.Slice(dash.LowStock, func(i, j int) bool {
		if dash.LowStock[i].Stock != dash.LowStock[j].Stock {
			return dash.LowStock[i].Stock < dash.LowStock[j].Stock
		}
		return dash.LowStock[i].ID < dash.LowStock[j].ID
	})

	for id, qty := range qtyByItem {
		dash.TopItems = append(dash.TopItems, domain.ItemQty{ItemID: id, Name: names[id], Qty: qty})
	}
	sort.Slice(dash.TopItems, func(i, j int) bool {
		if dash.TopItems[i].Qty != dash.TopItems[j].Qty {
			return dash.TopItems[i].Qty > dash.TopItems[j].Qty
		}
		return dash.TopItems[i].ItemID < dash.TopItems[j].ItemID
	})
	if len(dash.TopItems) > 10 {
		dash.TopItems = dash.TopItems[:10]
	}

	if n := len(snap.Withdrawals); n > 0 {
		last := snap.Withdrawals[n-1]
		dash.LastWithdrawal = &last
		start := n - 5
		if start < 0 {
			start = 0
		}
		recent := make([]domain.Withdrawal, 0, 5)
		for i := n - 1; i >= start; i-- {
			recent = append(recent, snap.Withdrawals[i])
		}
		dash.RecentWithdrawals = recent
	} else {
		dash.RecentWithdrawals = []domain.Withdrawal{}
	}

	return dash
}
