// Package valuation implements the portfolio valuation and performance
// analytics engine: price resolution, ledger replay, point-in-time snapshots,
// performance series, risk statistics, and rebalancing orders.
package valuation

import (
	"sort"
	"strings"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// dustThreshold absorbs floating-point residue left by repeated buy/sell
// netting. Quantities at or below it are treated as zero.
const dustThreshold = 1e-6

// PriceBook resolves the price of a ticker as of a date. Market closes are
// preferred; when a ticker has no market history the most recent trade price
// on or before the date is used instead. Resolution never looks forward.
type PriceBook struct {
	closes      map[string][]models.PricePoint // per ticker, date ascending
	tradePrices map[string][]tradePrice        // per ticker, date ascending
}

type tradePrice struct {
	date  time.Time
	price float64
}

// NewPriceBook indexes price points and transaction prices for resolution.
// Invalid price points are skipped.
func NewPriceBook(prices []models.PricePoint, transactions []models.Transaction) *PriceBook {
	book := &PriceBook{
		closes:      make(map[string][]models.PricePoint),
		tradePrices: make(map[string][]tradePrice),
	}
	for _, p := range prices {
		if !p.Valid() {
			continue
		}
		ticker := strings.ToUpper(p.Ticker)
		book.closes[ticker] = append(book.closes[ticker], p)
	}
	for ticker := range book.closes {
		pts := book.closes[ticker]
		sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	}

	for _, tx := range transactions {
		if tx.Ticker == "" || !tx.Valid() || tx.UnitPrice <= 0 {
			continue
		}
		ticker := strings.ToUpper(tx.Ticker)
		book.tradePrices[ticker] = append(book.tradePrices[ticker], tradePrice{date: tx.Date, price: tx.UnitPrice})
	}
	for ticker := range book.tradePrices {
		tps := book.tradePrices[ticker]
		sort.SliceStable(tps, func(i, j int) bool { return tps[i].date.Before(tps[j].date) })
	}

	return book
}

// Resolve returns the latest close for ticker on or before asOf, falling back
// to the latest trade price on or before asOf, then 0.
func (b *PriceBook) Resolve(ticker string, asOf time.Time) float64 {
	ticker = strings.ToUpper(ticker)

	if pts := b.closes[ticker]; len(pts) > 0 {
		// Index of first point after asOf; the one before it is the answer.
		idx := sort.Search(len(pts), func(i int) bool { return pts[i].Date.After(asOf) })
		if idx > 0 {
			return pts[idx-1].Close
		}
	}

	if tps := b.tradePrices[ticker]; len(tps) > 0 {
		idx := sort.Search(len(tps), func(i int) bool { return tps[i].date.After(asOf) })
		if idx > 0 {
			return tps[idx-1].price
		}
	}

	return 0
}

// HasMarketData reports whether the ticker has at least one market close.
func (b *PriceBook) HasMarketData(ticker string) bool {
	return len(b.closes[strings.ToUpper(ticker)]) > 0
}
