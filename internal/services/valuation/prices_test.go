package valuation

import (
	"math"
	"testing"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// approxEqual checks float equality within epsilon
func approxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPriceBook_ForwardFill(t *testing.T) {
	// Prices at day 1 (close=10) and day 3 (close=12), none at day 2.
	// Day 2 must resolve to 10: carried forward, not 0, not interpolated.
	prices := []models.PricePoint{
		{Ticker: "VAS", Date: day(2024, 1, 1), Close: 10},
		{Ticker: "VAS", Date: day(2024, 1, 3), Close: 12},
	}
	book := NewPriceBook(prices, nil)

	if got := book.Resolve("VAS", day(2024, 1, 2)); !approxEqual(got, 10, 1e-9) {
		t.Errorf("Resolve day 2 = %.4f, want 10", got)
	}
	if got := book.Resolve("VAS", day(2024, 1, 3)); !approxEqual(got, 12, 1e-9) {
		t.Errorf("Resolve day 3 = %.4f, want 12", got)
	}
	if got := book.Resolve("VAS", day(2024, 2, 1)); !approxEqual(got, 12, 1e-9) {
		t.Errorf("Resolve after last point = %.4f, want 12", got)
	}
}

func TestPriceBook_NoLookAhead(t *testing.T) {
	// Before the first observation there is nothing to carry forward.
	prices := []models.PricePoint{
		{Ticker: "VAS", Date: day(2024, 1, 10), Close: 10},
	}
	book := NewPriceBook(prices, nil)

	if got := book.Resolve("VAS", day(2024, 1, 9)); got != 0 {
		t.Errorf("Resolve before first price = %.4f, want 0", got)
	}
}

func TestPriceBook_TradePriceFallback(t *testing.T) {
	// No market data for the ticker: fall back to the latest trade price
	// on or before the date.
	txs := []models.Transaction{
		{ID: "1", Date: day(2024, 1, 5), Ticker: "NEW", Kind: models.TxBuy, Quantity: 10, UnitPrice: 4.50},
		{ID: "2", Date: day(2024, 3, 1), Ticker: "NEW", Kind: models.TxBuy, Quantity: 5, UnitPrice: 5.25},
	}
	book := NewPriceBook(nil, txs)

	if got := book.Resolve("NEW", day(2024, 2, 1)); !approxEqual(got, 4.50, 1e-9) {
		t.Errorf("Resolve with trade fallback = %.4f, want 4.50", got)
	}
	if got := book.Resolve("NEW", day(2024, 4, 1)); !approxEqual(got, 5.25, 1e-9) {
		t.Errorf("Resolve with later trade = %.4f, want 5.25", got)
	}
	if got := book.Resolve("NEW", day(2024, 1, 1)); got != 0 {
		t.Errorf("Resolve before first trade = %.4f, want 0", got)
	}
}

func TestPriceBook_MarketDataBeatsTradePrice(t *testing.T) {
	prices := []models.PricePoint{
		{Ticker: "VAS", Date: day(2024, 1, 1), Close: 10},
	}
	txs := []models.Transaction{
		{ID: "1", Date: day(2024, 1, 1), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 99},
	}
	book := NewPriceBook(prices, txs)

	if got := book.Resolve("VAS", day(2024, 1, 2)); !approxEqual(got, 10, 1e-9) {
		t.Errorf("Resolve = %.4f, want market close 10 over trade price 99", got)
	}
}

func TestPriceBook_UnknownTicker(t *testing.T) {
	book := NewPriceBook(nil, nil)
	if got := book.Resolve("NOPE", day(2024, 1, 1)); got != 0 {
		t.Errorf("Resolve unknown ticker = %.4f, want 0", got)
	}
}

func TestPriceBook_SkipsInvalidPoints(t *testing.T) {
	prices := []models.PricePoint{
		{Ticker: "VAS", Date: day(2024, 1, 1), Close: math.NaN()},
		{Ticker: "VAS", Date: day(2024, 1, 2), Close: -5},
		{Ticker: "VAS", Date: day(2024, 1, 3), Close: 11},
	}
	book := NewPriceBook(prices, nil)

	if got := book.Resolve("VAS", day(2024, 1, 2)); got != 0 {
		t.Errorf("Resolve over invalid points = %.4f, want 0", got)
	}
	if got := book.Resolve("VAS", day(2024, 1, 3)); !approxEqual(got, 11, 1e-9) {
		t.Errorf("Resolve valid point = %.4f, want 11", got)
	}
}
