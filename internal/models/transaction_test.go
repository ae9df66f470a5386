package models

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCashAmount(t *testing.T) {
	// Quantity alone carries the amount for pure cash movements.
	tx := Transaction{Kind: TxDeposit, Quantity: 1000}
	assert.Equal(t, 1000.0, tx.CashAmount())

	// With a unit price set, the amount is quantity times price.
	div := Transaction{Kind: TxDividend, Quantity: 100, UnitPrice: 0.45}
	assert.InDelta(t, 45.0, div.CashAmount(), 1e-9)
}

func TestTransactionValid(t *testing.T) {
	good := Transaction{Date: date(2024, 1, 1), Kind: TxBuy, Ticker: "VAS", Quantity: 10, UnitPrice: 10}
	assert.True(t, good.Valid())

	zeroDate := good
	zeroDate.Date = time.Time{}
	assert.False(t, zeroDate.Valid())

	nanQty := good
	nanQty.Quantity = math.NaN()
	assert.False(t, nanQty.Valid())

	infPrice := good
	infPrice.UnitPrice = math.Inf(1)
	assert.False(t, infPrice.Valid())
}

func TestSortTransactions_StableOnSameDate(t *testing.T) {
	txs := []Transaction{
		{ID: "b", Date: date(2024, 2, 1), Kind: TxSell},
		{ID: "c", Date: date(2024, 1, 1), Kind: TxBuy},
		{ID: "d", Date: date(2024, 2, 1), Kind: TxBuy},
	}

	sorted := SortTransactions(txs)
	assert.Equal(t, "c", sorted[0].ID)
	// Same date: ledger order preserved.
	assert.Equal(t, "b", sorted[1].ID)
	assert.Equal(t, "d", sorted[2].ID)

	// Input untouched.
	assert.Equal(t, "b", txs[0].ID)
}

func TestIsCashKind(t *testing.T) {
	assert.True(t, IsCashKind(TxDeposit))
	assert.True(t, IsCashKind(TxDividend))
	assert.False(t, IsCashKind(TxBuy))
	assert.False(t, IsCashKind(TxSell))
}

func TestDedupeInstruments_LastWins(t *testing.T) {
	instruments := []Instrument{
		{Ticker: "VAS", Name: "First"},
		{Ticker: "IVV", Name: "Other"},
		{Ticker: "VAS", Name: "Second"},
	}

	deduped := DedupeInstruments(instruments)
	assert.Len(t, deduped, 2)

	byTicker := InstrumentsByTicker(deduped)
	assert.Equal(t, "Second", byTicker["VAS"].Name)
	assert.Equal(t, "Other", byTicker["IVV"].Name)
}
