// Package models defines data structures for folio
package models

import (
	"math"
	"sort"
	"strings"
	"time"
)

// TransactionKind categorizes a ledger entry.
type TransactionKind string

const (
	TxBuy        TransactionKind = "buy"
	TxSell       TransactionKind = "sell"
	TxDividend   TransactionKind = "dividend"
	TxDeposit    TransactionKind = "deposit"
	TxWithdrawal TransactionKind = "withdrawal"
	TxFee        TransactionKind = "fee"
)

// validTransactionKinds lists all accepted ledger entry kinds.
var validTransactionKinds = map[TransactionKind]bool{
	TxBuy:        true,
	TxSell:       true,
	TxDividend:   true,
	TxDeposit:    true,
	TxWithdrawal: true,
	TxFee:        true,
}

// ValidTransactionKind returns true if k is a valid transaction kind.
func ValidTransactionKind(k TransactionKind) bool {
	return validTransactionKinds[TransactionKind(strings.ToLower(string(k)))]
}

// IsCashKind returns true for kinds that move cash without moving units
// (dividend, deposit, withdrawal, fee).
func IsCashKind(k TransactionKind) bool {
	switch k {
	case TxDividend, TxDeposit, TxWithdrawal, TxFee:
		return true
	default:
		return false
	}
}

// Transaction is a single immutable ledger entry. Ticker is empty for pure
// cash movements (deposit, withdrawal, portfolio-level fee). Ledger replay
// order is date ascending, original ledger order on equal dates.
type Transaction struct {
	ID        string          `json:"id"`
	Date      time.Time       `json:"date"`
	Ticker    string          `json:"ticker,omitempty"`
	Kind      TransactionKind `json:"kind"`
	Quantity  float64         `json:"quantity"`
	UnitPrice float64         `json:"unit_price"`
	Fees      float64         `json:"fees"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"created_at"`
}

// CashAmount returns the cash value of a cash-kind transaction. Quantity
// carries the amount directly; when a unit price is present the amount is
// quantity × unit price (per-share dividends are entered that way).
func (t Transaction) CashAmount() float64 {
	if t.UnitPrice > 0 {
		return t.Quantity * t.UnitPrice
	}
	return t.Quantity
}

// Valid reports whether the transaction is usable for replay. Records with a
// zero date or non-finite numbers are skipped rather than failing the whole
// computation.
func (t Transaction) Valid() bool {
	if t.Date.IsZero() {
		return false
	}
	for _, v := range []float64{t.Quantity, t.UnitPrice, t.Fees} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return validTransactionKinds[t.Kind]
}

// SortTransactions orders a ledger copy by date ascending, preserving ledger
// order on equal dates. The input slice is not modified.
func SortTransactions(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
