package valuation

import (
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// CapitalMode selects how invested capital is accounted for a ledger.
type CapitalMode string

const (
	// CapitalModeDeposit defines invested capital as net deposits minus
	// withdrawals. Selected when the ledger contains any deposit or
	// withdrawal record.
	CapitalModeDeposit CapitalMode = "deposit"
	// CapitalModeTrade defines invested capital as buy cost minus sell
	// proceeds, fees included.
	CapitalModeTrade CapitalMode = "trade"
)

// DetectCapitalMode inspects the full ledger and picks the capital mode.
// The mode is fixed per ledger, never per date.
func DetectCapitalMode(transactions []models.Transaction) CapitalMode {
	for _, tx := range transactions {
		if tx.Kind == models.TxDeposit || tx.Kind == models.TxWithdrawal {
			return CapitalModeDeposit
		}
	}
	return CapitalModeTrade
}

// ledgerCursor replays the transaction ledger incrementally. Transactions are
// sorted by date with ledger order preserved on ties; the cursor advances as
// cutoff dates progress, so walking a date grid costs one pass over the ledger
// total rather than one pass per grid date.
type ledgerCursor struct {
	sorted []models.Transaction
	cursor int
	mode   CapitalMode

	holdings       map[string]float64
	tradeCapital   float64
	depositCapital float64
	cash           float64
}

// newLedgerCursor sorts the ledger and prepares replay state. Malformed
// records are dropped before sorting.
func newLedgerCursor(transactions []models.Transaction) *ledgerCursor {
	valid := make([]models.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.Valid() {
			valid = append(valid, tx)
		}
	}
	return &ledgerCursor{
		sorted:   models.SortTransactions(valid),
		mode:     DetectCapitalMode(valid),
		holdings: make(map[string]float64),
	}
}

// advanceTo processes all transactions with date <= cutoff.
func (c *ledgerCursor) advanceTo(cutoff time.Time) {
	for c.cursor < len(c.sorted) {
		tx := c.sorted[c.cursor]
		if tx.Date.After(cutoff) {
			break
		}
		c.apply(tx)
		c.cursor++
	}
}

func (c *ledgerCursor) apply(tx models.Transaction) {
	switch tx.Kind {
	case models.TxBuy:
		cost := tx.Quantity*tx.UnitPrice + tx.Fees
		c.holdings[tx.Ticker] += tx.Quantity
		c.tradeCapital += cost
		c.cash -= cost
	case models.TxSell:
		proceeds := tx.Quantity*tx.UnitPrice - tx.Fees
		c.holdings[tx.Ticker] -= tx.Quantity
		c.tradeCapital -= proceeds
		c.cash += proceeds
	case models.TxDeposit:
		amount := tx.CashAmount()
		c.depositCapital += amount
		c.cash += amount
	case models.TxWithdrawal:
		amount := tx.CashAmount()
		c.depositCapital -= amount
		c.cash -= amount
	case models.TxDividend:
		c.cash += tx.CashAmount()
	case models.TxFee:
		c.cash -= tx.CashAmount()
	}
}

// InvestedCapital returns the capital figure for the ledger's mode.
func (c *ledgerCursor) InvestedCapital() float64 {
	if c.mode == CapitalModeDeposit {
		return c.depositCapital
	}
	return c.tradeCapital
}

// Holdings returns a copy of the per-ticker quantities, dust excluded.
func (c *ledgerCursor) Holdings() map[string]float64 {
	out := make(map[string]float64, len(c.holdings))
	for ticker, qty := range c.holdings {
		if qty > dustThreshold {
			out[ticker] = qty
		}
	}
	return out
}

// Cash returns the running uninvested cash balance.
func (c *ledgerCursor) Cash() float64 {
	return c.cash
}

// Reconstruct replays the ledger up to cutoffDate and returns per-ticker
// quantities together with invested capital. Inputs are not mutated.
func Reconstruct(transactions []models.Transaction, cutoffDate time.Time) (map[string]float64, float64) {
	cursor := newLedgerCursor(transactions)
	cursor.advanceTo(cutoffDate)
	return cursor.Holdings(), cursor.InvestedCapital()
}
