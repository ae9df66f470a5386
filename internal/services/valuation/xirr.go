package valuation

import (
	"math"
	"sort"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// CashFlow is a dated external cash flow for XIRR. Negative amounts are money
// in to the portfolio (invested), positive amounts are money out (proceeds,
// terminal value).
type CashFlow struct {
	Date   time.Time
	Amount float64
}

// BuildCashFlows derives the XIRR cash-flow schedule from a ledger and a
// terminal portfolio value. In deposit mode the flows are the deposits and
// withdrawals; in trade mode they are the buy costs and sell proceeds. The
// terminal value is appended as a positive flow at asOf.
func BuildCashFlows(transactions []models.Transaction, terminalValue float64, asOf time.Time) []CashFlow {
	mode := DetectCapitalMode(transactions)

	var flows []CashFlow
	for _, tx := range transactions {
		if !tx.Valid() || tx.Date.After(asOf) {
			continue
		}
		switch mode {
		case CapitalModeDeposit:
			switch tx.Kind {
			case models.TxDeposit:
				flows = append(flows, CashFlow{Date: tx.Date, Amount: -tx.CashAmount()})
			case models.TxWithdrawal:
				flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.CashAmount()})
			}
		case CapitalModeTrade:
			switch tx.Kind {
			case models.TxBuy:
				flows = append(flows, CashFlow{Date: tx.Date, Amount: -(tx.Quantity*tx.UnitPrice + tx.Fees)})
			case models.TxSell:
				flows = append(flows, CashFlow{Date: tx.Date, Amount: tx.Quantity*tx.UnitPrice - tx.Fees})
			}
		}
	}
	if len(flows) == 0 {
		return nil
	}
	if terminalValue > 0 {
		flows = append(flows, CashFlow{Date: asOf, Amount: terminalValue})
	}

	sort.SliceStable(flows, func(i, j int) bool { return flows[i].Date.Before(flows[j].Date) })
	return flows
}

// XIRR solves NPV(r) = Σ cf_i / (1+r)^(days_i/365.25) = 0 by Newton-Raphson.
// It converges when successive rate estimates differ by less than 1e-7,
// capped at 50 iterations. The second return is false when the rate is
// indeterminate: a degenerate derivative, no sign change in the flows, or no
// convergence. Callers must not read an indeterminate rate as zero.
func XIRR(flows []CashFlow) (float64, bool) {
	const (
		maxIter       = 50
		rateTolerance = 1e-7
		derivFloor    = 1e-10
		minRate       = -0.999
	)

	if len(flows) < 2 {
		return 0, false
	}

	hasNeg, hasPos := false, false
	for _, f := range flows {
		if f.Amount < 0 {
			hasNeg = true
		}
		if f.Amount > 0 {
			hasPos = true
		}
	}
	if !hasNeg || !hasPos {
		return 0, false
	}

	baseDate := flows[0].Date
	years := make([]float64, len(flows))
	for i, f := range flows {
		years[i] = f.Date.Sub(baseDate).Hours() / 24 / 365.25
	}

	rate := 0.1
	for iter := 0; iter < maxIter; iter++ {
		npv := 0.0
		dnpv := 0.0
		for i, f := range flows {
			base := 1 + rate
			if base <= 0 {
				rate = minRate
				base = 1 + rate
			}
			discount := math.Pow(base, years[i])
			if discount == 0 {
				continue
			}
			npv += f.Amount / discount
			dnpv -= years[i] * f.Amount / (discount * base)
		}

		if math.Abs(dnpv) < derivFloor {
			return 0, false
		}

		newRate := rate - npv/dnpv
		if newRate < minRate {
			newRate = minRate
		}
		if math.IsNaN(newRate) || math.IsInf(newRate, 0) {
			return 0, false
		}
		if math.Abs(newRate-rate) < rateTolerance {
			return newRate, true
		}
		rate = newRate
	}

	return 0, false
}
