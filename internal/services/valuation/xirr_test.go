package valuation

import (
	"math"
	"testing"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

func TestXIRR_OneYearTenPercent(t *testing.T) {
	// -1000 now, +1100 exactly one year (365.25 days) later: rate = 10%.
	start := day(2023, 1, 1)
	flows := []CashFlow{
		{Date: start, Amount: -1000},
		{Date: start.Add(time.Duration(365.25 * 24 * float64(time.Hour))), Amount: 1100},
	}

	rate, ok := XIRR(flows)
	if !ok {
		t.Fatal("XIRR indeterminate, want convergence")
	}
	if !approxEqual(rate, 0.10, 1e-6) {
		t.Errorf("rate = %.6f, want 0.10", rate)
	}
}

func TestXIRR_MultipleFlows(t *testing.T) {
	flows := []CashFlow{
		{Date: day(2023, 1, 1), Amount: -1000},
		{Date: day(2023, 7, 1), Amount: -500},
		{Date: day(2024, 1, 1), Amount: 1700},
	}

	rate, ok := XIRR(flows)
	if !ok {
		t.Fatal("XIRR indeterminate, want convergence")
	}
	// Invested 1500, received 1700 within a year: rate sits well above 10%.
	if rate < 0.10 || rate > 0.40 {
		t.Errorf("rate = %.6f, want within (0.10, 0.40)", rate)
	}
	// The solved rate must zero the NPV.
	npv := 0.0
	for _, f := range flows {
		years := f.Date.Sub(flows[0].Date).Hours() / 24 / 365.25
		npv += f.Amount / math.Pow(1+rate, years)
	}
	if !approxEqual(npv, 0, 1e-3) {
		t.Errorf("NPV at solved rate = %.6f, want ~0", npv)
	}
}

func TestXIRR_NoSignChange(t *testing.T) {
	flows := []CashFlow{
		{Date: day(2023, 1, 1), Amount: -1000},
		{Date: day(2024, 1, 1), Amount: -500},
	}
	if _, ok := XIRR(flows); ok {
		t.Error("all-negative flows must be indeterminate")
	}
}

func TestXIRR_TooFewFlows(t *testing.T) {
	if _, ok := XIRR([]CashFlow{{Date: day(2023, 1, 1), Amount: -1000}}); ok {
		t.Error("single flow must be indeterminate")
	}
	if _, ok := XIRR(nil); ok {
		t.Error("empty flows must be indeterminate")
	}
}

func TestBuildCashFlows_DepositMode(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Date: day(2023, 1, 1), Kind: models.TxDeposit, Quantity: 1000},
		{ID: "2", Date: day(2023, 1, 2), Ticker: "VAS", Kind: models.TxBuy, Quantity: 50, UnitPrice: 10},
		{ID: "3", Date: day(2023, 6, 1), Kind: models.TxWithdrawal, Quantity: 200},
	}

	flows := BuildCashFlows(txs, 900, day(2024, 1, 1))
	// Deposit mode ignores the buy: deposit, withdrawal, terminal value.
	if len(flows) != 3 {
		t.Fatalf("flows = %d, want 3", len(flows))
	}
	if !approxEqual(flows[0].Amount, -1000, 1e-9) {
		t.Errorf("deposit flow = %.2f, want -1000", flows[0].Amount)
	}
	if !approxEqual(flows[1].Amount, 200, 1e-9) {
		t.Errorf("withdrawal flow = %.2f, want 200", flows[1].Amount)
	}
	if !approxEqual(flows[2].Amount, 900, 1e-9) {
		t.Errorf("terminal flow = %.2f, want 900", flows[2].Amount)
	}
}

func TestBuildCashFlows_TradeMode(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Date: day(2023, 1, 1), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 10, Fees: 5},
		{ID: "2", Date: day(2023, 6, 1), Ticker: "VAS", Kind: models.TxSell, Quantity: 4, UnitPrice: 12, Fees: 2},
	}

	flows := BuildCashFlows(txs, 80, day(2024, 1, 1))
	if len(flows) != 3 {
		t.Fatalf("flows = %d, want 3", len(flows))
	}
	if !approxEqual(flows[0].Amount, -105, 1e-9) {
		t.Errorf("buy flow = %.2f, want -105", flows[0].Amount)
	}
	if !approxEqual(flows[1].Amount, 46, 1e-9) {
		t.Errorf("sell flow = %.2f, want 46", flows[1].Amount)
	}
}

func TestBuildCashFlows_ExcludesFutureTransactions(t *testing.T) {
	txs := []models.Transaction{
		{ID: "1", Date: day(2023, 1, 1), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 10},
		{ID: "2", Date: day(2025, 1, 1), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 10},
	}

	flows := BuildCashFlows(txs, 120, day(2024, 1, 1))
	if len(flows) != 2 {
		t.Fatalf("flows = %d, want 2 (future buy excluded)", len(flows))
	}
}
