package valuation

import (
	"testing"

	"github.com/kfenwick/folio/internal/models"
)

func TestRebalance_NeutralZone(t *testing.T) {
	// Position at 50% with a 50% target: diff 0, inside the ±1% band.
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 50, Price: 10, Value: 500, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Action != models.OrderNeutral {
		t.Errorf("action = %s, want neutral", orders[0].Action)
	}
}

func TestRebalance_BuyWhenUnderTarget(t *testing.T) {
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 30, Price: 10, Value: 300, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if orders[0].Action != models.OrderBuy {
		t.Fatalf("action = %s, want buy", orders[0].Action)
	}
	// target 500, current 300: amount 200, quantity 20 at price 10.
	if !approxEqual(orders[0].Amount, 200, 1e-9) {
		t.Errorf("amount = %.4f, want 200", orders[0].Amount)
	}
	if !approxEqual(orders[0].Quantity, 20, 1e-9) {
		t.Errorf("quantity = %.4f, want 20", orders[0].Quantity)
	}
}

func TestRebalance_SellWhenOverTarget(t *testing.T) {
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 60, Price: 10, Value: 600, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if orders[0].Action != models.OrderSell {
		t.Errorf("action = %s, want sell", orders[0].Action)
	}
	if !approxEqual(orders[0].Amount, 100, 1e-9) {
		t.Errorf("amount = %.4f, want 100", orders[0].Amount)
	}
}

func TestRebalance_AccumulateSuppressesSells(t *testing.T) {
	// Position 10% over target: Maintain sells, Accumulate holds.
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 60, Price: 10, Value: 600, TargetPct: 50},
	}

	maintain := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if maintain[0].Action != models.OrderSell {
		t.Fatalf("maintain action = %s, want sell", maintain[0].Action)
	}

	accumulate := Rebalance(positions, 1000, models.StrategyAccumulate, 0, 1.0)
	if accumulate[0].Action != models.OrderNeutral {
		t.Errorf("accumulate action = %s, want neutral", accumulate[0].Action)
	}
}

func TestRebalance_AccumulateIncludesCashInjection(t *testing.T) {
	// 1000 held + 1000 injected: 50% target means 1000, a 500 buy.
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 50, Price: 10, Value: 500, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyAccumulate, 1000, 1.0)
	if orders[0].Action != models.OrderBuy {
		t.Fatalf("action = %s, want buy", orders[0].Action)
	}
	if !approxEqual(orders[0].Amount, 500, 1e-9) {
		t.Errorf("amount = %.4f, want 500", orders[0].Amount)
	}
}

func TestRebalance_MaintainIgnoresCashInjection(t *testing.T) {
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 50, Price: 10, Value: 500, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 1000, 1.0)
	if orders[0].Action != models.OrderNeutral {
		t.Errorf("action = %s, want neutral (injection ignored)", orders[0].Action)
	}
}

func TestRebalance_ZeroTargetFullExit(t *testing.T) {
	positions := []models.Position{
		{Ticker: "OLD", Quantity: 10, Price: 10, Value: 100, TargetPct: 0},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if orders[0].Action != models.OrderSell {
		t.Fatalf("action = %s, want sell (full exit)", orders[0].Action)
	}
	if !approxEqual(orders[0].Amount, 100, 1e-9) {
		t.Errorf("amount = %.4f, want full position value 100", orders[0].Amount)
	}
	if !approxEqual(orders[0].Quantity, 10, 1e-9) {
		t.Errorf("quantity = %.4f, want 10", orders[0].Quantity)
	}
}

func TestRebalance_ZeroPriceZeroQuantity(t *testing.T) {
	positions := []models.Position{
		{Ticker: "VAS", Quantity: 30, Price: 0, Value: 0, TargetPct: 50},
	}

	orders := Rebalance(positions, 1000, models.StrategyMaintain, 0, 1.0)
	if orders[0].Quantity != 0 {
		t.Errorf("quantity = %.4f, want 0 when price is 0", orders[0].Quantity)
	}
}
