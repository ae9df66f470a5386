package valuation

import (
	"math"

	"github.com/kfenwick/folio/internal/models"
)

// defaultBandPct is the neutral band around target value, as a percent of the
// effective portfolio total.
const defaultBandPct = 1.0

// Rebalance proposes one order per position from the drift between current
// and target allocations. Under Accumulate the cash injection joins the
// effective total and computed sells are downgraded to Neutral; Maintain
// ignores the injection and allows sells. A zero target with units still held
// always produces a full-exit sell.
func Rebalance(positions []models.Position, totalValue float64, strategy models.RebalanceStrategy, cashInjection float64, bandPct float64) []models.Order {
	if bandPct <= 0 {
		bandPct = defaultBandPct
	}

	effectiveTotal := totalValue
	if strategy == models.StrategyAccumulate {
		effectiveTotal += cashInjection
	}
	band := effectiveTotal * bandPct / 100

	orders := make([]models.Order, 0, len(positions))
	for _, pos := range positions {
		targetValue := effectiveTotal * pos.TargetPct / 100
		diff := targetValue - pos.Value

		action := models.OrderNeutral
		switch {
		case pos.TargetPct == 0 && pos.Quantity > dustThreshold:
			action = models.OrderSell
			diff = -pos.Value
		case diff > band:
			action = models.OrderBuy
		case diff < -band:
			action = models.OrderSell
		}

		if strategy == models.StrategyAccumulate && action == models.OrderSell {
			action = models.OrderNeutral
		}

		amount := math.Abs(diff)
		quantity := 0.0
		if pos.Price > 0 {
			quantity = amount / pos.Price
		}

		driftPct := 0.0
		if effectiveTotal > 0 {
			driftPct = (pos.Value/effectiveTotal)*100 - pos.TargetPct
		}

		orders = append(orders, models.Order{
			Ticker:    pos.Ticker,
			Name:      pos.Name,
			Action:    action,
			Amount:    amount,
			Quantity:  quantity,
			TargetPct: pos.TargetPct,
			DriftPct:  driftPct,
		})
	}
	return orders
}
