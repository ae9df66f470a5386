package valuation

import (
	"sort"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// Valuate combines holdings with resolved prices into a point-in-time
// snapshot. Positions below the dust threshold are excluded. Percentages fall
// back to 0 rather than dividing by zero.
func Valuate(holdings map[string]float64, investedCapital float64, instruments []models.Instrument, book *PriceBook, asOf time.Time) *models.PortfolioSnapshot {
	byTicker := models.InstrumentsByTicker(models.DedupeInstruments(instruments))

	positions := make([]models.Position, 0, len(holdings))
	totalValue := 0.0
	for ticker, qty := range holdings {
		if qty <= dustThreshold {
			continue
		}
		price := book.Resolve(ticker, asOf)
		value := qty * price

		pos := models.Position{
			Ticker:   ticker,
			Quantity: qty,
			Price:    price,
			Value:    value,
		}
		if ins, ok := byTicker[ticker]; ok {
			pos.Name = ins.Name
			pos.AssetType = ins.AssetType
			pos.Currency = ins.Currency
			pos.TargetPct = ins.TargetAllocationPct
		}
		positions = append(positions, pos)
		totalValue += value
	}

	for i := range positions {
		if totalValue > 0 {
			positions[i].CurrentPct = positions[i].Value / totalValue * 100
		}
	}
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Value != positions[j].Value {
			return positions[i].Value > positions[j].Value
		}
		return positions[i].Ticker < positions[j].Ticker
	})

	balance := totalValue - investedCapital
	balancePct := 0.0
	if investedCapital != 0 {
		balancePct = balance / investedCapital * 100
	}

	return &models.PortfolioSnapshot{
		AsOfDate:        asOf,
		Positions:       positions,
		TotalValue:      totalValue,
		InvestedCapital: investedCapital,
		Balance:         balance,
		BalancePct:      balancePct,
	}
}
