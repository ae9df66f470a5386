package ledgerdb

import (
	"sort"

	"github.com/kfenwick/folio/internal/models"
)

func sortTransactionsByCreation(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].CreatedAt.Equal(txs[j].CreatedAt) {
			return txs[i].CreatedAt.Before(txs[j].CreatedAt)
		}
		return txs[i].ID < txs[j].ID
	})
}

func sortInstrumentsByTicker(ins []models.Instrument) {
	sort.Slice(ins, func(i, j int) bool {
		return ins[i].Ticker < ins[j].Ticker
	})
}

func sortPricesByDate(pts []models.PricePoint) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Ticker != pts[j].Ticker {
			return pts[i].Ticker < pts[j].Ticker
		}
		return pts[i].Date.Before(pts[j].Date)
	})
}
