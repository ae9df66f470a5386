package models

import (
	"math"
	"time"
)

// Instrument is reference data for a tradeable security, keyed by ticker.
type Instrument struct {
	Ticker              string    `json:"ticker"`
	Name                string    `json:"name"`
	AssetType           string    `json:"asset_type"`
	Currency            string    `json:"currency"`
	TargetAllocationPct float64   `json:"target_allocation_pct"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// DedupeInstruments removes duplicate tickers, keeping the last occurrence.
// Relative order of the surviving entries follows their last occurrence.
func DedupeInstruments(instruments []Instrument) []Instrument {
	byTicker := make(map[string]int, len(instruments))
	out := make([]Instrument, 0, len(instruments))
	for _, ins := range instruments {
		if idx, seen := byTicker[ins.Ticker]; seen {
			out[idx] = ins
			continue
		}
		byTicker[ins.Ticker] = len(out)
		out = append(out, ins)
	}
	return out
}

// InstrumentsByTicker indexes instruments by ticker, last occurrence winning.
func InstrumentsByTicker(instruments []Instrument) map[string]Instrument {
	m := make(map[string]Instrument, len(instruments))
	for _, ins := range instruments {
		m[ins.Ticker] = ins
	}
	return m
}

// PricePoint is a single historical close observation. The price table is
// sparse; there is no guarantee of a point per calendar or trading day.
type PricePoint struct {
	Ticker   string    `json:"ticker"`
	Date     time.Time `json:"date"`
	Close    float64   `json:"close"`
	Currency string    `json:"currency"`
}

// Valid reports whether the price point is usable. Bad provider rows (zero
// date, NaN/Inf or negative close) are dropped rather than propagated.
func (p PricePoint) Valid() bool {
	if p.Ticker == "" || p.Date.IsZero() {
		return false
	}
	return !math.IsNaN(p.Close) && !math.IsInf(p.Close, 0) && p.Close >= 0
}
