package valuation

import (
	"time"

	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/models"
)

// BuildSeries walks a date grid and produces one performance point per grid
// date, plus parallel asset-class and currency exposure series. The grid runs
// from max(window start, first transaction month) to today, stepped by
// calendar month-end or calendar day. Inputs are not mutated; an empty or
// all-invalid ledger yields an empty series.
func BuildSeries(transactions []models.Transaction, instruments []models.Instrument, prices []models.PricePoint, opts interfaces.SeriesOptions, now time.Time) *models.PerformanceSeries {
	granularity := opts.Granularity
	if granularity == "" {
		granularity = models.GranularityMonthly
	}

	series := &models.PerformanceSeries{Granularity: granularity}

	cursor := newLedgerCursor(transactions)
	if len(cursor.sorted) == 0 {
		return series
	}

	today := dateOnly(now)
	start := dateOnly(cursor.sorted[0].Date)
	if opts.WindowMonths > 0 {
		windowStart := today.AddDate(0, -opts.WindowMonths, 0)
		if windowStart.After(start) {
			start = windowStart
		}
	}
	if start.After(today) {
		return series
	}

	var grid []time.Time
	if granularity == models.GranularityDaily {
		grid = calendarDayGrid(start, today)
	} else {
		grid = monthEndGrid(start, today)
	}
	if len(grid) == 0 {
		return series
	}

	byTicker := models.InstrumentsByTicker(models.DedupeInstruments(instruments))
	book := NewPriceBook(prices, cursor.sorted)

	points := make([]models.PerformancePoint, 0, len(grid))
	assetExposure := make([]models.ExposurePoint, 0, len(grid))
	currencyExposure := make([]models.ExposurePoint, 0, len(grid))

	twrr := 1.0
	prevValue := 0.0

	for _, date := range grid {
		cursor.advanceTo(date)

		holdingsValue := 0.0
		assetValues := make(map[string]float64)
		currencyValues := make(map[string]float64)
		for ticker, qty := range cursor.holdings {
			if qty <= dustThreshold {
				continue
			}
			price := book.Resolve(ticker, date)
			value := qty * price
			holdingsValue += value

			assetType, currency := "Unknown", "Unknown"
			if ins, ok := byTicker[ticker]; ok {
				if ins.AssetType != "" {
					assetType = ins.AssetType
				}
				if ins.Currency != "" {
					currency = ins.Currency
				}
			}
			assetValues[assetType] += value
			currencyValues[currency] += value
		}

		value := holdingsValue
		if granularity == models.GranularityDaily {
			// Idle cash is part of daily NAV so the return series does
			// not dip when money sits uninvested between trades.
			value = holdingsValue + cursor.Cash()
		}

		periodReturn := 0.0
		if len(points) > 0 && prevValue > 0 {
			periodReturn = (value/prevValue - 1) * 100
		}
		twrr *= 1 + periodReturn/100

		invested := cursor.InvestedCapital()
		cumulative := 0.0
		if invested > 0 {
			cumulative = (value/invested - 1) * 100
		}

		points = append(points, models.PerformancePoint{
			Date:                date,
			Value:               value,
			Invested:            invested,
			PeriodReturnPct:     periodReturn,
			CumulativeReturnPct: cumulative,
			TwrrIndex:           twrr,
		})
		assetExposure = append(assetExposure, exposurePoint(date, assetValues, holdingsValue))
		currencyExposure = append(currencyExposure, exposurePoint(date, currencyValues, holdingsValue))
		prevValue = value
	}

	series.Points = points
	series.AssetClassExposure = assetExposure
	series.CurrencyExposure = currencyExposure
	return series
}

// exposurePoint expresses grouped position values as percentages of total.
func exposurePoint(date time.Time, grouped map[string]float64, total float64) models.ExposurePoint {
	weights := make(map[string]float64, len(grouped))
	for key, value := range grouped {
		pct := 0.0
		if total > 0 {
			pct = value / total * 100
		}
		weights[key] = pct
	}
	return models.ExposurePoint{Date: date, Weights: weights}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last day of t's month.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
}

// monthEndGrid produces one date per calendar month from start to end,
// stepping by month-end. The final point is capped at end so the series
// always closes on "today".
func monthEndGrid(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	var grid []time.Time
	current := monthEnd(start)
	for current.Before(end) {
		grid = append(grid, current)
		current = monthEnd(current.AddDate(0, 0, 1))
	}
	grid = append(grid, end)
	return grid
}

// calendarDayGrid produces one date per day from start to end inclusive.
func calendarDayGrid(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}
	days := int(end.Sub(start).Hours()/24) + 1
	grid := make([]time.Time, 0, days)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		grid = append(grid, d)
	}
	return grid
}
