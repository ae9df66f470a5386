package valuation

import (
	"math"

	"github.com/kfenwick/folio/internal/models"
)

// Analyze computes returns and risk statistics from a performance series.
// Series with fewer than 2 points produce an all-zero result. All figures are
// percentages except SharpeRatio.
func Analyze(series *models.PerformanceSeries, riskFreeRatePct float64) *models.PortfolioAnalytics {
	analytics := &models.PortfolioAnalytics{}
	if series == nil || len(series.Points) < 2 {
		return analytics
	}
	points := series.Points
	daily := series.Granularity == models.GranularityDaily

	analytics.AnnualReturns = annualReturns(points, daily)
	analytics.DrawdownSeries, analytics.MaxDrawdownPct = drawdown(points)
	analytics.AnnualizedReturnPct = annualizedReturn(points, daily)
	analytics.VolatilityPct = annualizedVolatility(points, daily)
	if analytics.VolatilityPct != 0 {
		analytics.SharpeRatio = (analytics.AnnualizedReturnPct - riskFreeRatePct) / analytics.VolatilityPct
	}
	return analytics
}

// annualReturns groups points by calendar year. Monthly points compound the
// in-year period returns; daily points use the year's first and last values.
func annualReturns(points []models.PerformancePoint, daily bool) []models.AnnualReturn {
	type yearAccum struct {
		compound   float64
		firstValue float64
		lastValue  float64
	}
	accums := make(map[int]*yearAccum)
	var years []int
	for i, p := range points {
		year := p.Date.Year()
		acc, ok := accums[year]
		if !ok {
			acc = &yearAccum{compound: 1, firstValue: p.Value}
			accums[year] = acc
			years = append(years, year)
		}
		if i > 0 {
			acc.compound *= 1 + p.PeriodReturnPct/100
		}
		acc.lastValue = p.Value
	}

	returns := make([]models.AnnualReturn, 0, len(years))
	for _, year := range years {
		acc := accums[year]
		pct := 0.0
		if daily {
			if acc.firstValue > 0 {
				pct = (acc.lastValue/acc.firstValue - 1) * 100
			}
		} else {
			pct = (acc.compound - 1) * 100
		}
		returns = append(returns, models.AnnualReturn{Year: year, ReturnPct: pct})
	}
	return returns
}

// drawdown computes the depth-from-running-peak series and its minimum in a
// single forward pass.
func drawdown(points []models.PerformancePoint) ([]models.DrawdownPoint, float64) {
	depths := make([]models.DrawdownPoint, 0, len(points))
	peak := 0.0
	maxDepth := 0.0
	for _, p := range points {
		if p.Value > peak {
			peak = p.Value
		}
		depth := 0.0
		if peak > 0 {
			depth = (p.Value/peak - 1) * 100
		}
		if depth < maxDepth {
			maxDepth = depth
		}
		depths = append(depths, models.DrawdownPoint{Date: p.Date, DepthPct: depth})
	}
	return depths, maxDepth
}

// annualizedReturn computes CAGR. Monthly mode works from the final TWRR
// index with years counted as positive-value points over 12; daily mode works
// from first positive value to last value over elapsed calendar days.
func annualizedReturn(points []models.PerformancePoint, daily bool) float64 {
	if daily {
		firstIdx := -1
		for i, p := range points {
			if p.Value > 0 {
				firstIdx = i
				break
			}
		}
		if firstIdx < 0 {
			return 0
		}
		first := points[firstIdx]
		last := points[len(points)-1]
		days := last.Date.Sub(first.Date).Hours() / 24
		if days <= 0 || last.Value <= 0 {
			return 0
		}
		return (math.Pow(last.Value/first.Value, 365.25/days) - 1) * 100
	}

	positive := 0
	for _, p := range points {
		if p.Value > 0 {
			positive++
		}
	}
	years := float64(positive) / 12
	finalTwrr := points[len(points)-1].TwrrIndex
	if years <= 0 || finalTwrr <= 0 {
		return 0
	}
	return (math.Pow(finalTwrr, 1/years) - 1) * 100
}

// annualizedVolatility is the sample standard deviation of period returns,
// scaled by sqrt(12) for monthly series and sqrt(252) for daily. The first
// point carries no return and is excluded.
func annualizedVolatility(points []models.PerformancePoint, daily bool) float64 {
	returns := make([]float64, 0, len(points)-1)
	for _, p := range points[1:] {
		returns = append(returns, p.PeriodReturnPct)
	}
	if len(returns) < 2 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns) - 1)

	factor := math.Sqrt(12)
	if daily {
		factor = math.Sqrt(252)
	}
	return math.Sqrt(variance) * factor
}
