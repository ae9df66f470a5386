package models

import "time"

// Granularity selects the date-grid step for the performance series.
type Granularity string

const (
	GranularityMonthly Granularity = "monthly"
	GranularityDaily   Granularity = "daily"
)

// ValidGranularity returns true if g is a recognised granularity.
func ValidGranularity(g Granularity) bool {
	return g == GranularityMonthly || g == GranularityDaily
}

// Position is a single valued holding inside a snapshot.
type Position struct {
	Ticker     string  `json:"ticker"`
	Name       string  `json:"name"`
	AssetType  string  `json:"asset_type"`
	Currency   string  `json:"currency"`
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	Value      float64 `json:"value"`
	CurrentPct float64 `json:"current_pct"`
	TargetPct  float64 `json:"target_pct"`
}

// PortfolioSnapshot is the reconstructed portfolio state at a point in time.
// Computed on demand from the ledger and price table, never persisted.
type PortfolioSnapshot struct {
	AsOfDate        time.Time  `json:"as_of_date"`
	Positions       []Position `json:"positions"`
	TotalValue      float64    `json:"total_value"`
	InvestedCapital float64    `json:"invested_capital"`
	Balance         float64    `json:"balance"`
	BalancePct      float64    `json:"balance_pct"`
}

// PerformancePoint is one entry of the portfolio performance series.
// TwrrIndex starts at 1.0 on the first grid date and compounds the
// sub-period returns forward.
type PerformancePoint struct {
	Date                time.Time `json:"date"`
	Value               float64   `json:"value"`
	Invested            float64   `json:"invested"`
	PeriodReturnPct     float64   `json:"period_return_pct"`
	CumulativeReturnPct float64   `json:"cumulative_return_pct"`
	TwrrIndex           float64   `json:"twrr_index"`
}

// ExposurePoint carries the percentage weight per group (asset class or
// currency) at one grid date. Weights sum to 100 when the portfolio has
// value, and are all zero otherwise.
type ExposurePoint struct {
	Date    time.Time          `json:"date"`
	Weights map[string]float64 `json:"weights"`
}

// PerformanceSeries is the full output of the time-series builder.
type PerformanceSeries struct {
	Granularity        Granularity        `json:"granularity"`
	Points             []PerformancePoint `json:"points"`
	AssetClassExposure []ExposurePoint    `json:"asset_class_exposure"`
	CurrencyExposure   []ExposurePoint    `json:"currency_exposure"`
}

// AnnualReturn is the compounded return of one calendar year.
type AnnualReturn struct {
	Year      int     `json:"year"`
	ReturnPct float64 `json:"return_pct"`
}

// DrawdownPoint is the depth below the running peak at one grid date.
// DepthPct is always ≤ 0.
type DrawdownPoint struct {
	Date     time.Time `json:"date"`
	DepthPct float64   `json:"depth_pct"`
}

// PortfolioAnalytics aggregates the risk and return statistics derived from
// a performance series. All fields are zero-valued when the series is too
// short to analyze; callers render "N/D", nothing here is an error.
type PortfolioAnalytics struct {
	AnnualReturns       []AnnualReturn  `json:"annual_returns"`
	MaxDrawdownPct      float64         `json:"max_drawdown_pct"`
	DrawdownSeries      []DrawdownPoint `json:"drawdown_series"`
	AnnualizedReturnPct float64         `json:"annualized_return_pct"`
	VolatilityPct       float64         `json:"volatility_pct"`
	SharpeRatio         float64         `json:"sharpe_ratio"`
}

// RebalanceStrategy selects how the advisor treats overweight positions.
type RebalanceStrategy string

const (
	// StrategyAccumulate distributes new cash toward targets and never sells.
	StrategyAccumulate RebalanceStrategy = "accumulate"
	// StrategyMaintain buys and sells to pull every position back to target.
	StrategyMaintain RebalanceStrategy = "maintain"
)

// ValidRebalanceStrategy reports whether s is a known strategy.
func ValidRebalanceStrategy(s RebalanceStrategy) bool {
	return s == StrategyAccumulate || s == StrategyMaintain
}

// OrderAction is the proposed direction for a rebalancing order.
type OrderAction string

const (
	OrderBuy     OrderAction = "buy"
	OrderSell    OrderAction = "sell"
	OrderNeutral OrderAction = "neutral"
)

// Order is a proposed rebalancing trade. Amount is the absolute cash value
// of the adjustment; Quantity is the suggested unit count at the current
// price (0 when no usable price exists).
type Order struct {
	Ticker    string      `json:"ticker"`
	Name      string      `json:"name"`
	Action    OrderAction `json:"action"`
	Amount    float64     `json:"amount"`
	Quantity  float64     `json:"quantity"`
	TargetPct float64     `json:"target_pct"`
	DriftPct  float64     `json:"drift_pct"`
}
