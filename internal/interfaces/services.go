package interfaces

import (
	"context"
	"time"

	"github.com/kfenwick/folio/internal/models"
)

// SeriesOptions controls the performance series window and resolution.
type SeriesOptions struct {
	Granularity  models.Granularity `json:"granularity"`
	WindowMonths int                `json:"window_months"`
}

// RebalanceOptions controls order generation.
type RebalanceOptions struct {
	Strategy  models.RebalanceStrategy `json:"strategy"`
	CashToPut float64                  `json:"cash_to_put"`
	BandPct   float64                  `json:"band_pct"`
	AsOfDate  time.Time                `json:"as_of_date"`
}

// ValuationService computes portfolio state and analytics from the ledger.
type ValuationService interface {
	Valuation(ctx context.Context, asOf time.Time) (*models.PortfolioSnapshot, error)
	Series(ctx context.Context, opts SeriesOptions) (*models.PerformanceSeries, error)
	Analytics(ctx context.Context, opts SeriesOptions) (*models.PortfolioAnalytics, error)
	Rebalance(ctx context.Context, opts RebalanceOptions) ([]models.Order, error)
	XIRR(ctx context.Context, asOf time.Time) (float64, bool, error)
	RenderChart(ctx context.Context, opts SeriesOptions) ([]byte, error)
}
