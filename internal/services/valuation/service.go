package valuation

import (
	"context"
	"fmt"
	"time"

	"github.com/kfenwick/folio/internal/common"
	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/models"
)

// Service loads ledger snapshots from storage and runs the engine over them.
// The computation itself is pure; the service owns only loading and logging.
type Service struct {
	storage   interfaces.StorageManager
	logger    *common.Logger
	analytics common.AnalyticsConfig
	now       func() time.Time
}

var _ interfaces.ValuationService = (*Service)(nil)

// NewService creates a valuation service.
func NewService(storage interfaces.StorageManager, logger *common.Logger, analytics common.AnalyticsConfig) *Service {
	return &Service{
		storage:   storage,
		logger:    logger,
		analytics: analytics,
		now:       time.Now,
	}
}

// ledgerInputs is one immutable snapshot of the three engine inputs.
type ledgerInputs struct {
	transactions []models.Transaction
	instruments  []models.Instrument
	prices       []models.PricePoint
}

func (s *Service) loadInputs(ctx context.Context) (*ledgerInputs, error) {
	store := s.storage.LedgerStore()

	transactions, err := store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	instruments, err := store.ListInstruments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load instruments: %w", err)
	}
	prices, err := store.ListAllPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices: %w", err)
	}

	return &ledgerInputs{
		transactions: transactions,
		instruments:  instruments,
		prices:       prices,
	}, nil
}

// Valuation computes the portfolio snapshot as of the given date. A zero asOf
// means today.
func (s *Service) Valuation(ctx context.Context, asOf time.Time) (*models.PortfolioSnapshot, error) {
	start := time.Now()
	if asOf.IsZero() {
		asOf = s.now()
	}

	in, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	holdings, invested := Reconstruct(in.transactions, asOf)
	book := NewPriceBook(in.prices, in.transactions)
	snapshot := Valuate(holdings, invested, in.instruments, book, asOf)

	s.logger.Info().
		Str("as_of", asOf.Format("2006-01-02")).
		Int("positions", len(snapshot.Positions)).
		Float64("total_value", snapshot.TotalValue).
		Dur("elapsed", time.Since(start)).
		Msg("Portfolio valuation computed")
	return snapshot, nil
}

// Series builds the performance series for the requested window and
// granularity, applying config defaults where options are unset.
func (s *Service) Series(ctx context.Context, opts interfaces.SeriesOptions) (*models.PerformanceSeries, error) {
	start := time.Now()
	opts = s.applyDefaults(opts)

	in, err := s.loadInputs(ctx)
	if err != nil {
		return nil, err
	}

	series := BuildSeries(in.transactions, in.instruments, in.prices, opts, s.now())

	s.logger.Info().
		Str("granularity", string(opts.Granularity)).
		Int("window_months", opts.WindowMonths).
		Int("points", len(series.Points)).
		Dur("elapsed", time.Since(start)).
		Msg("Performance series built")
	return series, nil
}

// Analytics builds the series then derives returns and risk statistics.
func (s *Service) Analytics(ctx context.Context, opts interfaces.SeriesOptions) (*models.PortfolioAnalytics, error) {
	series, err := s.Series(ctx, opts)
	if err != nil {
		return nil, err
	}

	analytics := Analyze(series, s.analytics.RiskFreeRatePct)

	s.logger.Info().
		Float64("annualized_return_pct", analytics.AnnualizedReturnPct).
		Float64("max_drawdown_pct", analytics.MaxDrawdownPct).
		Float64("sharpe", analytics.SharpeRatio).
		Msg("Portfolio analytics computed")
	return analytics, nil
}

// Rebalance proposes orders from the latest snapshot.
func (s *Service) Rebalance(ctx context.Context, opts interfaces.RebalanceOptions) ([]models.Order, error) {
	if opts.Strategy == "" {
		opts.Strategy = models.StrategyMaintain
	}
	if !models.ValidRebalanceStrategy(opts.Strategy) {
		return nil, fmt.Errorf("invalid rebalance strategy '%s'", opts.Strategy)
	}
	if opts.BandPct <= 0 {
		opts.BandPct = s.analytics.RebalanceBandPct
	}

	snapshot, err := s.Valuation(ctx, opts.AsOfDate)
	if err != nil {
		return nil, err
	}

	orders := Rebalance(snapshot.Positions, snapshot.TotalValue, opts.Strategy, opts.CashToPut, opts.BandPct)

	s.logger.Info().
		Str("strategy", string(opts.Strategy)).
		Float64("cash_to_put", opts.CashToPut).
		Int("orders", len(orders)).
		Msg("Rebalance orders computed")
	return orders, nil
}

// XIRR computes the money-weighted annual return as of the given date. The
// second return is false when the rate is indeterminate.
func (s *Service) XIRR(ctx context.Context, asOf time.Time) (float64, bool, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}

	in, err := s.loadInputs(ctx)
	if err != nil {
		return 0, false, err
	}

	holdings, invested := Reconstruct(in.transactions, asOf)
	book := NewPriceBook(in.prices, in.transactions)
	snapshot := Valuate(holdings, invested, in.instruments, book, asOf)

	flows := BuildCashFlows(in.transactions, snapshot.TotalValue, asOf)
	rate, ok := XIRR(flows)
	if !ok {
		s.logger.Warn().
			Str("as_of", asOf.Format("2006-01-02")).
			Int("flows", len(flows)).
			Msg("XIRR indeterminate")
		return 0, false, nil
	}

	s.logger.Info().
		Str("as_of", asOf.Format("2006-01-02")).
		Float64("xirr_pct", rate*100).
		Msg("XIRR computed")
	return rate, true, nil
}

// RenderChart renders the performance series as a PNG.
func (s *Service) RenderChart(ctx context.Context, opts interfaces.SeriesOptions) ([]byte, error) {
	series, err := s.Series(ctx, opts)
	if err != nil {
		return nil, err
	}
	return RenderPerformanceChart(series)
}

func (s *Service) applyDefaults(opts interfaces.SeriesOptions) interfaces.SeriesOptions {
	if opts.Granularity == "" {
		opts.Granularity = models.Granularity(s.analytics.DefaultGranularity)
	}
	if !models.ValidGranularity(opts.Granularity) {
		opts.Granularity = models.GranularityMonthly
	}
	if opts.WindowMonths <= 0 {
		opts.WindowMonths = s.analytics.DefaultWindowMonths
	}
	return opts
}
