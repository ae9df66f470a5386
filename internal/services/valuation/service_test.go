package valuation

import (
	"context"
	"testing"
	"time"

	"github.com/kfenwick/folio/internal/common"
	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/models"
)

// memLedgerStore is an in-memory LedgerStore for service tests.
type memLedgerStore struct {
	txs    []models.Transaction
	ins    []models.Instrument
	prices []models.PricePoint
}

func (m *memLedgerStore) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	m.txs = append(m.txs, *tx)
	return nil
}
func (m *memLedgerStore) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	for i := range m.txs {
		if m.txs[i].ID == id {
			return &m.txs[i], nil
		}
	}
	return nil, nil
}
func (m *memLedgerStore) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	return m.txs, nil
}
func (m *memLedgerStore) DeleteTransaction(_ context.Context, _ string) error { return nil }
func (m *memLedgerStore) SaveInstrument(_ context.Context, ins *models.Instrument) error {
	m.ins = append(m.ins, *ins)
	return nil
}
func (m *memLedgerStore) GetInstrument(_ context.Context, _ string) (*models.Instrument, error) {
	return nil, nil
}
func (m *memLedgerStore) ListInstruments(_ context.Context) ([]models.Instrument, error) {
	return m.ins, nil
}
func (m *memLedgerStore) DeleteInstrument(_ context.Context, _ string) error { return nil }
func (m *memLedgerStore) SavePricePoints(_ context.Context, points []models.PricePoint) (int, error) {
	m.prices = append(m.prices, points...)
	return len(points), nil
}
func (m *memLedgerStore) ListPrices(_ context.Context, _ string) ([]models.PricePoint, error) {
	return m.prices, nil
}
func (m *memLedgerStore) ListAllPrices(_ context.Context) ([]models.PricePoint, error) {
	return m.prices, nil
}
func (m *memLedgerStore) Close() error { return nil }

type memStorageManager struct {
	ledger *memLedgerStore
}

func (m *memStorageManager) LedgerStore() interfaces.LedgerStore { return m.ledger }
func (m *memStorageManager) Close() error                        { return nil }

func newTestService(store *memLedgerStore, now time.Time) *Service {
	svc := NewService(&memStorageManager{ledger: store}, common.NewSilentLogger(), common.AnalyticsConfig{
		RiskFreeRatePct:    2.0,
		DefaultGranularity: "monthly",
		RebalanceBandPct:   1.0,
	})
	svc.now = func() time.Time { return now }
	return svc
}

func TestService_ValuationEndToEnd(t *testing.T) {
	store := &memLedgerStore{
		txs: []models.Transaction{
			{ID: "1", Date: day(2024, 1, 15), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 10},
		},
		prices: []models.PricePoint{
			{Ticker: "VAS", Date: day(2024, 6, 1), Close: 12},
		},
	}
	svc := newTestService(store, day(2024, 6, 30))

	snapshot, err := svc.Valuation(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("Valuation: %v", err)
	}
	if !approxEqual(snapshot.TotalValue, 120, 1e-9) {
		t.Errorf("TotalValue = %.4f, want 120", snapshot.TotalValue)
	}
	if !approxEqual(snapshot.InvestedCapital, 100, 1e-9) {
		t.Errorf("InvestedCapital = %.4f, want 100", snapshot.InvestedCapital)
	}
}

func TestService_SeriesAppliesDefaults(t *testing.T) {
	store := &memLedgerStore{
		txs: []models.Transaction{
			{ID: "1", Date: day(2024, 1, 15), Ticker: "VAS", Kind: models.TxBuy, Quantity: 10, UnitPrice: 10},
		},
	}
	svc := newTestService(store, day(2024, 3, 31))

	series, err := svc.Series(context.Background(), interfaces.SeriesOptions{})
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if series.Granularity != models.GranularityMonthly {
		t.Errorf("granularity = %s, want monthly default", series.Granularity)
	}
	if len(series.Points) != 3 {
		t.Errorf("points = %d, want 3 (Jan..Mar)", len(series.Points))
	}
}

func TestService_RebalanceRejectsUnknownStrategy(t *testing.T) {
	svc := newTestService(&memLedgerStore{}, day(2024, 6, 30))

	_, err := svc.Rebalance(context.Background(), interfaces.RebalanceOptions{Strategy: "yolo"})
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}

func TestService_XIRRIndeterminateOnEmptyLedger(t *testing.T) {
	svc := newTestService(&memLedgerStore{}, day(2024, 6, 30))

	_, ok, err := svc.XIRR(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("XIRR: %v", err)
	}
	if ok {
		t.Error("empty ledger must be indeterminate")
	}
}

func TestService_AnalyticsEmptyLedgerAllZero(t *testing.T) {
	svc := newTestService(&memLedgerStore{}, day(2024, 6, 30))

	analytics, err := svc.Analytics(context.Background(), interfaces.SeriesOptions{})
	if err != nil {
		t.Fatalf("Analytics: %v", err)
	}
	if analytics.MaxDrawdownPct != 0 || analytics.SharpeRatio != 0 || len(analytics.AnnualReturns) != 0 {
		t.Errorf("analytics = %+v, want all-zero for empty ledger", analytics)
	}
}
