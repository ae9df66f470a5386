// Package ledgerdb implements LedgerStore using BadgerHold.
// Transactions, instruments, and price points are stored as separate record
// types under composite keys.
package ledgerdb

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"

	"github.com/kfenwick/folio/internal/common"
	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/models"
)

// Store implements interfaces.LedgerStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

var _ interfaces.LedgerStore = (*Store)(nil)

// NewStore opens (or creates) a ledger store at the given path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledgerdb path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledgerdb at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return &Store{db: db, logger: logger}, nil
}

// keySep separates composite key segments. A null byte avoids collisions
// with tickers containing ":" or ".".
const keySep = "\x00"

func txKey(id string) string {
	return "tx" + keySep + id
}

func instrumentKey(ticker string) string {
	return "ins" + keySep + strings.ToUpper(ticker)
}

func priceKey(ticker string, date time.Time) string {
	return "px" + keySep + strings.ToUpper(ticker) + keySep + date.Format("2006-01-02")
}

// SaveTransaction upserts a transaction, assigning an ID if absent.
func (s *Store) SaveTransaction(_ context.Context, tx *models.Transaction) error {
	if tx == nil {
		return fmt.Errorf("transaction is nil")
	}
	if !models.ValidTransactionKind(tx.Kind) {
		return fmt.Errorf("invalid transaction kind '%s'", tx.Kind)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("transaction date is required")
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now()
	}
	tx.Ticker = strings.ToUpper(tx.Ticker)
	if err := s.db.Upsert(txKey(tx.ID), tx); err != nil {
		return fmt.Errorf("failed to save transaction '%s': %w", tx.ID, err)
	}
	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	var tx models.Transaction
	if err := s.db.Get(txKey(id), &tx); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	return &tx, nil
}

// ListTransactions returns all transactions in ledger insertion order
// (CreatedAt ascending, then ID).
func (s *Store) ListTransactions(_ context.Context) ([]models.Transaction, error) {
	var all []models.Transaction
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	sortTransactionsByCreation(all)
	return all, nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	if err := s.db.Delete(txKey(id), models.Transaction{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete transaction '%s': %w", id, err)
	}
	return nil
}

// SaveInstrument upserts an instrument keyed by ticker. Last write wins.
func (s *Store) SaveInstrument(_ context.Context, ins *models.Instrument) error {
	if ins == nil {
		return fmt.Errorf("instrument is nil")
	}
	if ins.Ticker == "" {
		return fmt.Errorf("instrument ticker is required")
	}
	ins.Ticker = strings.ToUpper(ins.Ticker)
	ins.UpdatedAt = time.Now()
	if err := s.db.Upsert(instrumentKey(ins.Ticker), ins); err != nil {
		return fmt.Errorf("failed to save instrument '%s': %w", ins.Ticker, err)
	}
	return nil
}

func (s *Store) GetInstrument(_ context.Context, ticker string) (*models.Instrument, error) {
	var ins models.Instrument
	if err := s.db.Get(instrumentKey(ticker), &ins); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("instrument '%s' not found", ticker)
		}
		return nil, fmt.Errorf("failed to get instrument '%s': %w", ticker, err)
	}
	return &ins, nil
}

func (s *Store) ListInstruments(_ context.Context) ([]models.Instrument, error) {
	var all []models.Instrument
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list instruments: %w", err)
	}
	sortInstrumentsByTicker(all)
	return all, nil
}

func (s *Store) DeleteInstrument(_ context.Context, ticker string) error {
	if err := s.db.Delete(instrumentKey(ticker), models.Instrument{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete instrument '%s': %w", ticker, err)
	}
	return nil
}

// SavePricePoints upserts price points keyed by ticker+date, skipping invalid
// records. Returns the number of points stored.
func (s *Store) SavePricePoints(_ context.Context, points []models.PricePoint) (int, error) {
	stored := 0
	for i := range points {
		p := points[i]
		if !p.Valid() {
			continue
		}
		p.Ticker = strings.ToUpper(p.Ticker)
		p.Date = p.Date.Truncate(24 * time.Hour)
		if err := s.db.Upsert(priceKey(p.Ticker, p.Date), &p); err != nil {
			return stored, fmt.Errorf("failed to save price %s@%s: %w", p.Ticker, p.Date.Format("2006-01-02"), err)
		}
		stored++
	}
	return stored, nil
}

// ListPrices returns all price points for a ticker, date ascending.
func (s *Store) ListPrices(_ context.Context, ticker string) ([]models.PricePoint, error) {
	ticker = strings.ToUpper(ticker)
	var all []models.PricePoint
	if err := s.db.Find(&all, badgerhold.Where("Ticker").Eq(ticker)); err != nil {
		return nil, fmt.Errorf("failed to list prices for '%s': %w", ticker, err)
	}
	sortPricesByDate(all)
	return all, nil
}

// ListAllPrices returns every stored price point, grouped by nothing in
// particular; callers index them per ticker.
func (s *Store) ListAllPrices(_ context.Context) ([]models.PricePoint, error) {
	var all []models.PricePoint
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list prices: %w", err)
	}
	sortPricesByDate(all)
	return all, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
