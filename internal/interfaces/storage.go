// Package interfaces defines service contracts for folio
package interfaces

import (
	"context"

	"github.com/kfenwick/folio/internal/models"
)

// StorageManager coordinates all storage backends
type StorageManager interface {
	LedgerStore() LedgerStore

	// Lifecycle
	Close() error
}

// LedgerStore persists the three engine inputs: transactions, instruments,
// and price points. Everything the engine derives from them stays in memory.
type LedgerStore interface {
	// Transactions
	SaveTransaction(ctx context.Context, tx *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error

	// Instruments (upsert by ticker, last-wins)
	SaveInstrument(ctx context.Context, ins *models.Instrument) error
	GetInstrument(ctx context.Context, ticker string) (*models.Instrument, error)
	ListInstruments(ctx context.Context) ([]models.Instrument, error)
	DeleteInstrument(ctx context.Context, ticker string) error

	// Price points (upsert by ticker+date)
	SavePricePoints(ctx context.Context, points []models.PricePoint) (int, error)
	ListPrices(ctx context.Context, ticker string) ([]models.PricePoint, error)
	ListAllPrices(ctx context.Context) ([]models.PricePoint, error)

	Close() error
}
