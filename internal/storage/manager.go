// Package storage provides the top-level StorageManager wrapping the
// ledger store.
package storage

import (
	"fmt"

	"github.com/kfenwick/folio/internal/common"
	"github.com/kfenwick/folio/internal/interfaces"
	"github.com/kfenwick/folio/internal/storage/ledgerdb"
)

// Manager implements interfaces.StorageManager.
type Manager struct {
	ledger *ledgerdb.Store
	logger *common.Logger
}

// NewManager creates a StorageManager from config.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ledgerStore, err := ledgerdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger store: %w", err)
	}

	logger.Info().
		Str("ledger", config.Storage.Path).
		Msg("Storage manager initialized")

	return &Manager{
		ledger: ledgerStore,
		logger: logger,
	}, nil
}

func (m *Manager) LedgerStore() interfaces.LedgerStore {
	return m.ledger
}

func (m *Manager) Close() error {
	return m.ledger.Close()
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
