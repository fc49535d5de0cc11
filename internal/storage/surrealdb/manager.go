// Package surrealdb provides the remote SurrealDB storage backend.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/surrealdb/surrealdb.go"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	users      *UserStore
	portfolios *PortfolioStore
	market     *MarketStore
	sync       *SyncStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.SurrealConfig) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Username,
		"pass": config.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Namespace, config.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// Define tables up front; SurrealDB v3 errors on querying missing tables.
	tables := []string{"user", "portfolio", "market_series", "market_quote", "sync_record"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	m := &Manager{
		db:         db,
		logger:     logger,
		users:      NewUserStore(db, logger),
		portfolios: NewPortfolioStore(db, logger),
		market:     NewMarketStore(db, logger),
		sync:       NewSyncStore(db, logger),
	}

	logger.Info().
		Str("address", config.Address).
		Str("namespace", config.Namespace).
		Str("database", config.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func (m *Manager) Users() interfaces.UserStore {
	return m.users
}

func (m *Manager) Portfolios() interfaces.PortfolioStore {
	return m.portfolios
}

func (m *Manager) MarketData() interfaces.MarketDataStore {
	return m.market
}

func (m *Manager) Sync() interfaces.SyncStore {
	return m.sync
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
