package badger

import (
	"fmt"
	"path/filepath"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
)

// Manager implements interfaces.StorageManager over two embedded BadgerHold
// databases: one for user-owned data (accounts, portfolios, sync blobs) and
// one for the market data cache, so purging the cache never touches user
// records.
type Manager struct {
	userDB   *Store
	marketDB *Store
	logger   *common.Logger

	users      *userStorage
	portfolios *portfolioStorage
	market     *marketStorage
	sync       *syncStorage
}

// NewManager opens the embedded databases under basePath.
func NewManager(logger *common.Logger, basePath string) (*Manager, error) {
	userDB, err := NewStore(logger, filepath.Join(basePath, "user"))
	if err != nil {
		return nil, fmt.Errorf("failed to open user database: %w", err)
	}

	marketDB, err := NewStore(logger, filepath.Join(basePath, "market"))
	if err != nil {
		userDB.Close()
		return nil, fmt.Errorf("failed to open market database: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("Badger storage manager initialized")

	return &Manager{
		userDB:     userDB,
		marketDB:   marketDB,
		logger:     logger,
		users:      NewUserStorage(userDB, logger),
		portfolios: NewPortfolioStorage(userDB, logger),
		market:     NewMarketStorage(marketDB, logger),
		sync:       NewSyncStorage(userDB, logger),
	}, nil
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
	var firstErr error
	if err := m.userDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.marketDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
