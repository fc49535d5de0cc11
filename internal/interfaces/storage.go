package interfaces

import (
	"context"
	"encoding/json"

	"github.com/jkwon/wondash/internal/models"
)

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// PortfolioStore persists named portfolios per user.
type PortfolioStore interface {
	SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error
	GetPortfolio(ctx context.Context, userID, name string) (*models.Portfolio, error)
	ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error)
	DeletePortfolio(ctx context.Context, userID, name string) error
}

// MarketDataStore caches fetched price series and quotes keyed by symbol.
type MarketDataStore interface {
	SaveSeries(ctx context.Context, series *models.PriceSeries) error
	GetSeries(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)
	SaveQuote(ctx context.Context, quote *models.Quote) error
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}

// SyncStore persists opaque client state blobs per user and key.
type SyncStore interface {
	Put(ctx context.Context, userID, key string, value json.RawMessage) error
	Get(ctx context.Context, userID, key string) (*models.SyncRecord, error)
	Delete(ctx context.Context, userID, key string) error
	ListKeys(ctx context.Context, userID string) ([]string, error)
}

// StorageManager bundles the storage areas behind one lifecycle.
type StorageManager interface {
	Users() UserStore
	Portfolios() PortfolioStore
	MarketData() MarketDataStore
	Sync() SyncStore
	Close() error
}
