// Package memory provides an in-memory StorageManager used by service tests
// and available as a throwaway backend for local experiments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
	"github.com/jkwon/wondash/internal/storage"
)

// Manager implements interfaces.StorageManager with plain maps.
type Manager struct {
	mu         sync.RWMutex
	users      map[string]models.User
	portfolios map[string]models.Portfolio
	series     map[string]models.PriceSeries
	quotes     map[string]models.Quote
	syncs      map[string]models.SyncRecord
}

// NewManager creates an empty in-memory storage manager.
func NewManager() *Manager {
	return &Manager{
		users:      make(map[string]models.User),
		portfolios: make(map[string]models.Portfolio),
		series:     make(map[string]models.PriceSeries),
		quotes:     make(map[string]models.Quote),
		syncs:      make(map[string]models.SyncRecord),
	}
}

func (m *Manager) Users() interfaces.UserStore           { return (*userStore)(m) }
func (m *Manager) Portfolios() interfaces.PortfolioStore { return (*portfolioStore)(m) }
func (m *Manager) MarketData() interfaces.MarketDataStore {
	return (*marketStore)(m)
}
func (m *Manager) Sync() interfaces.SyncStore { return (*syncStore)(m) }
func (m *Manager) Close() error               { return nil }

type userStore Manager

func (s *userStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return fmt.Errorf("user '%s' already exists", user.Username)
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = *user
	return nil
}

func (s *userStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("user '%s': %w", id, storage.ErrNotFound)
	}
	return &u, nil
}

func (s *userStore) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user '%s': %w", username, storage.ErrNotFound)
}

func (s *userStore) UpdateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.UpdatedAt = time.Now().UTC()
	s.users[user.ID] = *user
	return nil
}

func (s *userStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return nil
}

type portfolioStore Manager

func (s *portfolioStore) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	portfolio.UpdatedAt = time.Now().UTC()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = portfolio.UpdatedAt
	}
	s.portfolios[portfolio.Key()] = *portfolio
	return nil
}

func (s *portfolioStore) GetPortfolio(_ context.Context, userID, name string) (*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.portfolios[userID+"/"+name]
	if !ok {
		return nil, fmt.Errorf("portfolio '%s': %w", name, storage.ErrNotFound)
	}
	return &p, nil
}

func (s *portfolioStore) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []*models.Portfolio
	for _, p := range s.portfolios {
		if p.UserID == userID {
			portfolio := p
			result = append(result, &portfolio)
		}
	}
	return result, nil
}

func (s *portfolioStore) DeletePortfolio(_ context.Context, userID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.portfolios, userID+"/"+name)
	return nil
}

type marketStore Manager

func (s *marketStore) SaveSeries(_ context.Context, series *models.PriceSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.series[series.Symbol+"|"+series.Range] = *series
	return nil
}

func (s *marketStore) GetSeries(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.series[symbol+"|"+rng]
	if !ok {
		return nil, fmt.Errorf("series '%s/%s': %w", symbol, rng, storage.ErrNotFound)
	}
	return &rec, nil
}

func (s *marketStore) SaveQuote(_ context.Context, quote *models.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[quote.Symbol] = *quote
	return nil
}

func (s *marketStore) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	if !ok {
		return nil, fmt.Errorf("quote '%s': %w", symbol, storage.ErrNotFound)
	}
	return &q, nil
}

type syncStore Manager

func (s *syncStore) Put(_ context.Context, userID, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncs[userID+"/"+key] = models.SyncRecord{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	return nil
}

func (s *syncStore) Get(_ context.Context, userID, key string) (*models.SyncRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.syncs[userID+"/"+key]
	if !ok {
		return nil, fmt.Errorf("sync record '%s': %w", key, storage.ErrNotFound)
	}
	return &rec, nil
}

func (s *syncStore) Delete(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.syncs, userID+"/"+key)
	return nil
}

func (s *syncStore) ListKeys(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var keys []string
	for _, rec := range s.syncs {
		if rec.UserID == userID {
			keys = append(keys, rec.Key)
		}
	}
	return keys, nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
