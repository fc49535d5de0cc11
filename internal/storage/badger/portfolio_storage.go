package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

type portfolioStorage struct {
	store  *Store
	logger *common.Logger
}

// NewPortfolioStorage creates a new PortfolioStore backed by BadgerHold.
func NewPortfolioStorage(store *Store, logger *common.Logger) *portfolioStorage {
	return &portfolioStorage{store: store, logger: logger}
}

func (s *portfolioStorage) SavePortfolio(_ context.Context, portfolio *models.Portfolio) error {
	portfolio.UpdatedAt = time.Now().UTC()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = portfolio.UpdatedAt
	}

	if err := s.store.db.Upsert(portfolio.Key(), portfolio); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}
	s.logger.Debug().
		Str("user", portfolio.UserID).
		Str("name", portfolio.Name).
		Int("holdings", len(portfolio.Holdings)).
		Msg("Portfolio saved")
	return nil
}

func (s *portfolioStorage) GetPortfolio(_ context.Context, userID, name string) (*models.Portfolio, error) {
	var portfolio models.Portfolio
	key := userID + "/" + name
	err := s.store.db.Get(key, &portfolio)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("portfolio '%s': %w", name, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get portfolio '%s': %w", name, err)
	}
	return &portfolio, nil
}

func (s *portfolioStorage) ListPortfolios(_ context.Context, userID string) ([]*models.Portfolio, error) {
	var portfolios []models.Portfolio
	if err := s.store.db.Find(&portfolios, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}
	result := make([]*models.Portfolio, len(portfolios))
	for i := range portfolios {
		result[i] = &portfolios[i]
	}
	return result, nil
}

func (s *portfolioStorage) DeletePortfolio(_ context.Context, userID, name string) error {
	key := userID + "/" + name
	err := s.store.db.Delete(key, models.Portfolio{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete portfolio '%s': %w", name, err)
	}
	s.logger.Debug().Str("user", userID).Str("name", name).Msg("Portfolio deleted")
	return nil
}
