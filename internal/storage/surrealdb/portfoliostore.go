package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

type PortfolioStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPortfolioStore(db *surrealdb.DB, logger *common.Logger) *PortfolioStore {
	return &PortfolioStore{
		db:     db,
		logger: logger,
	}
}

func portfolioID(userID, name string) string {
	return userID + "_" + name
}

func (s *PortfolioStore) SavePortfolio(ctx context.Context, portfolio *models.Portfolio) error {
	portfolio.UpdatedAt = time.Now().UTC()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = portfolio.UpdatedAt
	}

	sql := "UPSERT type::record('portfolio', $id) CONTENT $portfolio"
	vars := map[string]any{
		"id":        portfolioID(portfolio.UserID, portfolio.Name),
		"portfolio": portfolio,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Portfolio](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save portfolio after retries: %w", lastErr)
}

func (s *PortfolioStore) GetPortfolio(ctx context.Context, userID, name string) (*models.Portfolio, error) {
	portfolio, err := surrealdb.Select[models.Portfolio](ctx, s.db, surrealmodels.NewRecordID("portfolio", portfolioID(userID, name)))
	if err != nil {
		return nil, fmt.Errorf("failed to select portfolio: %w", err)
	}
	if portfolio == nil || portfolio.Name == "" {
		return nil, fmt.Errorf("portfolio '%s': %w", name, interfaces.ErrNotFound)
	}
	return portfolio, nil
}

func (s *PortfolioStore) ListPortfolios(ctx context.Context, userID string) ([]*models.Portfolio, error) {
	sql := "SELECT * FROM portfolio WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Portfolio](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolios: %w", err)
	}

	var mapped []*models.Portfolio
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
	}
	return mapped, nil
}

func (s *PortfolioStore) DeletePortfolio(ctx context.Context, userID, name string) error {
	_, err := surrealdb.Delete[models.Portfolio](ctx, s.db, surrealmodels.NewRecordID("portfolio", portfolioID(userID, name)))
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.PortfolioStore = (*PortfolioStore)(nil)
