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

type UserStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewUserStore(db *surrealdb.DB, logger *common.Logger) *UserStore {
	return &UserStore{
		db:     db,
		logger: logger,
	}
}

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := s.GetUserByUsername(ctx, user.Username)
	if err == nil && existing != nil {
		return fmt.Errorf("user '%s' already exists", user.Username)
	}

	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	return s.upsert(ctx, user)
}

func (s *UserStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := surrealdb.Select[models.User](ctx, s.db, surrealmodels.NewRecordID("user", id))
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("user '%s': %w", id, interfaces.ErrNotFound)
	}
	return user, nil
}

func (s *UserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := "SELECT * FROM user WHERE username = $username LIMIT 1"
	vars := map[string]any{"username": username}

	results, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to query user by username: %w", err)
	}
	if results != nil && len(*results) > 0 && len((*results)[0].Result) > 0 {
		return &(*results)[0].Result[0], nil
	}
	return nil, fmt.Errorf("user '%s': %w", username, interfaces.ErrNotFound)
}

func (s *UserStore) UpdateUser(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	return s.upsert(ctx, user)
}

func (s *UserStore) upsert(ctx context.Context, user *models.User) error {
	sql := "UPSERT type::record('user', $id) CONTENT $user"
	vars := map[string]any{"id": user.ID, "user": user}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.User](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save user after retries: %w", lastErr)
}

func (s *UserStore) DeleteUser(ctx context.Context, id string) error {
	_, err := surrealdb.Delete[models.User](ctx, s.db, surrealmodels.NewRecordID("user", id))
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// Compile-time check
var _ interfaces.UserStore = (*UserStore)(nil)
