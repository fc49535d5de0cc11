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

type userStorage struct {
	store  *Store
	logger *common.Logger
}

// NewUserStorage creates a new UserStore backed by BadgerHold.
func NewUserStorage(store *Store, logger *common.Logger) *userStorage {
	return &userStorage{store: store, logger: logger}
}

func (s *userStorage) CreateUser(_ context.Context, user *models.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	if err := s.store.db.Insert(user.ID, user); err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("user '%s' already exists", user.Username)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.Debug().Str("username", user.Username).Msg("User created")
	return nil
}

func (s *userStorage) GetUserByID(_ context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.store.db.Get(id, &user)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s': %w", id, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", id, err)
	}
	return &user, nil
}

func (s *userStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.store.db.FindOne(&user, badgerhold.Where("Username").Eq(username))
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user '%s': %w", username, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user '%s': %w", username, err)
	}
	return &user, nil
}

func (s *userStorage) UpdateUser(_ context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	if err := s.store.db.Upsert(user.ID, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	s.logger.Debug().Str("username", user.Username).Msg("User updated")
	return nil
}

func (s *userStorage) DeleteUser(_ context.Context, id string) error {
	err := s.store.db.Delete(id, models.User{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("User deleted")
	return nil
}
