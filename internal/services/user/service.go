// Package user handles account registration and authentication.
package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords so a caller cannot probe which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service implements UserService.
type Service struct {
	storage interfaces.StorageManager
	logger  *common.Logger
}

// NewService creates a new user service.
func NewService(storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return nil, fmt.Errorf("username must be at least 3 characters")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	if _, err := s.storage.Users().GetUserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username '%s' is taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.TrimSpace(email),
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.storage.Users().CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("User registered")
	return user, nil
}

// Authenticate checks a username and password pair.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.storage.Users().GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID returns the account for a user ID.
func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.storage.Users().GetUserByID(ctx, id)
}

// Ensure Service implements UserService
var _ interfaces.UserService = (*Service)(nil)
