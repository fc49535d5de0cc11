package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

type syncStorage struct {
	store  *Store
	logger *common.Logger
}

// NewSyncStorage creates a new SyncStore backed by BadgerHold.
func NewSyncStorage(store *Store, logger *common.Logger) *syncStorage {
	return &syncStorage{store: store, logger: logger}
}

func syncKey(userID, key string) string {
	return userID + "/" + key
}

func (s *syncStorage) Put(_ context.Context, userID, key string, value json.RawMessage) error {
	rec := models.SyncRecord{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.db.Upsert(syncKey(userID, key), &rec); err != nil {
		return fmt.Errorf("failed to put sync record '%s': %w", key, err)
	}
	s.logger.Debug().Str("user", userID).Str("key", key).Msg("Sync record saved")
	return nil
}

func (s *syncStorage) Get(_ context.Context, userID, key string) (*models.SyncRecord, error) {
	var rec models.SyncRecord
	err := s.store.db.Get(syncKey(userID, key), &rec)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("sync record '%s': %w", key, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get sync record '%s': %w", key, err)
	}
	return &rec, nil
}

func (s *syncStorage) Delete(_ context.Context, userID, key string) error {
	err := s.store.db.Delete(syncKey(userID, key), models.SyncRecord{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete sync record '%s': %w", key, err)
	}
	return nil
}

func (s *syncStorage) ListKeys(_ context.Context, userID string) ([]string, error) {
	var records []models.SyncRecord
	if err := s.store.db.Find(&records, badgerhold.Where("UserID").Eq(userID)); err != nil {
		return nil, fmt.Errorf("failed to list sync keys: %w", err)
	}
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = r.Key
	}
	return keys, nil
}
