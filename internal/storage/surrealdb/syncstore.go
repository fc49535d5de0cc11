package surrealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/models"
)

type SyncStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewSyncStore(db *surrealdb.DB, logger *common.Logger) *SyncStore {
	return &SyncStore{
		db:     db,
		logger: logger,
	}
}

// sync_record ID format: <userID>_<key>
func syncID(userID, key string) string {
	return userID + "_" + key
}

func (s *SyncStore) Put(ctx context.Context, userID, key string, value json.RawMessage) error {
	rec := models.SyncRecord{
		UserID:    userID,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}

	sql := "UPSERT type::record('sync_record', $id) CONTENT $record"
	vars := map[string]any{"id": syncID(userID, key), "record": rec}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.SyncRecord](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to put sync record after retries: %w", lastErr)
}

func (s *SyncStore) Get(ctx context.Context, userID, key string) (*models.SyncRecord, error) {
	rec, err := surrealdb.Select[models.SyncRecord](ctx, s.db, surrealmodels.NewRecordID("sync_record", syncID(userID, key)))
	if err != nil {
		return nil, fmt.Errorf("failed to select sync record: %w", err)
	}
	if rec == nil || rec.Key == "" {
		return nil, fmt.Errorf("sync record '%s': %w", key, interfaces.ErrNotFound)
	}
	return rec, nil
}

func (s *SyncStore) Delete(ctx context.Context, userID, key string) error {
	_, err := surrealdb.Delete[models.SyncRecord](ctx, s.db, surrealmodels.NewRecordID("sync_record", syncID(userID, key)))
	if err != nil {
		return fmt.Errorf("failed to delete sync record: %w", err)
	}
	return nil
}

func (s *SyncStore) ListKeys(ctx context.Context, userID string) ([]string, error) {
	sql := "SELECT * FROM sync_record WHERE user_id = $user_id"
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.SyncRecord](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list sync records: %w", err)
	}

	var keys []string
	if results != nil && len(*results) > 0 {
		for _, r := range (*results)[0].Result {
			keys = append(keys, r.Key)
		}
	}
	return keys, nil
}

// Compile-time check
var _ interfaces.SyncStore = (*SyncStore)(nil)
