// Package storage selects and wires the persistence backend.
package storage

import (
	"fmt"

	"github.com/jkwon/wondash/internal/common"
	"github.com/jkwon/wondash/internal/interfaces"
	"github.com/jkwon/wondash/internal/storage/badger"
	"github.com/jkwon/wondash/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendBadger  = "badger"
	BackendSurreal = "surreal"
)

// NewManager creates the storage manager for the configured backend.
// Supported backends: "badger" (embedded, default) and "surreal" (remote).
func NewManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendBadger
	}

	switch backend {
	case BackendBadger:
		return badger.NewManager(logger, config.Storage.Path)

	case BackendSurreal:
		return surrealdb.NewManager(logger, &config.Storage.Surreal)

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: badger, surreal)", backend)
	}
}
