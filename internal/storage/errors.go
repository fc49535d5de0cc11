package storage

import "github.com/jkwon/wondash/internal/interfaces"

// ErrNotFound is wrapped by every backend when a record does not exist, so
// callers can branch on errors.Is without knowing which backend is active.
// It aliases the sentinel in internal/interfaces so backend packages share
// the same value without importing this package.
var ErrNotFound = interfaces.ErrNotFound
