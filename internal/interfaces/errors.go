package interfaces

import "errors"

// ErrNotFound is wrapped by every backend when a record does not exist, so
// callers can branch on errors.Is without knowing which backend is active.
// It lives here (rather than in internal/storage) so backend packages can
// reference it without importing the factory package that imports them.
var ErrNotFound = errors.New("record not found")
