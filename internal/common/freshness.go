package common

import "time"

// Freshness windows for cached market data.
const (
	FreshnessSeries = 6 * time.Hour
	FreshnessQuote  = 5 * time.Minute
)

// IsFresh reports whether a timestamp is still inside the freshness window.
// A zero timestamp is never fresh.
func IsFresh(t time.Time, window time.Duration) bool {
	if t.IsZero() {
		return false
	}
	return time.Since(t) < window
}
