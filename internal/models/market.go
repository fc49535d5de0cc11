// Package models defines data structures for Wondash
package models

import (
	"time"
)

// PriceSeries holds a daily close history for one symbol as parallel arrays,
// the shape the chart API returns them in. Closes may contain nils for days
// the venue reported no trade (halts, partial sessions).
type PriceSeries struct {
	Symbol     string     `json:"symbol"`
	Range      string     `json:"range"`
	Timestamps []int64    `json:"timestamps"` // unix seconds, ascending
	Closes     []*float64 `json:"closes"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// Len returns the number of raw observations, valid or not.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Timestamps)
}

// IsEmpty reports whether the series carries no observations at all.
func (s *PriceSeries) IsEmpty() bool {
	return s.Len() == 0
}

// ValidCount returns the number of observations with a non-nil close.
func (s *PriceSeries) ValidCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, c := range s.Closes {
		if c != nil {
			n++
		}
	}
	return n
}

// Quote holds a point-in-time price snapshot for a symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePct     float64   `json:"change_pct"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// SymbolMatch is a single result from a ticker search.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}
