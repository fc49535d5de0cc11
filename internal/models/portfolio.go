// Package models defines data structures for Wondash
package models

import (
	"strings"
	"time"
)

// CurrencyClass indicates which currency a holding's prices are quoted in.
// Domestic holdings are already in KRW; foreign holdings are quoted in USD
// and need the USD/KRW rate applied before aggregation.
type CurrencyClass string

const (
	CurrencyDomestic CurrencyClass = "domestic"
	CurrencyForeign  CurrencyClass = "foreign"
)

// ClassifyCurrency derives the currency class from a symbol's venue suffix.
// KRX listings carry ".KS" (KOSPI) or ".KQ" (KOSDAQ); everything else,
// including unsuffixed US tickers and index symbols, is treated as foreign.
func ClassifyCurrency(symbol string) CurrencyClass {
	upper := strings.ToUpper(symbol)
	if strings.HasSuffix(upper, ".KS") || strings.HasSuffix(upper, ".KQ") {
		return CurrencyDomestic
	}
	return CurrencyForeign
}

// Holding represents a portfolio position.
type Holding struct {
	Symbol   string        `json:"symbol"`
	Name     string        `json:"name,omitempty"`
	Quantity float64       `json:"quantity"`
	Class    CurrencyClass `json:"currency_class"`
}

// Portfolio is a named set of holdings owned by a user.
type Portfolio struct {
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Holdings  []Holding `json:"holdings"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Key returns the storage key for this portfolio.
func (p *Portfolio) Key() string {
	return p.UserID + "/" + p.Name
}

// ValuationPoint is the aggregated portfolio value in KRW at one axis date.
type ValuationPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// CompositionEntry is one holding's KRW value in a composition snapshot,
// taken at the first (or last) axis date where the holding has a price.
// A holding that never prices carries 0.
type CompositionEntry struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// PerformanceReport is the full analysis result for one portfolio and range.
type PerformanceReport struct {
	Portfolio        string             `json:"portfolio"`
	Range            string             `json:"range"`
	TotalReturnPct   float64            `json:"total_return_pct"`
	CAGRPct          float64            `json:"cagr_pct"`
	MaxDrawdownPct   float64            `json:"max_drawdown_pct"`
	StartComposition []CompositionEntry `json:"start_composition"`
	EndComposition   []CompositionEntry `json:"end_composition"`
	Points           []ValuationPoint   `json:"points"`
	Summary          string             `json:"summary,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}

// PresetAsset is one weighted component of a model portfolio.
type PresetAsset struct {
	Symbol string  `json:"symbol"`
	Weight float64 `json:"weight"`
}

// PresetPortfolio is a built-in model portfolio scored for the dashboard.
type PresetPortfolio struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Assets      []PresetAsset `json:"assets"`
}

// PresetScore holds the backtest score for a preset. Range is "N/A" when no
// lookback window had enough history to score.
type PresetScore struct {
	PresetID       string  `json:"preset_id,omitempty"`
	Range          string  `json:"range"`
	CAGRPct        float64 `json:"cagr_pct"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
}
