package analytics

import (
	"math"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// YearsForRange maps a UI range token to the year count used when
// annualizing a range-bound return. Unknown tokens fall back to 5, the
// dashboard's default lookback.
func YearsForRange(rng string) float64 {
	switch rng {
	case "10y":
		return 10
	case "5y":
		return 5
	case "3y":
		return 3
	case "1y":
		return 1
	case "6mo":
		return 0.5
	default:
		return 5
	}
}

// TotalReturn is the simple percent return from the first to the last value.
// A zero starting value yields zero rather than a division blowup.
func TotalReturn(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	first, last := values[0], values[len(values)-1]
	if first == 0 {
		return 0
	}
	return (last - first) / first * 100
}

// CAGR annualizes the first-to-last growth over the given number of years,
// in percent. Computed only when both endpoints are positive; degenerate
// inputs yield zero.
func CAGR(values []float64, years float64) float64 {
	if len(values) == 0 || years <= 0 {
		return 0
	}
	first, last := values[0], values[len(values)-1]
	if first <= 0 || last <= 0 {
		return 0
	}
	return (math.Pow(last/first, 1/years) - 1) * 100
}

// MaxDrawdown scans with a running peak and returns the deepest
// peak-to-trough decline in percent. The result is always <= 0; a series
// that never declines scores 0.
func MaxDrawdown(values []float64) float64 {
	peak := math.Inf(-1)
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			dd := (v - peak) / peak * 100
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// Composition snapshots each holding's KRW value at the first (or, with
// end set, the last) axis date where that holding has a price, in holdings
// order. A holding that never prices reports 0, so a late listing still
// shows its value at its first priced date rather than dropping out of the
// start snapshot.
func (v *Valuation) Composition(holdings []models.Holding, end bool) []models.CompositionEntry {
	entries := make([]models.CompositionEntry, 0, len(holdings))
	for _, h := range holdings {
		label := h.Name
		if label == "" {
			label = h.Symbol
		}
		value := 0.0
		aligned := Aligned{Known: v.HoldingKnown[h.Symbol]}
		idx := aligned.FirstKnown()
		if end {
			idx = aligned.LastKnown()
		}
		if idx >= 0 {
			value = v.HoldingValues[h.Symbol][idx]
		}
		entries = append(entries, models.CompositionEntry{Label: label, Value: value})
	}
	return entries
}

// BuildReport derives the full performance report for a valuation over the
// given range token.
func BuildReport(v *Valuation, holdings []models.Holding, name, rng string) *models.PerformanceReport {
	return &models.PerformanceReport{
		Portfolio:        name,
		Range:            rng,
		TotalReturnPct:   TotalReturn(v.Total),
		CAGRPct:          CAGR(v.Total, YearsForRange(rng)),
		MaxDrawdownPct:   MaxDrawdown(v.Total),
		StartComposition: v.Composition(holdings, false),
		EndComposition:   v.Composition(holdings, true),
		Points:           v.Points(),
		GeneratedAt:      time.Now().UTC(),
	}
}
