package analytics

import (
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// Aligned is one series projected onto a shared date axis. Prices[i] is the
// last valid close on or before axis date i; Known[i] is false for dates
// before the series' first valid observation, where the holding has no
// price and therefore no market exposure.
type Aligned struct {
	Prices []float64
	Known  []bool
}

// FirstKnown returns the index of the first axis date with a price, or -1.
func (a Aligned) FirstKnown() int {
	for i, k := range a.Known {
		if k {
			return i
		}
	}
	return -1
}

// LastKnown returns the index of the last axis date with a price, or -1.
func (a Aligned) LastKnown() int {
	for i := len(a.Known) - 1; i >= 0; i-- {
		if a.Known[i] {
			return i
		}
	}
	return -1
}

// ForwardFill projects a raw series onto the axis as a step function: each
// axis date takes the most recent valid close at or before it. Nil closes
// never update the fill state, so a halted day holds the prior price rather
// than dropping to zero. There is no backward fill and no interpolation.
func ForwardFill(s *models.PriceSeries, axis []time.Time, loc *time.Location) Aligned {
	if loc == nil {
		loc = defaultLocation
	}

	out := Aligned{
		Prices: make([]float64, len(axis)),
		Known:  make([]bool, len(axis)),
	}
	if s == nil || len(s.Timestamps) == 0 {
		return out
	}

	var last float64
	have := false
	i := 0
	for ai, day := range axis {
		for i < len(s.Timestamps) {
			d := DateOnly(time.Unix(s.Timestamps[i], 0).In(loc))
			if d.After(day) {
				break
			}
			if i < len(s.Closes) && s.Closes[i] != nil {
				last = *s.Closes[i]
				have = true
			}
			i++
		}
		if have {
			out.Prices[ai] = last
			out.Known[ai] = true
		}
	}
	return out
}
