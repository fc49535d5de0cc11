package analytics

import (
	"context"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// FetchFunc retrieves one symbol's history for a range token. The prober
// treats a fetch error the same as an empty series: the current window is
// rejected and the next shorter one is tried.
type FetchFunc func(ctx context.Context, symbol, rng string) (*models.PriceSeries, error)

// ProberConfig holds the acceptance thresholds for window probing.
type ProberConfig struct {
	Ranges             []string
	MinRawObservations int
	MinAlignedLength   int
	Location           *time.Location
}

// Prober scores a weighted basket against the longest lookback window with
// enough history for every component. Newly listed assets shrink the window
// instead of poisoning the score.
type Prober struct {
	fetch      FetchFunc
	ranges     []string
	minRaw     int
	minAligned int
	loc        *time.Location
}

// NewProber builds a prober over the given fetch function. Zero-value config
// fields take the dashboard defaults: windows 10y/5y/3y/1y, at least 10 raw
// observations per asset, at least 120 aligned dates after trimming.
func NewProber(fetch FetchFunc, cfg ProberConfig) *Prober {
	p := &Prober{
		fetch:      fetch,
		ranges:     cfg.Ranges,
		minRaw:     cfg.MinRawObservations,
		minAligned: cfg.MinAlignedLength,
		loc:        cfg.Location,
	}
	if len(p.ranges) == 0 {
		p.ranges = []string{"10y", "5y", "3y", "1y"}
	}
	if p.minRaw <= 0 {
		p.minRaw = 10
	}
	if p.minAligned <= 0 {
		p.minAligned = 120
	}
	if p.loc == nil {
		p.loc = defaultLocation
	}
	return p
}

// NoScore is the result when no lookback window qualifies.
var NoScore = models.PresetScore{Range: "N/A"}

// Score probes the configured windows longest-first and returns the score of
// the first window every asset can fill. Insufficient history is not an
// error; the sentinel NoScore is returned instead. The only error surfaced
// is context cancellation.
func (p *Prober) Score(ctx context.Context, assets []models.PresetAsset) (models.PresetScore, error) {
	if len(assets) == 0 {
		return NoScore, nil
	}

	for _, rng := range p.ranges {
		if err := ctx.Err(); err != nil {
			return NoScore, err
		}
		if score, ok := p.scoreWindow(ctx, assets, rng); ok {
			return score, nil
		}
	}
	return NoScore, nil
}

// scoreWindow attempts one lookback window. The second return is false when
// the window fails any acceptance check.
func (p *Prober) scoreWindow(ctx context.Context, assets []models.PresetAsset, rng string) (models.PresetScore, bool) {
	series := make([]*models.PriceSeries, len(assets))
	for i, a := range assets {
		s, err := p.fetch(ctx, a.Symbol, rng)
		if err != nil {
			s = nil
		}
		if s.Len() < p.minRaw {
			return models.PresetScore{}, false
		}
		series[i] = s
	}

	axis := BuildAxis(p.loc, series...)
	aligned := make([]Aligned, len(series))
	start := 0
	for i, s := range series {
		aligned[i] = ForwardFill(s, axis, p.loc)
		first := aligned[i].FirstKnown()
		if first < 0 {
			return models.PresetScore{}, false
		}
		if first > start {
			start = first
		}
	}

	// Trim to the latest common start so every asset participates on every
	// remaining date.
	n := len(axis) - start
	if n < p.minAligned {
		return models.PresetScore{}, false
	}

	combined := make([]float64, n)
	for i, a := range aligned {
		base := a.Prices[start]
		if base <= 0 {
			return models.PresetScore{}, false
		}
		w := assets[i].Weight
		for j := 0; j < n; j++ {
			combined[j] += w * a.Prices[start+j] / base
		}
	}

	elapsedDays := axis[len(axis)-1].Sub(axis[start]).Hours() / 24
	years := elapsedDays / 365.25
	return models.PresetScore{
		Range:          rng,
		CAGRPct:        CAGR(combined, years),
		MaxDrawdownPct: MaxDrawdown(combined),
	}, true
}
