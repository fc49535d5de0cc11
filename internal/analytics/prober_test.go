package analytics

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// fakeFetch serves canned series keyed by "symbol/range" and records calls.
type fakeFetch struct {
	series map[string]*models.PriceSeries
	calls  []string
	errAll bool
}

func (f *fakeFetch) fetch(_ context.Context, symbol, rng string) (*models.PriceSeries, error) {
	key := symbol + "/" + rng
	f.calls = append(f.calls, key)
	if f.errAll {
		return nil, fmt.Errorf("fetch %s: upstream unavailable", key)
	}
	return f.series[key], nil
}

// growth builds n daily closes growing linearly from first to last.
func growth(symbol string, start time.Time, n int, first, last float64) *models.PriceSeries {
	closes := make([]*float64, n)
	for i := 0; i < n; i++ {
		v := first + (last-first)*float64(i)/float64(n-1)
		closes[i] = fp(v)
	}
	return daily(symbol, start, closes...)
}

func TestProberSentinelOnShortHistory(t *testing.T) {
	// Every window returns only 8 raw observations, below the 10 minimum,
	// so no window qualifies and the sentinel comes back.
	start := time.Date(2024, 1, 2, 16, 0, 0, 0, kst)
	f := &fakeFetch{series: map[string]*models.PriceSeries{}}
	for _, rng := range []string{"10y", "5y", "3y", "1y"} {
		f.series["NEW.KS/"+rng] = growth("NEW.KS", start, 8, 100, 110)
	}

	p := NewProber(f.fetch, ProberConfig{Location: kst})
	score, err := p.Score(context.Background(), []models.PresetAsset{{Symbol: "NEW.KS", Weight: 1}})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "N/A" || score.CAGRPct != 0 || score.MaxDrawdownPct != 0 {
		t.Errorf("score = %+v, want N/A sentinel", score)
	}
	if len(f.calls) != 4 {
		t.Errorf("expected all 4 windows probed, got %d calls", len(f.calls))
	}
}

func TestProberAcceptsLongestWindow(t *testing.T) {
	start := time.Date(2014, 1, 2, 16, 0, 0, 0, kst)
	f := &fakeFetch{series: map[string]*models.PriceSeries{
		"SPY/10y": growth("SPY", start, 200, 100, 200),
	}}

	p := NewProber(f.fetch, ProberConfig{MinAlignedLength: 150, Location: kst})
	score, err := p.Score(context.Background(), []models.PresetAsset{{Symbol: "SPY", Weight: 1}})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "10y" {
		t.Fatalf("range = %s, want 10y", score.Range)
	}
	if len(f.calls) != 1 {
		t.Errorf("expected a single probe, got %v", f.calls)
	}

	elapsedDays := 199.0
	years := elapsedDays / 365.25
	wantCAGR := (math.Pow(2, 1/years) - 1) * 100
	if math.Abs(score.CAGRPct-wantCAGR) > 1e-9 {
		t.Errorf("cagr = %v, want %v", score.CAGRPct, wantCAGR)
	}
	if score.MaxDrawdownPct != 0 {
		t.Errorf("drawdown of monotonic growth = %v, want 0", score.MaxDrawdownPct)
	}
}

func TestProberFallsThroughToShorterWindow(t *testing.T) {
	// The 10y window fails the aligned-length floor; the 5y window passes.
	start := time.Date(2019, 1, 2, 16, 0, 0, 0, kst)
	f := &fakeFetch{series: map[string]*models.PriceSeries{
		"SPY/10y": growth("SPY", start, 30, 100, 120),
		"SPY/5y":  growth("SPY", start, 200, 100, 150),
	}}

	p := NewProber(f.fetch, ProberConfig{MinAlignedLength: 100, Location: kst})
	score, err := p.Score(context.Background(), []models.PresetAsset{{Symbol: "SPY", Weight: 1}})
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "5y" {
		t.Errorf("range = %s, want 5y", score.Range)
	}
}

func TestProberTrimsToCommonStart(t *testing.T) {
	// The second asset lists 50 days late; scoring starts where both exist.
	start := time.Date(2019, 1, 2, 16, 0, 0, 0, kst)
	f := &fakeFetch{series: map[string]*models.PriceSeries{
		"OLD/10y": growth("OLD", start, 250, 100, 200),
		"NEW/10y": growth("NEW", start.AddDate(0, 0, 50), 200, 50, 100),
	}}

	p := NewProber(f.fetch, ProberConfig{MinAlignedLength: 100, Location: kst})
	assets := []models.PresetAsset{
		{Symbol: "OLD", Weight: 0.5},
		{Symbol: "NEW", Weight: 0.5},
	}
	score, err := p.Score(context.Background(), assets)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "10y" {
		t.Fatalf("range = %s, want 10y", score.Range)
	}
	// Scoring starts at axis index 50, so each leg is rebased to its price
	// on that date before weighting.
	oldBase := 100 + 100*50.0/249
	combinedEnd := 0.5*200/oldBase + 0.5*2
	years := 199.0 / 365.25
	wantCAGR := (math.Pow(combinedEnd, 1/years) - 1) * 100
	if math.Abs(score.CAGRPct-wantCAGR) > 1e-6 {
		t.Errorf("cagr = %v, want %v", score.CAGRPct, wantCAGR)
	}
}

func TestProberRejectsWindowTooShortAfterTrim(t *testing.T) {
	// Alone each asset is long enough, but the overlap is under the floor.
	start := time.Date(2019, 1, 2, 16, 0, 0, 0, kst)
	f := &fakeFetch{series: map[string]*models.PriceSeries{}}
	for _, rng := range []string{"10y", "5y", "3y", "1y"} {
		f.series["OLD/"+rng] = growth("OLD", start, 200, 100, 200)
		f.series["NEW/"+rng] = growth("NEW", start.AddDate(0, 0, 150), 50, 50, 100)
	}

	p := NewProber(f.fetch, ProberConfig{MinAlignedLength: 100, Location: kst})
	assets := []models.PresetAsset{
		{Symbol: "OLD", Weight: 0.5},
		{Symbol: "NEW", Weight: 0.5},
	}
	score, err := p.Score(context.Background(), assets)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "N/A" {
		t.Errorf("range = %s, want N/A", score.Range)
	}
}

func TestProberFetchFailureRejectsWindow(t *testing.T) {
	f := &fakeFetch{errAll: true}
	p := NewProber(f.fetch, ProberConfig{Location: kst})
	score, err := p.Score(context.Background(), []models.PresetAsset{{Symbol: "SPY", Weight: 1}})
	if err != nil {
		t.Fatalf("fetch failures must not surface as errors, got %v", err)
	}
	if score.Range != "N/A" {
		t.Errorf("range = %s, want N/A", score.Range)
	}
}

func TestProberEmptyAssets(t *testing.T) {
	f := &fakeFetch{}
	p := NewProber(f.fetch, ProberConfig{Location: kst})
	score, err := p.Score(context.Background(), nil)
	if err != nil {
		t.Fatalf("Score failed: %v", err)
	}
	if score.Range != "N/A" {
		t.Errorf("range = %s, want N/A", score.Range)
	}
	if len(f.calls) != 0 {
		t.Errorf("no fetches expected for empty basket, got %v", f.calls)
	}
}

func TestProberContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeFetch{}
	p := NewProber(f.fetch, ProberConfig{Location: kst})
	_, err := p.Score(ctx, []models.PresetAsset{{Symbol: "SPY", Weight: 1}})
	if err == nil {
		t.Fatal("expected context error")
	}
}
