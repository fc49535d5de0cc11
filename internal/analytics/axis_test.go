package analytics

import (
	"testing"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

func fp(v float64) *float64 { return &v }

// daily builds a series with one observation per calendar day starting at start.
func daily(symbol string, start time.Time, closes ...*float64) *models.PriceSeries {
	ts := make([]int64, len(closes))
	for i := range closes {
		ts[i] = start.AddDate(0, 0, i).Unix()
	}
	return &models.PriceSeries{Symbol: symbol, Timestamps: ts, Closes: closes}
}

var kst = time.FixedZone("KST", 9*3600)

func TestBuildAxisUnion(t *testing.T) {
	start := time.Date(2024, 1, 1, 16, 0, 0, 0, kst)
	a := daily("A", start, fp(1), fp(2), fp(3))
	b := daily("B", start.AddDate(0, 0, 2), fp(10), fp(11))

	axis := BuildAxis(kst, a, b)
	if len(axis) != 4 {
		t.Fatalf("expected 4 axis dates, got %d", len(axis))
	}
	for i := 1; i < len(axis); i++ {
		if !axis[i-1].Before(axis[i]) {
			t.Errorf("axis not strictly increasing at %d: %v >= %v", i, axis[i-1], axis[i])
		}
	}
	if got := axis[0].Format(dateKey); got != "2024-01-01" {
		t.Errorf("first axis date = %s, want 2024-01-01", got)
	}
	if got := axis[3].Format(dateKey); got != "2024-01-04" {
		t.Errorf("last axis date = %s, want 2024-01-04", got)
	}
}

func TestBuildAxisDeduplicatesIntraday(t *testing.T) {
	// Two observations on the same calendar day collapse to one axis date.
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, kst)
	s := &models.PriceSeries{
		Symbol:     "A",
		Timestamps: []int64{day.Add(10 * time.Hour).Unix(), day.Add(15 * time.Hour).Unix()},
		Closes:     []*float64{fp(1), fp(2)},
	}

	axis := BuildAxis(kst, s)
	if len(axis) != 1 {
		t.Fatalf("expected 1 axis date, got %d", len(axis))
	}
}

func TestBuildAxisIgnoresEmptySeries(t *testing.T) {
	start := time.Date(2024, 1, 1, 16, 0, 0, 0, kst)
	a := daily("A", start, fp(1), fp(2))

	axis := BuildAxis(kst, a, nil, &models.PriceSeries{Symbol: "B"})
	if len(axis) != 2 {
		t.Fatalf("expected 2 axis dates, got %d", len(axis))
	}
}

func TestBuildAxisEmptyInput(t *testing.T) {
	if axis := BuildAxis(kst); len(axis) != 0 {
		t.Fatalf("expected empty axis, got %d dates", len(axis))
	}
}
