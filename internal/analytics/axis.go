// Package analytics implements the portfolio valuation and performance
// pipeline: a shared date axis across price series, forward-filled prices,
// KRW normalization, aggregate valuation, and the derived performance
// metrics. Everything here is pure computation; callers own all I/O.
package analytics

import (
	"sort"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// dateKey is the canonical calendar-date form used for axis dedup.
const dateKey = "2006-01-02"

var defaultLocation = func() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*3600)
	}
	return loc
}()

// DateOnly truncates a time to its calendar date, keeping the location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// BuildAxis returns the union of calendar dates observed across all given
// series, sorted ascending with no duplicates. Timestamps are interpreted in
// loc so that observations from different venues land on the same trading
// date. Nil or empty series contribute nothing.
func BuildAxis(loc *time.Location, series ...*models.PriceSeries) []time.Time {
	if loc == nil {
		loc = defaultLocation
	}

	seen := make(map[string]time.Time)
	for _, s := range series {
		if s == nil {
			continue
		}
		for _, ts := range s.Timestamps {
			d := DateOnly(time.Unix(ts, 0).In(loc))
			seen[d.Format(dateKey)] = d
		}
	}

	axis := make([]time.Time, 0, len(seen))
	for _, d := range seen {
		axis = append(axis, d)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i].Before(axis[j]) })
	return axis
}
