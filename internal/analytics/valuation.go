package analytics

import (
	"errors"
	"time"

	"github.com/jkwon/wondash/internal/models"
)

// ErrNoUsableSeries is returned when not a single holding has price history,
// leaving nothing to value.
var ErrNoUsableSeries = errors.New("no usable price series for any holding")

// Input gathers everything the valuation pipeline needs. Series maps holding
// symbols to their raw histories; entries may be missing or empty, in which
// case the holding contributes zero on every date. FX is the USD/KRW series
// and may be nil (foreign holdings then use FXFallback throughout).
type Input struct {
	Holdings   []models.Holding
	Series     map[string]*models.PriceSeries
	FX         *models.PriceSeries
	FXFallback float64
	Location   *time.Location
}

// Valuation is the aligned result of valuing a portfolio: the shared date
// axis, the aggregate KRW value per date, and each holding's KRW value and
// price availability per date for composition snapshots.
type Valuation struct {
	Axis          []time.Time
	Total         []float64
	HoldingValues map[string][]float64
	HoldingKnown  map[string][]bool
}

// Valuate runs the full pipeline: build the union date axis (FX included),
// forward-fill every series, normalize foreign prices to KRW, and sum
// quantity times normalized price per date. Holdings without a price on a
// given date contribute zero there. The only hard failure is having no
// usable series at all.
func Valuate(in Input) (*Valuation, error) {
	loc := in.Location
	if loc == nil {
		loc = defaultLocation
	}

	usable := false
	all := make([]*models.PriceSeries, 0, len(in.Holdings)+1)
	for _, h := range in.Holdings {
		s := in.Series[h.Symbol]
		if !s.IsEmpty() {
			usable = true
		}
		all = append(all, s)
	}
	if !usable {
		return nil, ErrNoUsableSeries
	}
	all = append(all, in.FX)

	axis := BuildAxis(loc, all...)
	if len(axis) == 0 {
		return nil, ErrNoUsableSeries
	}

	conv := NewConverter(ForwardFill(in.FX, axis, loc), in.FXFallback)

	total := make([]float64, len(axis))
	holdingValues := make(map[string][]float64, len(in.Holdings))
	holdingKnown := make(map[string][]bool, len(in.Holdings))
	for _, h := range in.Holdings {
		aligned := ForwardFill(in.Series[h.Symbol], axis, loc)
		values := make([]float64, len(axis))
		for i := range axis {
			if aligned.Known[i] {
				values[i] = h.Quantity * aligned.Prices[i] * conv.Multiplier(h.Class, i)
			}
			total[i] += values[i]
		}
		holdingValues[h.Symbol] = values
		holdingKnown[h.Symbol] = aligned.Known
	}

	return &Valuation{
		Axis:          axis,
		Total:         total,
		HoldingValues: holdingValues,
		HoldingKnown:  holdingKnown,
	}, nil
}

// Points converts the aggregate valuation into dated points for transport.
func (v *Valuation) Points() []models.ValuationPoint {
	points := make([]models.ValuationPoint, len(v.Axis))
	for i, d := range v.Axis {
		points[i] = models.ValuationPoint{Date: d, Value: v.Total[i]}
	}
	return points
}
