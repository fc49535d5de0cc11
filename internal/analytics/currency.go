package analytics

import (
	"github.com/jkwon/wondash/internal/models"
)

// Converter yields the KRW multiplier for a holding's price at each axis
// index. Domestic holdings are already quoted in KRW; foreign holdings are
// multiplied by the forward-filled USD/KRW rate, or by the fallback rate on
// axis dates before the FX series has its first observation.
type Converter struct {
	fx       Aligned
	fallback float64
}

// NewConverter builds a converter from the aligned FX series. A fallback of
// zero or less is replaced with the conventional 1200 KRW/USD.
func NewConverter(fx Aligned, fallback float64) *Converter {
	if fallback <= 0 {
		fallback = 1200
	}
	return &Converter{fx: fx, fallback: fallback}
}

// Multiplier returns the factor applied to a quoted price at axis index i.
func (c *Converter) Multiplier(class models.CurrencyClass, i int) float64 {
	if class == models.CurrencyDomestic {
		return 1
	}
	if i >= 0 && i < len(c.fx.Known) && c.fx.Known[i] && c.fx.Prices[i] > 0 {
		return c.fx.Prices[i]
	}
	return c.fallback
}
