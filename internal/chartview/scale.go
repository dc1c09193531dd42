package chartview

import (
	"fmt"
	"math"
)

// flatRangePad widens a range whose min equals its max.
const flatRangePad = 1.0

// PriceRange is the span of close prices shown on the y axis.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r PriceRange) Span() float64 {
	return r.Max - r.Min
}

// nonDegenerate orders the bounds and widens a flat range.
func (r PriceRange) nonDegenerate() PriceRange {
	if r.Max < r.Min {
		r.Min, r.Max = r.Max, r.Min
	}
	if r.Max == r.Min {
		return PriceRange{Min: r.Min - flatRangePad, Max: r.Max + flatRangePad}
	}
	return r
}

// ComputePriceRange scans every close in series. A flat series is widened to
// [close-1, close+1] so the y mapping never divides by zero.
func ComputePriceRange(series Series) (PriceRange, error) {
	if len(series) == 0 {
		return PriceRange{}, fmt.Errorf("%w: empty series has no price range", ErrInvalidInput)
	}

	r := PriceRange{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, rec := range series {
		if math.IsNaN(rec.Close) || math.IsInf(rec.Close, 0) {
			return PriceRange{}, fmt.Errorf("%w: close on %s is not a finite number", ErrInvalidInput, rec.Date)
		}
		r.Min = math.Min(r.Min, rec.Close)
		r.Max = math.Max(r.Max, rec.Close)
	}
	return r.nonDegenerate(), nil
}

// MapPriceToY linearly maps price into [plotTop, plotBottom]; r.Min lands on
// plotBottom and r.Max on plotTop.
func MapPriceToY(price float64, r PriceRange, plotTop, plotBottom float64) float64 {
	r = r.nonDegenerate()
	return plotBottom - (price-r.Min)/r.Span()*(plotBottom-plotTop)
}
