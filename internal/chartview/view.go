// Package chartview lays out and draws a bar chart of closing prices and
// resolves pointer positions to the bar underneath them.
package chartview

import (
	"errors"
	"fmt"

	"github.com/bobmcallan/pricebars/internal/models"
)

// DefaultPadding is the plot inset used when no WithPadding option is given.
const DefaultPadding = 60.0

// barFill is the share of each bar slot covered by the drawn rectangle.
const barFill = 0.8

// ErrInvalidInput is returned for empty datasets, non-positive strides and
// degenerate canvas sizes.
var ErrInvalidInput = errors.New("invalid input")

// Size is a canvas size in pixels.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Series is an ordered, chronological run of sampled records.
type Series []models.PriceRecord

// Sample keeps every stride-th bar starting at index 0.
func Sample(raw []models.PriceBar, stride int) (Series, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", ErrInvalidInput)
	}
	if stride <= 0 {
		return nil, fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidInput, stride)
	}

	series := make(Series, 0, (len(raw)+stride-1)/stride)
	for i := 0; i < len(raw); i += stride {
		series = append(series, models.RecordFromBar(raw[i]))
	}
	return series, nil
}

// Geometry is the bar layout for one canvas size and series length.
type Geometry struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Padding    float64 `json:"padding"`
	BarSpacing float64 `json:"bar_spacing"`
	BarWidth   float64 `json:"bar_width"`
}

// NewGeometry spreads n bars evenly across the plot width.
func NewGeometry(size Size, padding float64, n int) (Geometry, error) {
	if size.Width <= 0 || size.Height <= 0 {
		return Geometry{}, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidInput, size.Width, size.Height)
	}
	if n <= 0 {
		return Geometry{}, fmt.Errorf("%w: no bars to lay out", ErrInvalidInput)
	}
	if padding < 0 {
		return Geometry{}, fmt.Errorf("%w: negative padding %g", ErrInvalidInput, padding)
	}
	usable := float64(size.Width) - 2*padding
	if usable <= 0 || float64(size.Height)-2*padding <= 0 {
		return Geometry{}, fmt.Errorf("%w: padding %g leaves no plot area in %dx%d", ErrInvalidInput, padding, size.Width, size.Height)
	}

	spacing := usable / float64(n)
	return Geometry{
		Width:      size.Width,
		Height:     size.Height,
		Padding:    padding,
		BarSpacing: spacing,
		BarWidth:   barFill * spacing,
	}, nil
}

// PlotTop is the y coordinate of the top edge of the plot rectangle.
func (g Geometry) PlotTop() float64 { return g.Padding }

// PlotBottom is the baseline bars grow up from.
func (g Geometry) PlotBottom() float64 { return float64(g.Height) - g.Padding }

// PlotLeft is the x coordinate of the y axis.
func (g Geometry) PlotLeft() float64 { return g.Padding }

// PlotRight is the x coordinate where the x axis ends.
func (g Geometry) PlotRight() float64 { return float64(g.Width) - g.Padding }

// Contains reports whether (x, y) lies inside the plot rectangle, edges included.
func (g Geometry) Contains(x, y float64) bool {
	return x >= g.PlotLeft() && x <= g.PlotRight() && y >= g.PlotTop() && y <= g.PlotBottom()
}

// BarCenter is the x coordinate of the middle of bar i's slot.
func (g Geometry) BarCenter(i int) float64 {
	return g.Padding + float64(i)*g.BarSpacing + g.BarSpacing/2
}

// BarLeft is the x coordinate of bar i's left edge.
func (g Geometry) BarLeft(i int) float64 {
	return g.BarCenter(i) - g.BarWidth/2
}

// ChartView owns a sampled series, its layout and the hover state.
// It is not safe for concurrent use.
type ChartView struct {
	series     Series
	geometry   Geometry
	priceRange PriceRange
	hover      HoverState
	pointerX   float64
	pointerY   float64
	padding    float64
	theme      Theme
}

// New samples raw with stride and lays the result out on a canvas of size.
func New(raw []models.PriceBar, stride int, size Size, opts ...Option) (*ChartView, error) {
	series, err := Sample(raw, stride)
	if err != nil {
		return nil, err
	}
	return NewFromSeries(series, size, opts...)
}

// NewFromSeries builds a view over an already sampled series.
func NewFromSeries(series Series, size Size, opts ...Option) (*ChartView, error) {
	v := &ChartView{
		padding: DefaultPadding,
		theme:   DefaultTheme(),
	}
	for _, opt := range opts {
		opt(v)
	}

	rng, err := ComputePriceRange(series)
	if err != nil {
		return nil, err
	}
	geom, err := NewGeometry(size, v.padding, len(series))
	if err != nil {
		return nil, err
	}

	v.series = series
	v.priceRange = rng
	v.geometry = geom
	return v, nil
}

// Initialized reports whether the view has a series and a layout to draw.
func (v *ChartView) Initialized() bool {
	return v != nil && len(v.series) > 0 && v.geometry.BarSpacing > 0
}

// Series returns a copy of the sampled records.
func (v *ChartView) Series() Series {
	out := make(Series, len(v.series))
	copy(out, v.series)
	return out
}

// Len returns the number of bars.
func (v *ChartView) Len() int {
	return len(v.series)
}

// Record returns the record at index i.
func (v *ChartView) Record(i int) (models.PriceRecord, bool) {
	if i < 0 || i >= len(v.series) {
		return models.PriceRecord{}, false
	}
	return v.series[i], true
}

// Geometry returns the current layout.
func (v *ChartView) Geometry() Geometry {
	return v.geometry
}

// PriceRange returns the close price range used for the y axis.
func (v *ChartView) PriceRange() PriceRange {
	return v.priceRange
}

// Hover returns the current hover state.
func (v *ChartView) Hover() HoverState {
	return v.hover
}

// Pointer returns the last pointer position seen by OnPointerMove.
func (v *ChartView) Pointer() (x, y float64) {
	return v.pointerX, v.pointerY
}

// Resize recomputes the layout for a new canvas size. The hover state is
// re-evaluated at the last pointer position.
func (v *ChartView) Resize(size Size) error {
	if size.Width == v.geometry.Width && size.Height == v.geometry.Height {
		return nil
	}
	geom, err := NewGeometry(size, v.padding, len(v.series))
	if err != nil {
		return err
	}
	v.geometry = geom
	v.hover = HoverAt(v.pointerX, v.pointerY, geom, len(v.series))
	return nil
}

// OnPointerMove records the pointer position and updates the hover state.
func (v *ChartView) OnPointerMove(x, y float64) HoverState {
	v.pointerX, v.pointerY = x, y
	v.hover = HoverAt(x, y, v.geometry, len(v.series))
	return v.hover
}
