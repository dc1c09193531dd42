// Package scatter draws every date label of a dataset at a random position.
package scatter

import (
	"math/rand"

	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/models"
)

// Options controls the look of the scatter.
type Options struct {
	Theme    chartview.Theme
	FontSize float64
}

// Render clears c and places each bar's date at a uniformly random point in
// [0, width) x [0, height). The same rng seed reproduces the same picture.
func Render(c chartview.Canvas, bars []models.PriceBar, rng *rand.Rand, opts Options) {
	theme := opts.Theme
	if theme == (chartview.Theme{}) {
		theme = chartview.DefaultTheme()
	}
	size := opts.FontSize
	if size <= 0 {
		size = theme.FontSize
	}

	c.Clear(theme.Background)

	w, h := c.Size()
	if w <= 0 || h <= 0 {
		return
	}
	style := chartview.TextStyle{Size: size, Color: theme.Text}
	for _, bar := range bars {
		x := rng.Float64() * float64(w)
		y := rng.Float64() * float64(h)
		c.Text(bar.Date, x, y, style)
	}
}
