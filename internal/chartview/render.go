package chartview

import (
	"fmt"
	"math"
	"strconv"
)

const (
	yLabelSteps   = 5
	xLabelTarget  = 10
	axisLabelGap  = 8.0
	pointerOffset = 12.0

	tooltipWidth      = 150.0
	tooltipLineHeight = 16.0
	tooltipInset      = 8.0
)

// Render draws the chart onto c. An uninitialized view only clears the
// canvas to the background colour.
func (v *ChartView) Render(c Canvas) {
	theme := DefaultTheme()
	if v != nil && v.theme != (Theme{}) {
		theme = v.theme
	}
	c.Clear(theme.Background)

	if !v.Initialized() {
		return
	}

	g := v.geometry
	v.renderAxes(c, g, theme)
	v.renderPriceLabels(c, g, theme)
	v.renderDateLabels(c, g, theme)
	v.renderBars(c, g, theme)
	if i, ok := v.hover.Index(); ok {
		v.renderTooltip(c, g, theme, i)
	}
}

func (v *ChartView) renderAxes(c Canvas, g Geometry, theme Theme) {
	axis := Style{StrokeColor: theme.Axis, StrokeWidth: 1}
	c.Line(g.PlotLeft(), g.PlotTop(), g.PlotLeft(), g.PlotBottom(), axis)
	c.Line(g.PlotLeft(), g.PlotBottom(), g.PlotRight(), g.PlotBottom(), axis)
}

func (v *ChartView) renderPriceLabels(c Canvas, g Geometry, theme Theme) {
	grid := Style{StrokeColor: theme.Grid, StrokeWidth: 0.5}
	label := TextStyle{Size: theme.FontSize, Color: theme.Text, Align: AlignRight, VAlign: AlignMiddle}

	r := v.priceRange
	for i := 0; i <= yLabelSteps; i++ {
		price := r.Min + float64(i)*r.Span()/yLabelSteps
		y := MapPriceToY(price, r, g.PlotTop(), g.PlotBottom())
		if i > 0 {
			c.Line(g.PlotLeft(), y, g.PlotRight(), y, grid)
		}
		c.Text(strconv.Itoa(int(math.Round(price))), g.PlotLeft()-axisLabelGap, y, label)
	}
}

// dateLabelInterval keeps roughly ten date labels on the x axis.
func dateLabelInterval(n int) int {
	step := (n + xLabelTarget - 1) / xLabelTarget
	if step < 1 {
		return 1
	}
	return step
}

func (v *ChartView) renderDateLabels(c Canvas, g Geometry, theme Theme) {
	label := TextStyle{Size: theme.FontSize, Color: theme.Text, Align: AlignCenter, VAlign: AlignTop}
	for i := 0; i < len(v.series); i += dateLabelInterval(len(v.series)) {
		c.Text(v.series[i].Date, g.BarCenter(i), g.PlotBottom()+axisLabelGap, label)
	}
}

func (v *ChartView) renderBars(c Canvas, g Geometry, theme Theme) {
	normal := Style{FillColor: theme.Bar, StrokeColor: theme.BarStroke, StrokeWidth: 1}
	highlight := Style{FillColor: theme.Highlight, StrokeColor: theme.HighlightStroke, StrokeWidth: 2}

	hovered, hovering := v.hover.Index()
	for i, rec := range v.series {
		top := MapPriceToY(rec.Close, v.priceRange, g.PlotTop(), g.PlotBottom())
		style := normal
		if hovering && i == hovered {
			style = highlight
		}
		c.Rect(g.BarLeft(i), top, g.BarWidth, g.PlotBottom()-top, style)
	}
}

// tooltipOrigin places the tooltip below-right of the pointer, clamped so
// the box stays on the canvas.
func tooltipOrigin(px, py float64, g Geometry, h float64) (float64, float64) {
	x := clamp(px+pointerOffset, 0, float64(g.Width)-tooltipWidth)
	y := clamp(py+pointerOffset, 0, float64(g.Height)-h)
	return x, y
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return math.Max(lo, math.Min(v, hi))
}

func (v *ChartView) renderTooltip(c Canvas, g Geometry, theme Theme, i int) {
	rec := v.series[i]
	lines := []string{
		rec.Date,
		fmt.Sprintf("Close: %.2f", rec.Close),
		fmt.Sprintf("High: %.2f", rec.High),
		fmt.Sprintf("Low: %.2f", rec.Low),
	}

	h := float64(len(lines))*tooltipLineHeight + 2*tooltipInset
	x, y := tooltipOrigin(v.pointerX, v.pointerY, g, h)
	c.Rect(x, y, tooltipWidth, h, Style{FillColor: theme.TooltipFill, StrokeColor: theme.TooltipStroke, StrokeWidth: 1})

	text := TextStyle{Size: theme.FontSize, Color: theme.Text, Align: AlignLeft, VAlign: AlignTop}
	for n, line := range lines {
		c.Text(line, x+tooltipInset, y+tooltipInset+float64(n)*tooltipLineHeight, text)
	}
}
