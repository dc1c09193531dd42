package chartview

import "github.com/wcharczuk/go-chart/v2/drawing"

// Theme holds the colours and font size used by Render.
type Theme struct {
	Background      drawing.Color
	Axis            drawing.Color
	Grid            drawing.Color
	Bar             drawing.Color
	BarStroke       drawing.Color
	Highlight       drawing.Color
	HighlightStroke drawing.Color
	Text            drawing.Color
	TooltipFill     drawing.Color
	TooltipStroke   drawing.Color
	FontSize        float64
}

// DefaultTheme returns a light theme with blue bars and an orange highlight.
func DefaultTheme() Theme {
	return Theme{
		Background:      drawing.ColorFromHex("f0f0f0"),
		Axis:            drawing.ColorFromHex("333333"),
		Grid:            drawing.ColorFromHex("d8d8d8"),
		Bar:             drawing.ColorFromHex("6495ed"),
		BarStroke:       drawing.ColorFromHex("4169e1"),
		Highlight:       drawing.ColorFromHex("ff8c00"),
		HighlightStroke: drawing.ColorFromHex("b35f00"),
		Text:            drawing.ColorFromHex("222222"),
		TooltipFill:     drawing.ColorFromHex("ffffff"),
		TooltipStroke:   drawing.ColorFromHex("333333"),
		FontSize:        9,
	}
}

// Option configures a ChartView.
type Option func(*ChartView)

// WithPadding sets the distance between the canvas edges and the plot rectangle.
func WithPadding(padding float64) Option {
	return func(v *ChartView) {
		v.padding = padding
	}
}

// WithTheme replaces the default colours.
func WithTheme(theme Theme) Option {
	return func(v *ChartView) {
		v.theme = theme
	}
}
