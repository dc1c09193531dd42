package chartview_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
)

func exampleView(t *testing.T) *chartview.ChartView {
	t.Helper()
	v, err := chartview.NewFromSeries(chartview.Series{
		{Date: "2020-01-01", Close: 100, High: 105.5, Low: 98.25},
		{Date: "2020-01-02", Close: 200, High: 210, Low: 190.126},
	}, chartview.Size{Width: 220, Height: 220}, chartview.WithPadding(60))
	require.NoError(t, err)
	return v
}

func longView(t *testing.T, n int) *chartview.ChartView {
	t.Helper()
	series := make(chartview.Series, n)
	for i := range series {
		series[i].Date = fmt.Sprintf("d%03d", i)
		series[i].Close = float64(10 + i%17)
	}
	v, err := chartview.NewFromSeries(series, chartview.Size{Width: 1200, Height: 600})
	require.NoError(t, err)
	return v
}

func TestRender_UninitializedDrawsBackgroundOnly(t *testing.T) {
	rec := canvas.NewRecorder(200, 200)

	var v chartview.ChartView
	v.Render(rec)
	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "clear", rec.Commands[0].Op)

	rec.Reset()
	var nilView *chartview.ChartView
	nilView.Render(rec)
	require.Len(t, rec.Commands, 1)
	assert.Equal(t, "clear", rec.Commands[0].Op)
}

func TestRender_AxesAtPadding(t *testing.T) {
	rec := canvas.NewRecorder(220, 220)
	exampleView(t).Render(rec)

	lines := rec.Filter("line")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Equal(t, []float64{60, 60, 60, 160}, lines[0].Points)
	assert.Equal(t, []float64{60, 160, 160, 160}, lines[1].Points)
}

func TestRender_SixRoundedPriceLabels(t *testing.T) {
	rec := canvas.NewRecorder(220, 220)
	exampleView(t).Render(rec)

	var labels []string
	for _, c := range rec.Filter("text") {
		if c.Align == "right" {
			labels = append(labels, c.Text)
		}
	}
	assert.Equal(t, []string{"100", "120", "140", "160", "180", "200"}, labels)
}

func TestRender_PriceLabelsNeverNegativeZero(t *testing.T) {
	v, err := chartview.NewFromSeries(chartview.Series{
		{Date: "2020-01-01", Close: 0},
		{Date: "2020-01-02", Close: 0},
	}, chartview.Size{Width: 220, Height: 220}, chartview.WithPadding(60))
	require.NoError(t, err)

	rec := canvas.NewRecorder(220, 220)
	v.Render(rec)

	var labels []string
	for _, c := range rec.Filter("text") {
		if c.Align == "right" {
			labels = append(labels, c.Text)
		}
	}
	assert.Equal(t, []string{"-1", "-1", "0", "0", "1", "1"}, labels)
	assert.NotContains(t, labels, "-0")
}

func TestRender_DateLabelInterval(t *testing.T) {
	cases := []struct {
		n, want int
	}{
		{2, 2},
		{10, 10},
		{11, 6},
		{95, 10},
		{250, 10},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d", tc.n), func(t *testing.T) {
			rec := canvas.NewRecorder(1200, 600)
			longView(t, tc.n).Render(rec)

			count := 0
			for _, c := range rec.Filter("text") {
				if c.Align == "center" {
					count++
				}
			}
			assert.Equal(t, tc.want, count)
		})
	}
}

func TestRender_OneBarPerRecord(t *testing.T) {
	rec := canvas.NewRecorder(220, 220)
	exampleView(t).Render(rec)

	bars := rec.Filter("rect")
	require.Len(t, bars, 2)

	// bar 0: x = 60 + 25 - 20, top at min price sits on the baseline
	assert.Equal(t, []float64{65, 160, 40, 0}, bars[0].Points)
	// bar 1: max price reaches the plot top
	assert.Equal(t, []float64{115, 60, 40, 100}, bars[1].Points)
	assert.Equal(t, bars[0].Fill, bars[1].Fill)
}

func TestRender_HoveredBarHighlightedWithTooltip(t *testing.T) {
	v := exampleView(t)
	require.True(t, v.OnPointerMove(135, 100).IsHovering())

	rec := canvas.NewRecorder(220, 220)
	v.Render(rec)

	rects := rec.Filter("rect")
	require.Len(t, rects, 3) // two bars and the tooltip box
	assert.NotEqual(t, rects[0].Fill, rects[1].Fill)
	assert.NotEqual(t, rects[0].Stroke, rects[1].Stroke)

	var texts []string
	for _, c := range rec.Filter("text") {
		if c.Align == "left" {
			texts = append(texts, c.Text)
		}
	}
	assert.Equal(t, []string{"2020-01-02", "Close: 200.00", "High: 210.00", "Low: 190.13"}, texts)
}

func TestRender_TooltipStaysOnCanvas(t *testing.T) {
	v := exampleView(t)
	v.OnPointerMove(159, 159) // bottom-right corner of the plot

	rec := canvas.NewRecorder(220, 220)
	v.Render(rec)

	rects := rec.Filter("rect")
	tip := rects[len(rects)-1].Points
	x, y, w, h := tip[0], tip[1], tip[2], tip[3]
	assert.GreaterOrEqual(t, x, 0.0)
	assert.GreaterOrEqual(t, y, 0.0)
	assert.LessOrEqual(t, x+w, 220.0)
	assert.LessOrEqual(t, y+h, 220.0)
}

func TestRender_Idempotent(t *testing.T) {
	v := longView(t, 57)
	v.OnPointerMove(400, 300)

	a := canvas.NewRecorder(1200, 600)
	b := canvas.NewRecorder(1200, 600)
	v.Render(a)
	v.Render(b)

	assert.Equal(t, a.Commands, b.Commands)
}

func TestRender_CustomTheme(t *testing.T) {
	theme := chartview.DefaultTheme()
	theme.Background = theme.Highlight

	v, err := chartview.NewFromSeries(chartview.Series{{Date: "x", Close: 1}}, chartview.Size{Width: 300, Height: 300}, chartview.WithTheme(theme))
	require.NoError(t, err)

	rec := canvas.NewRecorder(300, 300)
	v.Render(rec)
	assert.Equal(t, "#ff8c00ff", rec.Commands[0].Fill)
}
