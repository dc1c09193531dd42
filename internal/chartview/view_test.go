package chartview

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricebars/internal/models"
)

func makeBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = models.PriceBar{
			Date:   fmt.Sprintf("2020-01-%02d", i+1),
			Open:   c - 1,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000 * float64(i+1),
		}
	}
	return bars
}

func TestSample_LengthIsCeilOfStride(t *testing.T) {
	cases := []struct {
		n, stride, want int
	}{
		{1, 1, 1},
		{10, 1, 10},
		{10, 3, 4},
		{10, 5, 2},
		{10, 10, 1},
		{10, 25, 1},
		{7, 2, 4},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("n=%d/stride=%d", tc.n, tc.stride), func(t *testing.T) {
			series, err := Sample(makeBars(tc.n), tc.stride)
			require.NoError(t, err)
			assert.Len(t, series, tc.want)
		})
	}
}

func TestSample_PreservesOrderAndPicksStrideIndices(t *testing.T) {
	raw := makeBars(10)
	series, err := Sample(raw, 3)
	require.NoError(t, err)

	want := []string{raw[0].Date, raw[3].Date, raw[6].Date, raw[9].Date}
	for i, rec := range series {
		assert.Equal(t, want[i], rec.Date)
	}
	assert.Equal(t, raw[3].High, series[1].High)
	assert.Equal(t, raw[3].Volume, series[1].Volume)
}

func TestSample_InvalidInput(t *testing.T) {
	_, err := Sample(nil, 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Sample(makeBars(3), 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = Sample(makeBars(3), -2)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestNewGeometry_Example(t *testing.T) {
	g, err := NewGeometry(Size{Width: 220, Height: 220}, 60, 2)
	require.NoError(t, err)

	assert.Equal(t, 50.0, g.BarSpacing)
	assert.Equal(t, 40.0, g.BarWidth)
	assert.Equal(t, 60.0, g.PlotTop())
	assert.Equal(t, 160.0, g.PlotBottom())
	assert.Equal(t, 160.0, g.PlotRight())
	assert.Equal(t, 85.0, g.BarCenter(0))
	assert.Equal(t, 65.0, g.BarLeft(0))
}

func TestNewGeometry_BarWidthNeverExceedsSpacing(t *testing.T) {
	for n := 1; n < 500; n += 37 {
		g, err := NewGeometry(Size{Width: 1000, Height: 400}, 40, n)
		require.NoError(t, err)
		assert.LessOrEqual(t, g.BarWidth, g.BarSpacing)
	}
}

func TestNewGeometry_Invalid(t *testing.T) {
	_, err := NewGeometry(Size{Width: 0, Height: 100}, 10, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewGeometry(Size{Width: 100, Height: 100}, 10, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = NewGeometry(Size{Width: 100, Height: 100}, 50, 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNew_Deterministic(t *testing.T) {
	raw := makeBars(40)
	a, err := New(raw, 4, Size{Width: 800, Height: 400})
	require.NoError(t, err)
	b, err := New(raw, 4, Size{Width: 800, Height: 400})
	require.NoError(t, err)

	assert.Equal(t, a.Series(), b.Series())
	assert.Equal(t, a.Geometry(), b.Geometry())
	assert.Equal(t, a.PriceRange(), b.PriceRange())
	assert.False(t, a.Hover().IsHovering())
}

func TestNew_EmptyDatasetFails(t *testing.T) {
	v, err := New(nil, 1, Size{Width: 800, Height: 400})
	assert.Nil(t, v)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChartView_SeriesIsCopy(t *testing.T) {
	v, err := New(makeBars(3), 1, Size{Width: 300, Height: 300})
	require.NoError(t, err)

	s := v.Series()
	s[0].Close = -1

	rec, ok := v.Record(0)
	require.True(t, ok)
	assert.Equal(t, 100.0, rec.Close)

	_, ok = v.Record(3)
	assert.False(t, ok)
}

func TestChartView_ResizeRecomputesGeometryAndHover(t *testing.T) {
	v, err := New(makeBars(2), 1, Size{Width: 220, Height: 220}, WithPadding(60))
	require.NoError(t, err)

	assert.Equal(t, Hovering(1), v.OnPointerMove(140, 100))

	// Doubling the width moves x=140 into the first slot.
	require.NoError(t, v.Resize(Size{Width: 440, Height: 220}))
	assert.Equal(t, 160.0, v.Geometry().BarSpacing)
	assert.Equal(t, Hovering(0), v.Hover())

	assert.ErrorIs(t, v.Resize(Size{Width: 100, Height: 220}), ErrInvalidInput)
	assert.Equal(t, 440, v.Geometry().Width)
}
