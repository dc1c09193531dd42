package chartview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exampleGeometry(t *testing.T) Geometry {
	t.Helper()
	g, err := NewGeometry(Size{Width: 220, Height: 220}, 60, 2)
	require.NoError(t, err)
	return g
}

func TestHoverAt_Example(t *testing.T) {
	g := exampleGeometry(t)

	assert.Equal(t, Hovering(0), HoverAt(85, 100, g, 2))
	assert.Equal(t, Idle(), HoverAt(10, 100, g, 2))
}

func TestHoverAt_OutsidePlotIsIdle(t *testing.T) {
	g := exampleGeometry(t)
	outside := [][2]float64{
		{59.9, 100},  // left of padding
		{160.1, 100}, // right of plot
		{100, 59.9},  // above
		{100, 160.1}, // below
		{-5, -5},
		{500, 500},
	}
	for _, p := range outside {
		assert.Equal(t, Idle(), HoverAt(p[0], p[1], g, 2), "pointer %v", p)
	}
}

func TestHoverAt_RightEdgeIsPastLastBar(t *testing.T) {
	g := exampleGeometry(t)
	assert.Equal(t, Idle(), HoverAt(160, 100, g, 2))
	assert.Equal(t, Hovering(1), HoverAt(159.99, 100, g, 2))
}

func TestHoverAt_IndexSlotContainsPointer(t *testing.T) {
	g, err := NewGeometry(Size{Width: 1000, Height: 500}, 40, 37)
	require.NoError(t, err)

	for x := g.PlotLeft(); x < g.PlotRight(); x += 1.3 {
		h := HoverAt(x, 250, g, 37)
		i, ok := h.Index()
		require.True(t, ok, "x=%v", x)
		left := g.Padding + float64(i)*g.BarSpacing
		assert.GreaterOrEqual(t, x+1e-9, left)
		assert.Less(t, x, left+g.BarSpacing+1e-9)
	}
}

func TestHoverAt_NoBars(t *testing.T) {
	assert.Equal(t, Idle(), HoverAt(100, 100, Geometry{}, 0))
}

func TestOnPointerMove_Transitions(t *testing.T) {
	v, err := NewFromSeries(Series{{Date: "a", Close: 100}, {Date: "b", Close: 200}}, Size{Width: 220, Height: 220})
	require.NoError(t, err)

	assert.Equal(t, Idle(), v.Hover())
	assert.Equal(t, Hovering(0), v.OnPointerMove(85, 100))
	assert.Equal(t, Hovering(1), v.OnPointerMove(135, 100))
	assert.Equal(t, Idle(), v.OnPointerMove(10, 100))

	x, y := v.Pointer()
	assert.Equal(t, 10.0, x)
	assert.Equal(t, 100.0, y)
}

func TestHoverState_JSON(t *testing.T) {
	data, err := json.Marshal(Hovering(3))
	require.NoError(t, err)
	assert.JSONEq(t, `{"hovering":true,"index":3}`, string(data))

	data, err = json.Marshal(Idle())
	require.NoError(t, err)
	assert.JSONEq(t, `{"hovering":false}`, string(data))

	var h HoverState
	require.NoError(t, json.Unmarshal([]byte(`{"hovering":true,"index":0}`), &h))
	assert.Equal(t, Hovering(0), h)
	assert.Equal(t, "hovering(0)", h.String())
}
