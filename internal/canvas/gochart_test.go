package canvas

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricebars/internal/chartview"
)

var pngSignature = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func renderExample(t *testing.T, format Format) []byte {
	t.Helper()
	v, err := chartview.NewFromSeries(chartview.Series{
		{Date: "2020-01-01", Close: 100, High: 101, Low: 99},
		{Date: "2020-01-02", Close: 200, High: 201, Low: 199},
	}, chartview.Size{Width: 320, Height: 240})
	require.NoError(t, err)
	v.OnPointerMove(200, 120)

	c, err := New(format, 320, 240)
	require.NoError(t, err)
	v.Render(c)

	var buf bytes.Buffer
	require.NoError(t, c.Save(&buf))
	return buf.Bytes()
}

func TestGoChart_PNG(t *testing.T) {
	out := renderExample(t, FormatPNG)
	require.Greater(t, len(out), len(pngSignature))
	assert.Equal(t, pngSignature, out[:len(pngSignature)])
}

func TestGoChart_SVG(t *testing.T) {
	out := string(renderExample(t, FormatSVG))
	assert.True(t, strings.Contains(out, "<svg"))
	assert.True(t, strings.Contains(out, "2020-01-01"))
	assert.True(t, strings.Contains(out, "Close: 200.00"))
}

func TestGoChart_Size(t *testing.T) {
	c, err := New(FormatPNG, 64, 32)
	require.NoError(t, err)
	w, h := c.Size()
	assert.Equal(t, 64, w)
	assert.Equal(t, 32, h)

	_, err = New(FormatPNG, 0, 32)
	assert.Error(t, err)

	_, err = New(Format("gif"), 10, 10)
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, f)

	f, err = ParseFormat(" SVG ")
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("jpeg")
	assert.Error(t, err)
}
