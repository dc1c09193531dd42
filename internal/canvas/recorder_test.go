package canvas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pricebars/internal/chartview"
)

func TestRecorder_RecordsInOrder(t *testing.T) {
	r := NewRecorder(100, 50)
	r.Clear(drawing.ColorFromHex("ffffff"))
	r.Line(0, 0, 10, 10, chartview.Style{StrokeColor: drawing.ColorFromHex("000000"), StrokeWidth: 1})
	r.Rect(1, 2, 3, 4, chartview.Style{FillColor: drawing.ColorFromHex("ff0000")})
	r.Text("hi", 5, 6, chartview.TextStyle{Size: 9, Align: chartview.AlignRight, VAlign: chartview.AlignMiddle})

	require.Len(t, r.Commands, 4)
	assert.Equal(t, []string{"clear", "line", "rect", "text"}, []string{
		r.Commands[0].Op, r.Commands[1].Op, r.Commands[2].Op, r.Commands[3].Op,
	})
	assert.Equal(t, "#ffffffff", r.Commands[0].Fill)
	assert.Equal(t, []float64{1, 2, 3, 4}, r.Commands[2].Points)
	assert.Equal(t, "", r.Commands[2].Stroke)
	assert.Equal(t, "right", r.Commands[3].Align)
	assert.Equal(t, "middle", r.Commands[3].VAlign)

	w, h := r.Size()
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestRecorder_JSON(t *testing.T) {
	r := NewRecorder(10, 10)
	r.Text("2020-01-01", 1, 2, chartview.TextStyle{Size: 8})

	data, err := json.Marshal(r.Commands)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"op":"text","points":[1,2],"text":"2020-01-01","font_size":8,"align":"left","valign":"baseline"}]`, string(data))
}
