package canvas

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pricebars/internal/chartview"
)

// Command is one recorded draw call.
type Command struct {
	Op          string    `json:"op"`
	Points      []float64 `json:"points,omitempty"`
	Text        string    `json:"text,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	FontSize    float64   `json:"font_size,omitempty"`
	Align       string    `json:"align,omitempty"`
	VAlign      string    `json:"valign,omitempty"`
}

// Recorder is a Canvas that keeps every draw call in order.
type Recorder struct {
	width    int
	height   int
	Commands []Command
}

// NewRecorder creates an empty recorder reporting the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{width: width, height: height}
}

// Size returns the size passed to NewRecorder.
func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

// Clear records a full-canvas fill.
func (r *Recorder) Clear(color drawing.Color) {
	r.Commands = append(r.Commands, Command{Op: "clear", Fill: hex(color)})
}

// Line records a stroked segment.
func (r *Recorder) Line(x1, y1, x2, y2 float64, style chartview.Style) {
	r.Commands = append(r.Commands, Command{
		Op:          "line",
		Points:      []float64{x1, y1, x2, y2},
		Stroke:      hex(style.StrokeColor),
		StrokeWidth: style.StrokeWidth,
	})
}

// Rect records a rectangle as x, y, width, height.
func (r *Recorder) Rect(x, y, w, h float64, style chartview.Style) {
	r.Commands = append(r.Commands, Command{
		Op:          "rect",
		Points:      []float64{x, y, w, h},
		Fill:        hex(style.FillColor),
		Stroke:      hex(style.StrokeColor),
		StrokeWidth: style.StrokeWidth,
	})
}

// Text records a text run and its anchor.
func (r *Recorder) Text(body string, x, y float64, style chartview.TextStyle) {
	r.Commands = append(r.Commands, Command{
		Op:       "text",
		Points:   []float64{x, y},
		Text:     body,
		Fill:     hex(style.Color),
		FontSize: style.Size,
		Align:    alignName(style.Align),
		VAlign:   valignName(style.VAlign),
	})
}

// Filter returns the recorded commands with the given op, in order.
func (r *Recorder) Filter(op string) []Command {
	var out []Command
	for _, c := range r.Commands {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() {
	r.Commands = nil
}

func hex(c drawing.Color) string {
	if c.IsZero() {
		return ""
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func alignName(a chartview.HAlign) string {
	switch a {
	case chartview.AlignCenter:
		return "center"
	case chartview.AlignRight:
		return "right"
	default:
		return "left"
	}
}

func valignName(a chartview.VAlign) string {
	switch a {
	case chartview.AlignTop:
		return "top"
	case chartview.AlignMiddle:
		return "middle"
	case chartview.AlignBottom:
		return "bottom"
	default:
		return "baseline"
	}
}
