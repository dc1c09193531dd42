package chartview

import "github.com/wcharczuk/go-chart/v2/drawing"

// HAlign positions text horizontally relative to its anchor.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign positions text vertically relative to its anchor.
type VAlign int

const (
	AlignBaseline VAlign = iota
	AlignTop
	AlignMiddle
	AlignBottom
)

// Style describes how a line or rectangle is painted. A zero colour is not drawn.
type Style struct {
	FillColor   drawing.Color
	StrokeColor drawing.Color
	StrokeWidth float64
}

// TextStyle describes how a text run is painted and anchored.
type TextStyle struct {
	Size   float64
	Color  drawing.Color
	Align  HAlign
	VAlign VAlign
}

// Canvas is the 2-D drawing surface a chart renders onto.
type Canvas interface {
	Size() (width, height int)
	Clear(color drawing.Color)
	Line(x1, y1, x2, y2 float64, style Style)
	Rect(x, y, w, h float64, style Style)
	Text(body string, x, y float64, style TextStyle)
}
