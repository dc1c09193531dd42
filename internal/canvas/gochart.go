// Package canvas provides drawing surfaces for chart views: a go-chart backed
// PNG/SVG renderer and an in-memory recorder of draw calls.
package canvas

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pricebars/internal/chartview"
)

// Format is an output image format.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat accepts "png" or "svg" in any case; empty means png.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return FormatPNG, nil
	case "svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("unsupported image format %q", s)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// GoChart draws onto a go-chart Renderer.
type GoChart struct {
	r      chart.Renderer
	width  int
	height int
}

// New creates a canvas of the given size for the format.
func New(format Format, width, height int) (*GoChart, error) {
	switch format {
	case FormatSVG:
		return newGoChart(chart.SVG, width, height)
	case FormatPNG:
		return newGoChart(chart.PNG, width, height)
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
}

func newGoChart(provider chart.RendererProvider, width, height int) (*GoChart, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas size must be positive, got %dx%d", width, height)
	}
	r, err := provider(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load default font: %w", err)
	}
	r.SetFont(font)
	return &GoChart{r: r, width: width, height: height}, nil
}

// Size returns the canvas size in pixels.
func (g *GoChart) Size() (int, int) {
	return g.width, g.height
}

// Clear paints the whole canvas with color.
func (g *GoChart) Clear(color drawing.Color) {
	g.r.ResetStyle()
	g.r.SetFillColor(color)
	g.path(0, 0, float64(g.width), float64(g.height))
	g.r.Fill()
}

// Line strokes a single segment.
func (g *GoChart) Line(x1, y1, x2, y2 float64, style chartview.Style) {
	if style.StrokeColor.IsZero() {
		return
	}
	g.r.ResetStyle()
	g.r.SetStrokeColor(style.StrokeColor)
	g.r.SetStrokeWidth(style.StrokeWidth)
	g.r.MoveTo(px(x1), px(y1))
	g.r.LineTo(px(x2), px(y2))
	g.r.Stroke()
}

// Rect fills and/or strokes an axis-aligned rectangle.
func (g *GoChart) Rect(x, y, w, h float64, style chartview.Style) {
	fill, stroke := !style.FillColor.IsZero(), !style.StrokeColor.IsZero()
	if !fill && !stroke {
		return
	}
	g.r.ResetStyle()
	g.r.SetFillColor(style.FillColor)
	g.r.SetStrokeColor(style.StrokeColor)
	g.r.SetStrokeWidth(style.StrokeWidth)
	g.path(x, y, x+w, y+h)
	switch {
	case fill && stroke:
		g.r.FillStroke()
	case fill:
		g.r.Fill()
	default:
		g.r.Stroke()
	}
}

// Text draws body anchored at (x, y) per the style's alignment.
func (g *GoChart) Text(body string, x, y float64, style chartview.TextStyle) {
	if body == "" {
		return
	}
	g.r.ResetStyle()
	g.r.SetFontColor(style.Color)
	g.r.SetFontSize(style.Size)

	box := g.r.MeasureText(body)
	w, h := float64(box.Width()), float64(box.Height())

	switch style.Align {
	case chartview.AlignCenter:
		x -= w / 2
	case chartview.AlignRight:
		x -= w
	}
	// go-chart draws text on its baseline
	switch style.VAlign {
	case chartview.AlignTop:
		y += h
	case chartview.AlignMiddle:
		y += h / 2
	}
	g.r.Text(body, px(x), px(y))
}

// Save encodes the canvas to w.
func (g *GoChart) Save(w io.Writer) error {
	if err := g.r.Save(w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func (g *GoChart) path(x1, y1, x2, y2 float64) {
	g.r.MoveTo(px(x1), px(y1))
	g.r.LineTo(px(x2), px(y1))
	g.r.LineTo(px(x2), px(y2))
	g.r.LineTo(px(x1), px(y2))
	g.r.LineTo(px(x1), px(y1))
}

func px(v float64) int {
	return int(math.Round(v))
}
