package app

import (
	"fmt"
	"sync"

	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/metrics"
	"github.com/bobmcallan/pricebars/internal/models"
)

// Session is one interactive chart: a ChartView plus the canvas size it is
// laid out for. Sessions are safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	view    *chartview.ChartView
	size    chartview.Size
	theme   chartview.Theme
	opts    []chartview.Option
	source  string
	metrics *metrics.Metrics
}

// PointerState is the outcome of a pointer move.
type PointerState struct {
	Hover    chartview.HoverState `json:"hover"`
	Record   *models.PriceRecord  `json:"record,omitempty"`
	Geometry chartview.Geometry   `json:"geometry"`
	X        float64              `json:"x"`
	Y        float64              `json:"y"`
}

// NewSession creates a session over the current series at the default size.
// source labels the pointer metrics ("rest", "ws").
func (a *App) NewSession(source string) *Session {
	s := &Session{
		size:    a.DefaultSize(),
		theme:   themeFromConfig(a.Config.Chart),
		opts:    a.viewOptions(),
		source:  source,
		metrics: a.Metrics,
	}
	_, series := a.Dataset()
	if err := s.Reset(series); err != nil {
		a.Logger.Warn().Err(err).Str("source", source).Msg("Session created without a chart")
	}
	return s
}

// Reset rebuilds the view for series at the current size. Hover returns
// to idle.
func (s *Session) Reset(series chartview.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(series) == 0 {
		s.view = nil
		return nil
	}
	view, err := chartview.NewFromSeries(series, s.size, s.opts...)
	if err != nil {
		s.view = nil
		return err
	}
	s.view = view
	return nil
}

// Initialized reports whether the session has a chart to draw.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Initialized()
}

// Size returns the canvas size the chart is laid out for.
func (s *Session) Size() chartview.Size {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// Resize lays the chart out for a new canvas size.
func (s *Session) Resize(size chartview.Size) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizeLocked(size)
}

func (s *Session) resizeLocked(size chartview.Size) error {
	if size == s.size {
		return nil
	}
	if s.view != nil {
		if err := s.view.Resize(size); err != nil {
			return err
		}
	} else if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", chartview.ErrInvalidInput, size.Width, size.Height)
	}
	s.size = size
	return nil
}

// PointerMove applies a pointer position. A non-zero size that differs from
// the current one resizes the chart first.
func (s *Session) PointerMove(x, y float64, size chartview.Size) (PointerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if size != (chartview.Size{}) {
		if err := s.resizeLocked(size); err != nil {
			return PointerState{}, err
		}
	}

	if s.view == nil {
		s.count(chartview.Idle())
		return PointerState{Hover: chartview.Idle(), X: x, Y: y}, nil
	}

	s.view.OnPointerMove(x, y)
	state := s.stateLocked()
	s.count(state.Hover)
	return state, nil
}

// State returns the current hover state without moving the pointer.
func (s *Session) State() PointerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		return PointerState{Hover: chartview.Idle()}
	}
	return s.stateLocked()
}

func (s *Session) stateLocked() PointerState {
	x, y := s.view.Pointer()
	state := PointerState{
		Hover:    s.view.Hover(),
		Geometry: s.view.Geometry(),
		X:        x,
		Y:        y,
	}
	if i, ok := state.Hover.Index(); ok {
		if rec, ok := s.view.Record(i); ok {
			state.Record = &rec
		}
	}
	return state
}

func (s *Session) count(h chartview.HoverState) {
	if s.metrics == nil {
		return
	}
	label := "idle"
	if h.IsHovering() {
		label = "hovering"
	}
	s.metrics.PointerEvents.WithLabelValues(s.source, label).Inc()
}

// Render draws the session's chart, hover included, onto c. Without a chart
// only the background is drawn.
func (s *Session) Render(c chartview.Canvas) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.view == nil {
		c.Clear(s.theme.Background)
		return
	}
	s.view.Render(c)
}
