package app

import (
	"bytes"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/scatter"
	"github.com/bobmcallan/pricebars/internal/storage/chartcache"
	"github.com/bobmcallan/pricebars/internal/storage/chartfs"
)

// Chart kinds.
const (
	KindBars    = "bars"
	KindScatter = "scatter"
)

// Point is a pointer position in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RenderRequest describes one stateless render. Zero fields take the
// configured defaults.
type RenderRequest struct {
	Kind    string
	Format  canvas.Format
	Size    chartview.Size
	Pointer *Point
	Seed    int64
}

func (a *App) normalize(req RenderRequest) (RenderRequest, error) {
	req.Kind = strings.ToLower(req.Kind)
	if req.Kind == "" {
		req.Kind = KindBars
	}
	if req.Kind != KindBars && req.Kind != KindScatter {
		return req, fmt.Errorf("%w: unknown chart kind %q", chartview.ErrInvalidInput, req.Kind)
	}
	if req.Format == "" {
		req.Format = canvas.FormatPNG
	}
	if req.Size.Width == 0 {
		req.Size.Width = a.Config.Chart.Width
	}
	if req.Size.Height == 0 {
		req.Size.Height = a.Config.Chart.Height
	}
	if req.Size.Width < 0 || req.Size.Height < 0 {
		return req, fmt.Errorf("%w: canvas size %dx%d", chartview.ErrInvalidInput, req.Size.Width, req.Size.Height)
	}
	if req.Kind == KindScatter {
		if req.Seed == 0 {
			req.Seed = a.Config.Scatter.Seed
		}
		req.Pointer = nil
	} else {
		req.Seed = 0
	}
	return req, nil
}

func cacheKey(req RenderRequest) chartcache.Key {
	k := chartcache.Key{
		Kind:   req.Kind,
		Format: string(req.Format),
		Width:  req.Size.Width,
		Height: req.Size.Height,
		Seed:   req.Seed,
	}
	if req.Pointer != nil {
		k.Pointer = true
		k.PointerX = req.Pointer.X
		k.PointerY = req.Pointer.Y
	}
	return k
}

// draw renders req onto c without touching any session.
func (a *App) draw(c chartview.Canvas, req RenderRequest) error {
	bars, series := a.Dataset()
	theme := themeFromConfig(a.Config.Chart)

	switch req.Kind {
	case KindScatter:
		rng := rand.New(rand.NewSource(req.Seed))
		scatter.Render(c, bars, rng, scatter.Options{Theme: theme, FontSize: a.Config.Scatter.FontSize})
		return nil
	default:
		if len(series) == 0 {
			c.Clear(theme.Background)
			return nil
		}
		view, err := chartview.NewFromSeries(series, req.Size, a.viewOptions()...)
		if err != nil {
			return err
		}
		if req.Pointer != nil {
			view.OnPointerMove(req.Pointer.X, req.Pointer.Y)
		}
		view.Render(c)
		return nil
	}
}

// RenderChart renders req to an image, serving repeats from the cache.
func (a *App) RenderChart(req RenderRequest) (chartcache.Entry, error) {
	req, err := a.normalize(req)
	if err != nil {
		return chartcache.Entry{}, err
	}

	key := cacheKey(req)
	if entry, ok := a.Cache.Get(key); ok {
		a.Metrics.CacheHits.Inc()
		return entry, nil
	}
	a.Metrics.CacheMisses.Inc()

	start := time.Now()
	entry, err := a.renderImage(req)
	if err != nil {
		a.Metrics.RenderErrors.WithLabelValues(req.Kind).Inc()
		return chartcache.Entry{}, err
	}
	a.Metrics.RenderDuration.WithLabelValues(req.Kind).Observe(time.Since(start).Seconds())
	a.Metrics.RendersTotal.WithLabelValues(req.Kind, string(req.Format)).Inc()

	a.Cache.Set(key, entry)
	a.Logger.Debug().
		Str("key", key.String()).
		Int("bytes", len(entry.Body)).
		Dur("elapsed", time.Since(start)).
		Msg("Chart rendered")
	return entry, nil
}

func (a *App) renderImage(req RenderRequest) (chartcache.Entry, error) {
	c, err := canvas.New(req.Format, req.Size.Width, req.Size.Height)
	if err != nil {
		return chartcache.Entry{}, err
	}
	if err := a.draw(c, req); err != nil {
		return chartcache.Entry{}, err
	}
	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		return chartcache.Entry{}, fmt.Errorf("failed to encode %s: %w", req.Format, err)
	}
	return chartcache.Entry{ContentType: req.Format.ContentType(), Body: buf.Bytes()}, nil
}

// RenderCommands returns the draw calls req would make, for clients that
// draw the chart themselves.
func (a *App) RenderCommands(req RenderRequest) ([]canvas.Command, error) {
	req, err := a.normalize(req)
	if err != nil {
		return nil, err
	}
	rec := canvas.NewRecorder(req.Size.Width, req.Size.Height)
	if err := a.draw(rec, req); err != nil {
		return nil, err
	}
	return rec.Commands, nil
}

// SessionCommands returns the draw calls for a session's current state.
func SessionCommands(s *Session) []canvas.Command {
	size := s.Size()
	rec := canvas.NewRecorder(size.Width, size.Height)
	s.Render(rec)
	return rec.Commands
}

// Export renders req and stores it in the chart store under name.
func (a *App) Export(name string, req RenderRequest) (string, error) {
	req, err := a.normalize(req)
	if err != nil {
		return "", err
	}
	entry, err := a.RenderChart(req)
	if err != nil {
		return "", err
	}

	bars, series := a.Dataset()
	m := chartfs.Manifest{
		Name:    name,
		Kind:    req.Kind,
		Format:  string(req.Format),
		Width:   req.Size.Width,
		Height:  req.Size.Height,
		Dataset: a.Config.Dataset.Path,
		Bars:    len(series),
	}
	if req.Kind == KindBars {
		m.Stride = a.Config.Dataset.Stride
	} else {
		m.Bars = len(bars)
	}

	path, err := a.Charts.Save(m, entry.Body)
	if err != nil {
		return "", err
	}
	a.Logger.Info().Str("name", name).Str("path", path).Msg("Chart exported")
	return path, nil
}

// RenderSession renders the session's current chart, hover included.
// Session renders bypass the cache since hover changes on every move.
func (a *App) RenderSession(s *Session, format canvas.Format) (chartcache.Entry, error) {
	if format == "" {
		format = canvas.FormatPNG
	}
	size := s.Size()

	start := time.Now()
	c, err := canvas.New(format, size.Width, size.Height)
	if err != nil {
		a.Metrics.RenderErrors.WithLabelValues(KindBars).Inc()
		return chartcache.Entry{}, err
	}
	s.Render(c)

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		a.Metrics.RenderErrors.WithLabelValues(KindBars).Inc()
		return chartcache.Entry{}, fmt.Errorf("failed to encode %s: %w", format, err)
	}
	a.Metrics.RenderDuration.WithLabelValues(KindBars).Observe(time.Since(start).Seconds())
	a.Metrics.RendersTotal.WithLabelValues(KindBars, string(format)).Inc()
	return chartcache.Entry{ContentType: format.ContentType(), Body: buf.Bytes()}, nil
}
