package server

import (
	"fmt"
	"net/http"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
)

// handleSeries handles GET /api/series.
func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	bars, series := s.app.Dataset()
	if series == nil {
		series = chartview.Series{}
	}
	resp := map[string]interface{}{
		"dataset": s.app.Config.Dataset.Path,
		"stride":  s.app.Config.Dataset.Stride,
		"bars":    len(bars),
		"count":   len(series),
		"records": series,
	}
	if loaded := s.app.LoadedAt(); !loaded.IsZero() {
		resp["loaded_at"] = loaded
	}
	if len(series) > 0 {
		if rng, err := chartview.ComputePriceRange(series); err == nil {
			resp["price_range"] = rng
		}
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleDatasetReload handles POST /api/dataset/reload.
func (s *Server) handleDatasetReload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.app.ReloadDataset(); err != nil {
		s.logger.Warn().Err(err).Msg("Dataset reload failed")
		WriteAppError(w, err)
		return
	}

	bars, series := s.app.Dataset()
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "reloaded",
		"bars":    len(bars),
		"count":   len(series),
		"dataset": s.app.Config.Dataset.Path,
	})
}

// handleChart handles GET /api/chart. With session=true the default
// session is drawn, hover included; otherwise the query describes a
// stateless render.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	if queryBool(r, "session") {
		format, err := canvas.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		entry, err := s.app.RenderSession(s.app.Session(), format)
		if err != nil {
			WriteAppError(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		WriteImage(w, entry.ContentType, entry.Body)
		return
	}

	s.serveRender(w, r, app.KindBars)
}

// handleScatter handles GET /api/scatter.
func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	s.serveRender(w, r, app.KindScatter)
}

func (s *Server) serveRender(w http.ResponseWriter, r *http.Request, kind string) {
	req, err := parseRenderRequest(r, kind)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	entry, err := s.app.RenderChart(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteImage(w, entry.ContentType, entry.Body)
}

// handleChartCommands handles GET /api/chart/commands. It returns the draw
// calls for the chart so a client can paint it on its own canvas.
func (s *Server) handleChartCommands(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	if queryBool(r, "session") {
		sess := s.app.Session()
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"size":     sess.Size(),
			"commands": app.SessionCommands(sess),
		})
		return
	}

	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = app.KindBars
	}
	req, err := parseRenderRequest(r, kind)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	cmds, err := s.app.RenderCommands(req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"kind":     kind,
		"commands": cmds,
	})
}

// pointerRequest is a pointer move in canvas pixels. Width and height are
// optional and resize the chart when they differ from the current size.
type pointerRequest struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  int      `json:"width,omitempty"`
	Height int      `json:"height,omitempty"`
}

func (p pointerRequest) validate() error {
	if p.X == nil || p.Y == nil {
		return fmt.Errorf("%w: x and y are required", chartview.ErrInvalidInput)
	}
	return nil
}

// handlePointer handles GET and POST /api/pointer against the default session.
func (s *Server) handlePointer(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		WriteJSON(w, http.StatusOK, s.app.Session().State())
		return
	}

	var req pointerRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if err := req.validate(); err != nil {
		WriteAppError(w, err)
		return
	}

	state, err := s.app.Session().PointerMove(*req.X, *req.Y, chartview.Size{Width: req.Width, Height: req.Height})
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}
