package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/storage/chartfs"
)

// exportRequest is the body of POST /api/charts.
type exportRequest struct {
	Name    string     `json:"name"`
	Kind    string     `json:"kind"`
	Format  string     `json:"format"`
	Width   int        `json:"width"`
	Height  int        `json:"height"`
	Pointer *app.Point `json:"pointer,omitempty"`
	Seed    int64      `json:"seed,omitempty"`
}

// routeCharts dispatches /api/charts by method.
func (s *Server) routeCharts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleChartList(w, r)
	case http.MethodPost:
		s.handleChartExport(w, r)
	case http.MethodDelete:
		s.handleChartPurge(w, r)
	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost, http.MethodDelete)
	}
}

func (s *Server) handleChartList(w http.ResponseWriter, r *http.Request) {
	names, err := s.app.Charts.List()
	if err != nil {
		WriteAppError(w, err)
		return
	}

	manifests := make([]*chartfs.Manifest, 0, len(names))
	for _, name := range names {
		m, err := s.app.Charts.Manifest(name)
		if err != nil {
			s.logger.Warn().Err(err).Str("name", name).Msg("Skipping unreadable chart manifest")
			continue
		}
		manifests = append(manifests, m)
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"charts": manifests,
	})
}

func (s *Server) handleChartExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		WriteError(w, http.StatusBadRequest, "name is required")
		return
	}
	format, err := canvas.ParseFormat(req.Format)
	if err != nil {
		WriteAppError(w, fmt.Errorf("%w: %v", chartview.ErrInvalidInput, err))
		return
	}

	path, err := s.app.Export(req.Name, app.RenderRequest{
		Kind:    req.Kind,
		Format:  format,
		Size:    chartview.Size{Width: req.Width, Height: req.Height},
		Pointer: req.Pointer,
		Seed:    req.Seed,
	})
	if err != nil {
		WriteAppError(w, err)
		return
	}

	m, err := s.app.Charts.Manifest(req.Name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"path":     path,
		"manifest": m,
	})
}

func (s *Server) handleChartPurge(w http.ResponseWriter, r *http.Request) {
	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Purge disabled in production")
		return
	}
	n := s.app.Charts.Purge()
	s.logger.Info().Int("removed", n).Msg("Exported charts purged")
	WriteJSON(w, http.StatusOK, map[string]int{"removed": n})
}

// handleChartImage handles GET /api/charts/{name}. With manifest=true the
// manifest is returned instead of the image.
func (s *Server) handleChartImage(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	name := PathParam(r, "/api/charts/")
	if name == "" {
		s.handleChartList(w, r)
		return
	}

	m, err := s.app.Charts.Manifest(name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if queryBool(r, "manifest") {
		WriteJSON(w, http.StatusOK, m)
		return
	}

	body, err := s.app.Charts.Image(name)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteImage(w, canvas.Format(m.Format).ContentType(), body)
}
