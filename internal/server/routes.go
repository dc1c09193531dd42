package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/pricebars/internal/common"
)

// registerRoutes sets up all routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// Dataset
	mux.HandleFunc("/api/series", s.handleSeries)
	mux.HandleFunc("/api/dataset/reload", s.handleDatasetReload)

	// Chart
	mux.HandleFunc("/api/chart", s.handleChart)
	mux.HandleFunc("/api/chart/commands", s.handleChartCommands)
	mux.HandleFunc("/api/pointer", s.handlePointer)
	mux.HandleFunc("/api/scatter", s.handleScatter)
	mux.HandleFunc("/ws/pointer", s.handlePointerWS)

	// Exported charts
	mux.HandleFunc("/api/charts/", s.handleChartImage)
	mux.HandleFunc("/api/charts", s.routeCharts)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"chart":  s.app.Session().Initialized(),
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
