package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/common"
)

// newTestServer builds an app over ten daily bars with closes 100..109 on a
// 600x300 canvas with padding 50, so each bar slot is 50px wide.
func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()
	dir := t.TempDir()

	var b strings.Builder
	b.WriteString("Date,Open,High,Low,Close,Adj Close,Volume\n")
	for i := 0; i < 10; i++ {
		c := 100 + float64(i)
		fmt.Fprintf(&b, "2024-01-%02d,%g,%g,%g,%g,%g,%d\n", i+1, c, c+2, c-2, c, c, 1000+i)
	}
	dataPath := filepath.Join(dir, "prices.csv")
	require.NoError(t, os.WriteFile(dataPath, []byte(b.String()), 0644))

	cfg := common.NewDefaultConfig()
	cfg.Dataset.Path = dataPath
	cfg.Dataset.Stride = 1
	cfg.Chart.Width = 600
	cfg.Chart.Height = 300
	cfg.Chart.Padding = 50
	cfg.Output.Path = filepath.Join(dir, "charts")
	cfg.RateLimit.RequestsPerSecond = 0

	a, err := app.New(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)

	return NewServer(a), a
}

func doRequest(t *testing.T, s *Server, method, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]interface{}
	decodeBody(t, rr, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["chart"])
}

func TestHandleHealth_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodPost, "/api/health", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "GET, HEAD", rr.Header().Get("Allow"))
}

func TestHandleVersion(t *testing.T) {
	s, _ := newTestServer(t)

	rr := doRequest(t, s, http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var info common.VersionInfo
	decodeBody(t, rr, &info)
	assert.Equal(t, common.Version, info.Version)
}

func TestHandleShutdown_ProductionForbidden(t *testing.T) {
	s, a := newTestServer(t)
	a.Config.Environment = "production"

	rr := doRequest(t, s, http.MethodPost, "/api/shutdown", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestHandleShutdown_SignalsChannel(t *testing.T) {
	s, _ := newTestServer(t)
	ch := make(chan struct{}, 1)
	s.SetShutdownChannel(ch)

	rr := doRequest(t, s, http.MethodPost, "/api/shutdown", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	<-ch
}

func TestHandleMetrics(t *testing.T) {
	s, _ := newTestServer(t)

	doRequest(t, s, http.MethodGet, "/api/chart", nil)
	rr := doRequest(t, s, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pricebars_renders_total")
	assert.Contains(t, rr.Body.String(), "pricebars_series_length 10")
}
