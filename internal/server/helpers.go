package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/dataset"
	"github.com/bobmcallan/pricebars/internal/storage/chartfs"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// WriteJSON writes a JSON response with the given status code. A value that
// cannot be encoded becomes a 500; the encode error is attached to the
// request log line.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		recordError(w, fmt.Errorf("encode response: %w", err))
		statusCode = http.StatusInternalServerError
		body, _ = json.Marshal(ErrorResponse{Error: "failed to encode response", Code: "encode_failed"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(append(body, '\n')); err != nil {
		recordError(w, fmt.Errorf("write response: %w", err))
	}
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteAppError maps domain errors onto HTTP status codes.
func WriteAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chartview.ErrInvalidInput):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_input")
	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, dataset.ErrUnsupportedFormat):
		WriteErrorWithCode(w, http.StatusUnprocessableEntity, err.Error(), "bad_dataset")
	case errors.Is(err, chartfs.ErrNotFound):
		WriteErrorWithCode(w, http.StatusNotFound, err.Error(), "not_found")
	default:
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// WriteImage writes rendered image bytes.
func WriteImage(w http.ResponseWriter, contentType string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// DecodeJSON reads and decodes JSON from the request body into v.
// Returns false and writes a 400 error if decoding fails.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if r.Body == nil {
		WriteError(w, http.StatusBadRequest, "Request body is required")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// PathParam extracts the path segment after prefix.
func PathParam(r *http.Request, prefix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}

func queryInt(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", chartview.ErrInvalidInput, name, v)
	}
	return n, nil
}

func queryFloat(r *http.Request, name string) (float64, bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %s must be a number, got %q", chartview.ErrInvalidInput, name, v)
	}
	return f, true, nil
}

func queryBool(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

// parseRenderRequest reads format, width, height, x, y and seed from the
// query string. x and y must be given together.
func parseRenderRequest(r *http.Request, kind string) (app.RenderRequest, error) {
	req := app.RenderRequest{Kind: kind}

	format, err := canvas.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		return req, fmt.Errorf("%w: %v", chartview.ErrInvalidInput, err)
	}
	req.Format = format

	if req.Size.Width, err = queryInt(r, "width"); err != nil {
		return req, err
	}
	if req.Size.Height, err = queryInt(r, "height"); err != nil {
		return req, err
	}

	x, hasX, err := queryFloat(r, "x")
	if err != nil {
		return req, err
	}
	y, hasY, err := queryFloat(r, "y")
	if err != nil {
		return req, err
	}
	if hasX != hasY {
		return req, fmt.Errorf("%w: x and y must be given together", chartview.ErrInvalidInput)
	}
	if hasX {
		req.Pointer = &app.Point{X: x, Y: y}
	}

	if v := r.URL.Query().Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return req, fmt.Errorf("%w: seed must be an integer, got %q", chartview.ErrInvalidInput, v)
		}
		req.Seed = seed
	}
	return req, nil
}
