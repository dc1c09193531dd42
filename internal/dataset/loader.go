// Package dataset loads stock price datasets from CSV or JSON.
package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bobmcallan/pricebars/internal/models"
)

var (
	// ErrMissingColumn is returned when a CSV header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
	// ErrUnsupportedFormat is returned for dataset formats other than csv and json.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
)

var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

// LoadCSV reads a header row followed by one price bar per row. Columns are
// matched by name, case-insensitively; extra columns such as "Adj Close" are ignored.
func LoadCSV(r io.Reader) ([]models.PriceBar, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[key]; !dup {
			idx[key] = i
		}
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var bars []models.PriceBar
	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading csv record: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}

		bar, err := parseRow(record, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

func parseRow(record []string, idx map[string]int) (models.PriceBar, error) {
	field := func(col string) (string, error) {
		i := idx[col]
		if i >= len(record) {
			return "", fmt.Errorf("missing %s value", col)
		}
		return strings.TrimSpace(record[i]), nil
	}
	number := func(col string) (float64, error) {
		s, err := field(col)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid %s %q", col, s)
		}
		return v, nil
	}

	var bar models.PriceBar
	var err error
	if bar.Date, err = field("date"); err != nil {
		return bar, err
	}
	if bar.Open, err = number("open"); err != nil {
		return bar, err
	}
	if bar.High, err = number("high"); err != nil {
		return bar, err
	}
	if bar.Low, err = number("low"); err != nil {
		return bar, err
	}
	if bar.Close, err = number("close"); err != nil {
		return bar, err
	}
	if bar.Volume, err = number("volume"); err != nil {
		return bar, err
	}
	return bar, nil
}

// LoadJSON reads either an array of bars or an object holding the array
// under "data". Keys match case-insensitively.
func LoadJSON(r io.Reader) ([]models.PriceBar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON dataset: %w", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Data []models.PriceBar `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
		}
		return checkFinite(wrapped.Data)
	}

	var bars []models.PriceBar
	if err := json.Unmarshal(trimmed, &bars); err != nil {
		return nil, fmt.Errorf("failed to parse JSON dataset: %w", err)
	}
	return checkFinite(bars)
}

func checkFinite(bars []models.PriceBar) ([]models.PriceBar, error) {
	for i, bar := range bars {
		for _, v := range []float64{bar.Open, bar.High, bar.Low, bar.Close, bar.Volume} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("bar %d (%s): non-finite value", i, bar.Date)
			}
		}
	}
	return bars, nil
}

// DetectFormat resolves "auto" from the file extension.
func DetectFormat(path, format string) (string, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" || format == "auto" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	switch format {
	case "csv", "json":
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// LoadFile opens path and decodes it as format ("auto", "csv" or "json").
func LoadFile(path, format string) ([]models.PriceBar, error) {
	resolved, err := DetectFormat(path, format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	if resolved == "json" {
		return LoadJSON(f)
	}
	return LoadCSV(f)
}
