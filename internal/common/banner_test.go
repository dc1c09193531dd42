package common

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartupFields(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 9090
	cfg.Dataset.Path = "data/fb.csv"

	byKey := map[string]string{}
	for _, f := range startupFields(cfg) {
		byKey[f.key] = f.value
	}
	assert.Equal(t, "http://127.0.0.1:9090", byKey["service_url"])
	assert.Equal(t, "data/fb.csv", byKey["dataset"])
	assert.Contains(t, byKey, "version")
}

func TestWriteBanner(t *testing.T) {
	var buf bytes.Buffer
	writeBanner(&buf, []bannerField{{"Dataset", "dataset", "prices.csv"}})

	out := buf.String()
	assert.Contains(t, out, bannerArt[0])
	assert.Contains(t, out, "Dataset")
	assert.Contains(t, out, ": prices.csv")
	assert.Equal(t, 2, strings.Count(out, strings.Repeat("─", bannerWidth)))
}

func TestPrintBanner_LogsFields(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(NewDefaultConfig(), NewLoggerWithOutput("info", &buf))
	assert.Contains(t, buf.String(), "Application started")
	assert.Contains(t, buf.String(), `"service_url":"http://`)
}
