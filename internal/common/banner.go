package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

const bannerWidth = 60

var bannerArt = []string{
	` ___ ___ ___ ___ ___ ___   _   ___  ___`,
	`| _ \ _ \_ _/ __| __| _ ) /_\ | _ \/ __|`,
	`|  _/   /| | (__| _|| _ \/ _ \|   /\__ \`,
	`|_| |_|_\___\___|___|___/_/ \_\_|_\|___/`,
}

// bannerField is one labelled startup value. key is the structured log field.
type bannerField struct {
	label, key, value string
}

func startupFields(config *Config) []bannerField {
	return []bannerField{
		{"Version", "version", GetVersion()},
		{"Build", "build", GetBuild()},
		{"Commit", "commit", GetGitCommit()},
		{"Environment", "environment", config.Environment},
		{"Service URL", "service_url", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)},
		{"Dataset", "dataset", config.Dataset.Path},
	}
}

// writeBanner draws the art above a ruled block of label/value rows.
func writeBanner(w io.Writer, fields []bannerField) {
	rule := banner.ColorCyan + strings.Repeat("─", bannerWidth) + banner.ColorReset
	bold := banner.ColorBold + banner.ColorWhite

	var b strings.Builder
	b.WriteString("\n")
	for _, line := range bannerArt {
		fmt.Fprintf(&b, "%s%s%s\n", bold, line, banner.ColorReset)
	}
	fmt.Fprintf(&b, "  stock price bar charts\n%s\n", rule)
	for _, f := range fields {
		fmt.Fprintf(&b, " %s%14s%s : %s\n", banner.ColorCyan, f.label, banner.ColorReset, f.value)
	}
	fmt.Fprintf(&b, "%s\n\n", rule)
	io.WriteString(w, b.String())
}

// PrintBanner writes the startup banner to stderr and logs the same fields.
func PrintBanner(config *Config, logger *Logger) {
	fields := startupFields(config)
	writeBanner(os.Stderr, fields)

	event := logger.Info()
	for _, f := range fields {
		event = event.Str(f.key, f.value)
	}
	event.Msg("Application started")
}

// PrintShutdownBanner writes a one-line shutdown notice to stderr.
func PrintShutdownBanner(logger *Logger) {
	fmt.Fprintf(os.Stderr, "\n%s── pricebars shutting down ──%s\n\n", banner.ColorCyan, banner.ColorReset)
	logger.Info().Msg("Application shutting down")
}
