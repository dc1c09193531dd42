// Command pricebars renders the bar chart or the date scatter once and
// exports it to the chart store.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bobmcallan/pricebars/internal/app"
	"github.com/bobmcallan/pricebars/internal/canvas"
	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/common"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "pricebars: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	config  string
	dataset string
	kind    string
	format  string
	name    string
	width   int
	height  int
	stride  int
	x       float64
	y       float64
	pointer bool
	seed    int64
	quiet   bool
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("pricebars", flag.ContinueOnError)
	fs.StringVar(&o.config, "config", "", "config file (TOML or YAML)")
	fs.StringVar(&o.dataset, "dataset", "", "dataset path, overrides config")
	fs.StringVar(&o.kind, "kind", app.KindBars, "chart kind: bars or scatter")
	fs.StringVar(&o.format, "format", "png", "image format: png or svg")
	fs.StringVar(&o.name, "name", "", "export name (default derived from the dataset)")
	fs.IntVar(&o.width, "width", 0, "canvas width in pixels")
	fs.IntVar(&o.height, "height", 0, "canvas height in pixels")
	fs.IntVar(&o.stride, "stride", 0, "sampling stride, overrides config")
	fs.Float64Var(&o.x, "x", 0, "pointer x, used with -hover")
	fs.Float64Var(&o.y, "y", 0, "pointer y, used with -hover")
	fs.BoolVar(&o.pointer, "hover", false, "render with the pointer at -x,-y")
	fs.Int64Var(&o.seed, "seed", 0, "scatter seed")
	fs.BoolVar(&o.quiet, "quiet", false, "only log errors")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	return o, nil
}

func loadConfig(o options) (*common.Config, error) {
	path := o.config
	if path == "" {
		path = os.Getenv("PRICEBARS_CONFIG")
	}
	cfg, err := common.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.dataset != "" {
		cfg.Dataset.Path = o.dataset
	}
	if o.stride != 0 {
		cfg.Dataset.Stride = o.stride
	}
	if o.quiet {
		cfg.Logging.Level = "error"
	}
	return cfg, cfg.Validate()
}

func run(args []string, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	format, err := canvas.ParseFormat(o.format)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}

	a, err := app.New(cfg, common.NewLoggerFromConfig(cfg.Logging))
	if err != nil {
		return err
	}
	defer a.Close()

	if _, series := a.Dataset(); len(series) == 0 {
		return fmt.Errorf("no data loaded from %s", cfg.Dataset.Path)
	}

	req := app.RenderRequest{
		Kind:   o.kind,
		Format: format,
		Size:   chartview.Size{Width: o.width, Height: o.height},
		Seed:   o.seed,
	}
	if o.pointer {
		req.Pointer = &app.Point{X: o.x, Y: o.y}
	}

	name := o.name
	if name == "" {
		base := filepath.Base(cfg.Dataset.Path)
		name = fmt.Sprintf("%s-%s", base[:len(base)-len(filepath.Ext(base))], o.kind)
	}

	path, err := a.Export(name, req)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, path)
	return nil
}
