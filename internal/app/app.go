// Package app wires configuration, the loaded dataset, chart sessions and
// background services into one value shared by the server and the CLI.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/pricebars/internal/chartview"
	"github.com/bobmcallan/pricebars/internal/common"
	"github.com/bobmcallan/pricebars/internal/dataset"
	"github.com/bobmcallan/pricebars/internal/metrics"
	"github.com/bobmcallan/pricebars/internal/models"
	"github.com/bobmcallan/pricebars/internal/storage/chartcache"
	"github.com/bobmcallan/pricebars/internal/storage/chartfs"
)

// App holds the configuration, dataset and services used by the commands.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Metrics     *metrics.Metrics
	Charts      *chartfs.Store
	Cache       *chartcache.Cache
	StartupTime time.Time

	// reloadMu serializes dataset swaps so the stored series and the
	// default session always come from the same load.
	reloadMu sync.Mutex

	mu       sync.RWMutex
	bars     []models.PriceBar
	series   chartview.Series
	loadedAt time.Time
	session  *Session

	listenersMu sync.Mutex
	listeners   []func(chartview.Series)

	scheduler *Scheduler
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp loads configuration and builds the App. configPath may be empty, in
// which case PRICEBARS_CONFIG, then pricebars.toml next to the binary, then
// config/pricebars.toml are tried.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	if configPath == "" {
		configPath = os.Getenv("PRICEBARS_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "pricebars.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/pricebars.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLoggerFromConfig(config.Logging)
	return New(config, logger)
}

// New builds the App from an already loaded config. A dataset that fails to
// load is logged and leaves the chart blank until a reload succeeds.
func New(config *common.Config, logger *common.Logger) (*App, error) {
	start := time.Now()

	charts, err := chartfs.NewChartStore(logger, config.Output.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chart store: %w", err)
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Metrics:     metrics.NewMetrics(),
		Charts:      charts,
		Cache:       chartcache.New(config.Cache.GetTTL(), config.Cache.GetCleanupInterval()),
		StartupTime: start,
	}
	a.session = a.NewSession("rest")

	if err := a.ReloadDataset(); err != nil {
		logger.Warn().Err(err).Str("path", config.Dataset.Path).Msg("Dataset not loaded; charts will be blank")
	}

	logger.Info().Dur("startup", time.Since(start)).Msg("App initialized")
	return a, nil
}

// ReloadDataset reads the configured dataset, resamples it and resets the
// default session. On failure the previous dataset stays in place.
func (a *App) ReloadDataset() error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	cfg := a.Config.Dataset

	bars, err := dataset.LoadFile(cfg.Path, cfg.Format)
	if err != nil {
		a.Metrics.DatasetReloads.WithLabelValues("error").Inc()
		return err
	}
	series, err := chartview.Sample(bars, cfg.Stride)
	if err != nil {
		a.Metrics.DatasetReloads.WithLabelValues("error").Inc()
		return fmt.Errorf("dataset %s: %w", cfg.Path, err)
	}
	return a.setDataset(bars, series)
}

// SetDataset replaces the dataset with bars already in memory.
func (a *App) SetDataset(bars []models.PriceBar) error {
	a.reloadMu.Lock()
	defer a.reloadMu.Unlock()

	series, err := chartview.Sample(bars, a.Config.Dataset.Stride)
	if err != nil {
		a.Metrics.DatasetReloads.WithLabelValues("error").Inc()
		return err
	}
	return a.setDataset(bars, series)
}

func (a *App) setDataset(bars []models.PriceBar, series chartview.Series) error {
	// Every close must scale before anything is replaced.
	if _, err := chartview.ComputePriceRange(series); err != nil {
		a.Metrics.DatasetReloads.WithLabelValues("error").Inc()
		return err
	}

	a.mu.Lock()
	a.bars = bars
	a.series = series
	a.loadedAt = time.Now()
	a.mu.Unlock()

	if err := a.session.Reset(series); err != nil {
		a.Metrics.DatasetReloads.WithLabelValues("error").Inc()
		return err
	}
	a.Cache.Flush()

	a.listenersMu.Lock()
	listeners := append([]func(chartview.Series){}, a.listeners...)
	a.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(series)
	}

	a.Metrics.DatasetReloads.WithLabelValues("ok").Inc()
	a.Metrics.DatasetBars.Set(float64(len(bars)))
	a.Metrics.SeriesLength.Set(float64(len(series)))

	a.Logger.Info().
		Str("path", a.Config.Dataset.Path).
		Int("bars", len(bars)).
		Int("sampled", len(series)).
		Int("stride", a.Config.Dataset.Stride).
		Msg("Dataset loaded")
	return nil
}

// OnDatasetChange registers fn to be called with the new series after every
// successful load.
func (a *App) OnDatasetChange(fn func(chartview.Series)) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// Dataset returns the raw bars and the sampled series currently loaded.
func (a *App) Dataset() ([]models.PriceBar, chartview.Series) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.bars, a.series
}

// LoadedAt returns when the dataset was last (re)loaded, zero if never.
func (a *App) LoadedAt() time.Time {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loadedAt
}

// Session returns the default chart session driven by the REST API.
func (a *App) Session() *Session {
	return a.session
}

// DefaultSize returns the configured canvas size.
func (a *App) DefaultSize() chartview.Size {
	return chartview.Size{Width: a.Config.Chart.Width, Height: a.Config.Chart.Height}
}

// viewOptions maps chart config onto chartview options.
func (a *App) viewOptions() []chartview.Option {
	return []chartview.Option{
		chartview.WithPadding(a.Config.Chart.Padding),
		chartview.WithTheme(themeFromConfig(a.Config.Chart)),
	}
}

func themeFromConfig(cfg common.ChartConfig) chartview.Theme {
	theme := chartview.DefaultTheme()
	set := func(dst *drawing.Color, hex string) {
		if hex != "" {
			*dst = drawing.ColorFromHex(hex)
		}
	}
	set(&theme.Background, cfg.Background)
	set(&theme.Axis, cfg.AxisColor)
	set(&theme.Bar, cfg.BarColor)
	set(&theme.Highlight, cfg.HighlightColor)
	set(&theme.Text, cfg.TextColor)
	if cfg.FontSize > 0 {
		theme.FontSize = cfg.FontSize
	}
	return theme
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.scheduler != nil {
		a.scheduler.Stop()
		a.scheduler = nil
	}
	if a.Charts != nil {
		a.Charts.Close()
	}
}
