package app

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/pricebars/internal/common"
)

// Scheduler runs dataset reloads on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	reload func() error
	logger *common.Logger
}

func newScheduler(reload func() error, logger *common.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		reload: reload,
		logger: logger,
	}
}

// Register schedules a reload with a standard five-field spec or a
// descriptor such as "@every 10m".
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.reloadTask); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", spec, err)
	}
	s.logger.Info().Str("schedule", spec).Msg("Dataset reload scheduled")
	return nil
}

func (s *Scheduler) reloadTask() {
	start := time.Now()
	if err := s.reload(); err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled dataset reload failed")
		return
	}
	s.logger.Info().Dur("elapsed", time.Since(start)).Msg("Scheduled dataset reload complete")
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Start begins running jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Dataset scheduler: stopped")
}

// StartScheduler starts scheduled reloads when dataset.reload_cron is set.
// It is a no-op otherwise.
func (a *App) StartScheduler() error {
	spec := a.Config.Dataset.ReloadCron
	if spec == "" {
		return nil
	}
	if a.scheduler != nil {
		return nil
	}

	s := newScheduler(a.ReloadDataset, a.Logger)
	if err := s.Register(spec); err != nil {
		return err
	}
	s.Start()
	a.scheduler = s
	return nil
}
