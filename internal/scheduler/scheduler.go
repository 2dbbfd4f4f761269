package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/kandauda/tea-estate/internal/config"
	"github.com/kandauda/tea-estate/internal/domain/models"
	"github.com/kandauda/tea-estate/internal/service/enrich"
	"github.com/kandauda/tea-estate/internal/service/reminders"
	"github.com/kandauda/tea-estate/internal/service/reporting"
	"github.com/kandauda/tea-estate/internal/service/snapshot"
)

// SnapshotSaver persists nightly report aggregates.
type SnapshotSaver interface {
	SaveReportSnapshot(ctx context.Context, snap models.ReportSnapshot) error
}

// Scheduler runs the nightly report snapshot job.
type Scheduler struct {
	cron      *cron.Cron
	hub       *snapshot.Hub
	reporting *reporting.Service
	reminders *reminders.Service
	saver     SnapshotSaver
	cfg       config.Config
	loc       *time.Location
	logger    *zap.Logger
}

// NewScheduler creates a new scheduler instance. Both the cron schedule and
// the nightly job's notion of "today" follow the estate's timezone.
func NewScheduler(cfg config.Config, hub *snapshot.Hub, rep *reporting.Service, rem *reminders.Service, saver SnapshotSaver, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Reporting.Timezone))
		loc = time.Local
	}

	return &Scheduler{
		cron:      cron.New(cron.WithLocation(loc)),
		hub:       hub,
		reporting: rep,
		reminders: rem,
		saver:     saver,
		cfg:       cfg,
		loc:       loc,
		logger:    logger,
	}
}

// Start registers the nightly job and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.Reporting.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.saveNightlySnapshot)
	if err != nil {
		s.logger.Error("failed to schedule nightly snapshot", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) saveNightlySnapshot() {
	s.logger.Info("generating nightly report snapshot")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now().In(s.loc)
	month := now.Format("2006-01")

	snap := s.hub.Current()
	processed, diags := enrich.EnrichAll(snap.Records, snap.Prices)
	for _, diag := range diags {
		s.logger.Warn("record excluded from nightly snapshot", zap.Error(diag))
	}

	due := s.reminders.Due(snap.Reminders, now)
	report := models.ReportSnapshot{
		Date:         now.Format(models.DateLayout),
		Month:        month,
		Summary:      s.reporting.Summarize(processed, reporting.Filter{Month: month}),
		DueReminders: len(due),
		ComputedAt:   now,
	}

	if err := s.saver.SaveReportSnapshot(ctx, report); err != nil {
		s.logger.Error("failed to save nightly report snapshot", zap.Error(err))
		return
	}

	s.logger.Info("nightly report snapshot saved",
		zap.String("month", month),
		zap.Float64("harvest_kg", report.Summary.TotalHarvestKg),
		zap.Int("due_reminders", report.DueReminders))
}
