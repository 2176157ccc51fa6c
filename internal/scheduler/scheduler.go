package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/grandresort/crm/internal/config"
	"github.com/grandresort/crm/internal/service/leads"
)

// Scheduler runs the periodic lead follow-up sweep.
type Scheduler struct {
	cron    *cron.Cron
	leadSvc *leads.Service
	cfg     config.RemindersConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance. The cron runs in the
// configured timezone so reminder schedules line up with the sales desk.
func NewScheduler(cfg config.RemindersConfig, leadSvc *leads.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []cron.Option{}
	if cfg.Timezone != "" {
		if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
			opts = append(opts, cron.WithLocation(loc))
		} else {
			logger.Warn("invalid timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		}
	}

	return &Scheduler{
		cron:    cron.New(opts...),
		leadSvc: leadSvc,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the reminder sweep and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sweepReminders)
	if err != nil {
		s.logger.Error("failed to schedule reminder sweep", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) sweepReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	count, err := s.leadSvc.SendDueReminders(ctx)
	if err != nil {
		s.logger.Error("reminder sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("reminder sweep completed", zap.Int("leads", count))
	}
}
