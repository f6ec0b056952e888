package application

import (
	"context"

	"go-hr/internal/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sweeper runs the SLA automation on a schedule. The sweep also runs inline
// on every load, so the cron only bounds how stale an untouched deadline can
// get while nobody is using the portal.
type Sweeper struct {
	scheduler *cron.Cron
	service   ApplicationService
	spec      string
	logger    *zap.Logger
}

func NewSweeper(lc fx.Lifecycle, cfg *config.Config, service ApplicationService, logger *zap.Logger) *Sweeper {
	s := &Sweeper{
		scheduler: cron.New(),
		service:   service,
		spec:      cfg.SweepSpec,
		logger:    logger,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if _, err := s.scheduler.AddFunc(s.spec, s.run); err != nil {
				return err
			}
			s.scheduler.Start()
			s.logger.Info("SLA sweeper scheduled", zap.String("spec", s.spec))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := s.scheduler.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})

	return s
}

func (s *Sweeper) run() {
	if err := s.service.RunAutomation(context.Background()); err != nil {
		s.logger.Error("SLA sweep run failed", zap.Error(err))
	}
}
