package billing

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// registerOverdueSweeper schedules the pending->overdue sweep on the
// configured cron spec and ties it to the app lifecycle.
func registerOverdueSweeper(lc fx.Lifecycle, log *zap.SugaredLogger, spec string, svc *Service) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() {
		n, err := svc.MarkOverdue(context.Background())
		if err != nil {
			log.Errorf("overdue sweep failed: %v", err)
			return
		}
		if n > 0 {
			log.Infow("overdue sweep", "bills", n)
		}
	}); err != nil {
		return fmt.Errorf("invalid overdue cron spec %q: %w", spec, err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting overdue sweeper", "cron", spec)
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			stopped := c.Stop()
			select {
			case <-stopped.Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}
