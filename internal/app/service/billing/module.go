package billing

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/condopay/billing/internal/storage"
	"github.com/condopay/billing/pkg/config"
)

// Module exposes the billing service and its overdue sweeper via Fx.
var Module = fx.Options(
	fx.Provide(func(log *zap.SugaredLogger, bills *storage.BillStore) *Service {
		return NewService(log, bills)
	}),
	fx.Invoke(func(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *config.Config, svc *Service) error {
		return registerOverdueSweeper(lc, log, cfg.Billing.OverdueCron, svc)
	}),
)
