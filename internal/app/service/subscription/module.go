package subscription

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/condopay/billing/internal/app/service/billing"
	"github.com/condopay/billing/internal/storage"
)

// Module exposes the subscription service via Fx.
var Module = fx.Options(
	fx.Provide(func(log *zap.SugaredLogger, subs *storage.SubscriptionStore, changes *storage.ChangeLogStore, biller *billing.Service) *Service {
		return NewService(log, subs, changes, biller)
	}),
)
