package storage

import "go.uber.org/fx"

// Module exposes the stores via Fx.
var Module = fx.Options(
	fx.Provide(NewBillStore),
	fx.Provide(NewSubscriptionStore),
	fx.Provide(NewChangeLogStore),
)
