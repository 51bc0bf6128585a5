package app

import (
	"time"

	"github.com/condopay/billing/internal/app/api/server"
	"github.com/condopay/billing/internal/app/service/billing"
	"github.com/condopay/billing/internal/app/service/subscription"
	"github.com/condopay/billing/internal/platform/db"
	"github.com/condopay/billing/internal/storage"
	"github.com/condopay/billing/pkg/config"
	"github.com/condopay/billing/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	storage.Module,
	server.Module,
	billing.Module,
	subscription.Module,
)
