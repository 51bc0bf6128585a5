package storage

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/logctx"
	"github.com/condopay/billing/pkg/tool"
)

// ChangeLogStore persists subscription audit snapshots.
type ChangeLogStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewChangeLogStore(db *gorm.DB, log *zap.SugaredLogger) *ChangeLogStore {
	return &ChangeLogStore{db: db, log: log}
}

// Record asynchronously persists a change snapshot. Nil input is ignored;
// write failures are logged, never surfaced to the caller.
func (s *ChangeLogStore) Record(ctx context.Context, entry *models.SubscriptionLog) {
	go func() {
		if entry == nil {
			return
		}
		if entry.ID == "" {
			entry.ID = tool.GenerateUUIDV7()
		}
		if err := s.db.Create(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}
