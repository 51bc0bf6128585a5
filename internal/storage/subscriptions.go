package storage

import (
	"context"

	"gorm.io/gorm"

	"github.com/condopay/billing/internal/models"
)

// SubscriptionStore wraps persistence over subscription rows.
type SubscriptionStore struct {
	db *gorm.DB
}

func NewSubscriptionStore(db *gorm.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

func (s *SubscriptionStore) Insert(ctx context.Context, sub *models.Subscription) error {
	return s.db.WithContext(ctx).Create(sub).Error
}

// Patch applies a partial column update and returns the fresh row.
// organization_id is never part of fields; ownership is immutable.
func (s *SubscriptionStore) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Subscription, error) {
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Subscription{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *SubscriptionStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subscription{}).Error
}

func (s *SubscriptionStore) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *SubscriptionStore) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Subscription, error) {
	var subs []*models.Subscription
	if err := s.db.WithContext(ctx).Where("organization_id = ?", organizationID).Order("created_at desc").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
