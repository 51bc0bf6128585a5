package storage

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/types"
)

// BillStore wraps persistence over bill rows. Not-found conditions surface as
// gorm.ErrRecordNotFound; services translate them.
type BillStore struct {
	db *gorm.DB
}

func NewBillStore(db *gorm.DB) *BillStore {
	return &BillStore{db: db}
}

func (s *BillStore) Insert(ctx context.Context, bill *models.Bill) error {
	return s.db.WithContext(ctx).Create(bill).Error
}

// InsertMany persists all bills in a single batch insert; either every row is
// written or the whole call fails.
func (s *BillStore) InsertMany(ctx context.Context, bills []*models.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Create(bills).Error
}

// Patch applies a partial column update and returns the fresh row.
func (s *BillStore) Patch(ctx context.Context, id int64, fields map[string]any) (*models.Bill, error) {
	if len(fields) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.Bill{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

func (s *BillStore) Delete(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Bill{}).Error
}

func (s *BillStore) Get(ctx context.Context, id int64) (*models.Bill, error) {
	var bill models.Bill
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&bill).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (s *BillStore) ListByOrganization(ctx context.Context, organizationID string) ([]*models.Bill, error) {
	var bills []*models.Bill
	if err := s.db.WithContext(ctx).Where("organization_id = ?", organizationID).Order("due_date asc").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

func (s *BillStore) ListBySubscription(ctx context.Context, subscriptionID int64) ([]*models.Bill, error) {
	var bills []*models.Bill
	if err := s.db.WithContext(ctx).Where("subscription_id = ?", subscriptionID).Order("due_date asc").Find(&bills).Error; err != nil {
		return nil, err
	}
	return bills, nil
}

// CancelPendingBySubscription bulk-transitions a subscription's pending and
// overdue bills to cancelled, stamping cancelled_at. Paid and already
// cancelled rows are untouched.
func (s *BillStore) CancelPendingBySubscription(ctx context.Context, subscriptionID int64, now time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Bill{}).
		Where("subscription_id = ? AND status IN ?", subscriptionID, []types.BillStatus{types.BillStatusPending, types.BillStatusOverdue}).
		Updates(map[string]any{"status": types.BillStatusCancelled, "cancelled_at": now})
	return res.RowsAffected, res.Error
}

// MarkOverdue transitions pending bills whose due date lies strictly before
// asOf to overdue.
func (s *BillStore) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Bill{}).
		Where("status = ? AND due_date < ?", types.BillStatusPending, asOf.Format(types.DateLayout)).
		Update("status", types.BillStatusOverdue)
	return res.RowsAffected, res.Error
}
