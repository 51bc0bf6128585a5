package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/condopay/billing/pkg/types"
)

// Bill is one scheduled or realized charge. SubscriptionID is nil for ad hoc
// charges created outside the generator.
type Bill struct {
	ID             int64   `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	SubscriptionID *int64  `gorm:"column:subscription_id;index" json:"subscription_id"`
	OrganizationID string  `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	TotalAmount    float64 `gorm:"column:total_amount;type:numeric" json:"total_amount"`
	Status         types.BillStatus `gorm:"column:status;type:varchar(16);not null" json:"status"`
	// DueDate is stored as a date column; the wire format is YYYY-MM-DD.
	DueDate datatypes.Date `gorm:"column:due_date;type:date" json:"-"`
	// ConfirmedAt is stamped when the status moves to paid.
	ConfirmedAt *time.Time `gorm:"column:confirmed_at;default:null" json:"confirmed_at"`
	// CancelledAt is stamped when the status moves to cancelled.
	CancelledAt *time.Time `gorm:"column:cancelled_at;default:null" json:"cancelled_at"`
	// ProofPaymentPath is an opaque object-store reference; the store itself
	// is an external collaborator.
	ProofPaymentPath *string   `gorm:"column:proof_payment_path" json:"proof_payment_path"`
	CreatedAt        time.Time `json:"created_at"`
}

func (Bill) TableName() string {
	return "bills"
}

// DueDateString renders the due date in the date-only wire format.
func (b *Bill) DueDateString() string {
	return time.Time(b.DueDate).Format(types.DateLayout)
}
