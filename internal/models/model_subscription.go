package models

import (
	"strconv"
	"time"

	"github.com/condopay/billing/pkg/types"
)

// Subscription is a recurring billing agreement scoped to one organization.
// OrganizationID is assigned at creation and never patched afterwards.
type Subscription struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrganizationID string `gorm:"column:organization_id;type:uuid;not null;index" json:"organization_id"`
	SubscriberID   *int64 `gorm:"column:subscriber_id" json:"subscriber_id"`
	// Recurrence is nil for agreements without an automatic schedule.
	Recurrence        *types.Recurrence `gorm:"column:recurrence;type:varchar(16)" json:"recurrence"`
	Name              *string           `gorm:"column:name" json:"name"`
	Description       *string           `gorm:"column:description" json:"description"`
	PayerName         *string           `gorm:"column:payer_name" json:"payer_name"`
	PayerEmail        *string           `gorm:"column:payer_email" json:"payer_email"`
	PayerPhone        *string           `gorm:"column:payer_phone" json:"payer_phone"`
	PayerDocument     *string           `gorm:"column:payer_document" json:"payer_document"`
	PayerDocumentType *string           `gorm:"column:payer_document_type" json:"payer_document_type"`
	// BillingDay is the requested day of month, 1-31; months shorter than the
	// requested day clamp each generated due date to their last day.
	BillingDay *int `gorm:"column:billing_day" json:"billing_day"`
	// TotalAmount is a decimal kept as text, matching the store schema.
	TotalAmount *string `gorm:"column:total_amount;type:numeric" json:"total_amount"`
	// Duration is the agreement length in months regardless of recurrence.
	Duration      *int      `gorm:"column:duration" json:"duration"`
	EmailBill     *bool     `gorm:"column:email_bill" json:"email_bill"`
	WhatsappBill  *bool     `gorm:"column:whatsapp_bill" json:"whatsapp_bill"`
	IntegrationID *string   `gorm:"column:integration_id" json:"integration_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// AmountValue parses TotalAmount; ok is false when absent or malformed.
func (s *Subscription) AmountValue() (float64, bool) {
	if s == nil || s.TotalAmount == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(*s.TotalAmount, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
