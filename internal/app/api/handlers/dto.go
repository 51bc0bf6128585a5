package handlers

import (
	"time"

	"github.com/samber/lo"

	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/types"
)

// BillItem is the wire view of a bill; due_date is date-only, everything else
// ISO-8601.
type BillItem struct {
	ID               int64            `json:"id"`
	SubscriptionID   *int64           `json:"subscription_id"`
	OrganizationID   string           `json:"organization_id"`
	TotalAmount      float64          `json:"total_amount"`
	Status           types.BillStatus `json:"status"`
	DueDate          string           `json:"due_date"`
	ConfirmedAt      *time.Time       `json:"confirmed_at"`
	CancelledAt      *time.Time       `json:"cancelled_at"`
	ProofPaymentPath *string          `json:"proof_payment_path"`
	CreatedAt        time.Time        `json:"created_at"`
}

func toBillItem(m *models.Bill) *BillItem {
	return &BillItem{
		ID:               m.ID,
		SubscriptionID:   m.SubscriptionID,
		OrganizationID:   m.OrganizationID,
		TotalAmount:      m.TotalAmount,
		Status:           m.Status,
		DueDate:          m.DueDateString(),
		ConfirmedAt:      m.ConfirmedAt,
		CancelledAt:      m.CancelledAt,
		ProofPaymentPath: m.ProofPaymentPath,
		CreatedAt:        m.CreatedAt,
	}
}

func toBillItems(ms []*models.Bill) []*BillItem {
	return lo.Map(ms, func(m *models.Bill, _ int) *BillItem { return toBillItem(m) })
}

// SubscriptionWithBills is the create-subscription response payload.
type SubscriptionWithBills struct {
	Subscription *models.Subscription `json:"subscription"`
	Bills        []*BillItem          `json:"bills"`
}
