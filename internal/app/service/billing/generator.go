package billing

import (
	"time"

	"github.com/samber/lo"
	"gorm.io/datatypes"

	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/apperr"
	"github.com/condopay/billing/pkg/types"
)

// GenerateInput carries the billing parameters of a subscription. All fields
// are required; callers that lack any of them simply do not invoke the
// generator.
type GenerateInput struct {
	SubscriptionID int64
	OrganizationID string
	TotalAmount    float64
	BillingDay     int
	Duration       int
	Recurrence     types.Recurrence
}

func (in *GenerateInput) Validate() error {
	if in.TotalAmount <= 0 {
		return apperr.Validation("Validation error", "Total amount must be greater than 0")
	}
	if in.BillingDay < 1 || in.BillingDay > 31 {
		return apperr.Validation("Validation error", "Billing day must be between 1 and 31")
	}
	if in.Duration <= 0 {
		return apperr.Validation("Validation error", "Duration must be a positive number of months")
	}
	if !in.Recurrence.Valid() {
		return apperr.Validation("Validation error", "Recurrence must be monthly or yearly")
	}
	return nil
}

// Schedule computes the ordered list of pending bills for in, anchored at
// now's calendar date. Monthly recurrence yields one bill per month of the
// duration; yearly yields one per started 12-month block, a partial final
// year billed as a full period.
//
// The day of month is forced to in.BillingDay and clamped to the last day of
// months that are shorter; the clamp is recomputed for every entry.
func Schedule(now time.Time, in *GenerateInput) []*models.Bill {
	interval := 1
	count := in.Duration
	if in.Recurrence == types.RecurrenceYearly {
		interval = 12
		count = (in.Duration + 11) / 12
	}

	year, month, _ := now.Date()
	return lo.Times(count, func(i int) *models.Bill {
		subID := in.SubscriptionID
		return &models.Bill{
			SubscriptionID: &subID,
			OrganizationID: in.OrganizationID,
			TotalAmount:    in.TotalAmount,
			Status:         types.BillStatusPending,
			DueDate:        datatypes.Date(dueDate(year, month, i*interval, in.BillingDay)),
		}
	})
}

func dueDate(year int, month time.Month, offsetMonths, billingDay int) time.Time {
	idx := int(month) - 1 + offsetMonths
	y := year + idx/12
	m := time.Month(idx%12 + 1)
	day := billingDay
	if last := daysIn(y, m); day > last {
		day = last
	}
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// daysIn relies on day zero of the following month normalizing backwards.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
