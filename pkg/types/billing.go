package types

// Recurrence is the billing cadence of a subscription.
type Recurrence string

const (
	RecurrenceMonthly Recurrence = "monthly"
	RecurrenceYearly  Recurrence = "yearly"
)

func (r Recurrence) Valid() bool {
	return r == RecurrenceMonthly || r == RecurrenceYearly
}

// BillStatus is the lifecycle state of a single charge.
// The flow only ever creates bills as pending; paid and cancelled are set by
// explicit updates, overdue by the sweeper.
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusCancelled BillStatus = "cancelled"
)

func (s BillStatus) Valid() bool {
	switch s {
	case BillStatusPending, BillStatusPaid, BillStatusOverdue, BillStatusCancelled:
		return true
	}
	return false
}

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonCreate      SubscriptionChangeReason = "create"
	SubscriptionChangeReasonPatch       SubscriptionChangeReason = "patch"
	SubscriptionChangeReasonDelete      SubscriptionChangeReason = "delete"
	SubscriptionChangeReasonCancelBills SubscriptionChangeReason = "cancelBills"
)

// DateLayout is the wire format for date-only values such as due dates.
const DateLayout = "2006-01-02"
