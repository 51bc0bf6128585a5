package billing

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/apperr"
	"github.com/condopay/billing/pkg/authz"
	"github.com/condopay/billing/pkg/logctx"
	"github.com/condopay/billing/pkg/metrics"
	"github.com/condopay/billing/pkg/types"
)

// BillStore is the persistence surface the service needs.
type BillStore interface {
	InsertMany(ctx context.Context, bills []*models.Bill) error
	Patch(ctx context.Context, id int64, fields map[string]any) (*models.Bill, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Bill, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Bill, error)
	ListBySubscription(ctx context.Context, subscriptionID int64) ([]*models.Bill, error)
	CancelPendingBySubscription(ctx context.Context, subscriptionID int64, now time.Time) (int64, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type Service struct {
	log   *zap.SugaredLogger
	bills BillStore
	now   func() time.Time
}

func NewService(log *zap.SugaredLogger, bills BillStore) *Service {
	return &Service{log: log, bills: bills, now: time.Now}
}

// Generate computes the due schedule for in and persists it as one batch.
// The batch either lands whole or the call fails; no partial insert is
// reported as success. Calling it twice writes two independent batches.
func (s *Service) Generate(ctx context.Context, in *GenerateInput) ([]*models.Bill, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	bills := Schedule(s.now(), in)
	if err := s.bills.InsertMany(ctx, bills); err != nil {
		return nil, apperr.Internal("Error on generate bills", err)
	}
	metrics.BillsGenerated.Add(float64(len(bills)))
	logctx.FromCtx(ctx, s.log).Infow("bills generated",
		"subscription_id", in.SubscriptionID, "count", len(bills), "recurrence", in.Recurrence)
	return bills, nil
}

func (s *Service) Get(ctx context.Context, billID int64, organizationID string) (*models.Bill, error) {
	return s.getOwned(ctx, billID, organizationID, "access")
}

func (s *Service) List(ctx context.Context, organizationID string) ([]*models.Bill, error) {
	bills, err := s.bills.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperr.Internal("Error on list bills", err)
	}
	return bills, nil
}

func (s *Service) ListBySubscription(ctx context.Context, subscriptionID int64) ([]*models.Bill, error) {
	bills, err := s.bills.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, apperr.Internal("Error on list bills", err)
	}
	return bills, nil
}

// BillPatch is the partial field set accepted by Update. Any of the four
// statuses is accepted; the flow itself only produces paid and cancelled
// through here.
type BillPatch struct {
	TotalAmount      *float64          `json:"total_amount"`
	Status           *types.BillStatus `json:"status"`
	DueDate          *string           `json:"due_date"`
	ConfirmedAt      *time.Time        `json:"confirmed_at"`
	CancelledAt      *time.Time        `json:"cancelled_at"`
	ProofPaymentPath *string           `json:"proof_payment_path"`
}

// Update patches a bill after the ownership gate. Moving the status to paid
// or cancelled stamps confirmed_at / cancelled_at unless the caller supplied
// an explicit timestamp.
func (s *Service) Update(ctx context.Context, billID int64, organizationID string, patch *BillPatch) (*models.Bill, error) {
	if _, err := s.getOwned(ctx, billID, organizationID, "update"); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if patch.TotalAmount != nil {
		if *patch.TotalAmount <= 0 {
			return nil, apperr.Validation("Validation error", "Total amount must be greater than 0")
		}
		fields["total_amount"] = *patch.TotalAmount
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperr.Validation("Validation error", "Invalid bill status")
		}
		fields["status"] = *patch.Status
		switch *patch.Status {
		case types.BillStatusPaid:
			if patch.ConfirmedAt == nil {
				fields["confirmed_at"] = s.now()
			}
		case types.BillStatusCancelled:
			if patch.CancelledAt == nil {
				fields["cancelled_at"] = s.now()
			}
		}
	}
	if patch.DueDate != nil {
		due, err := time.Parse(types.DateLayout, *patch.DueDate)
		if err != nil {
			return nil, apperr.Validation("Validation error", "Due date must be formatted as YYYY-MM-DD")
		}
		fields["due_date"] = datatypes.Date(due)
	}
	if patch.ConfirmedAt != nil {
		fields["confirmed_at"] = *patch.ConfirmedAt
	}
	if patch.CancelledAt != nil {
		fields["cancelled_at"] = *patch.CancelledAt
	}
	if patch.ProofPaymentPath != nil {
		fields["proof_payment_path"] = *patch.ProofPaymentPath
	}

	bill, err := s.bills.Patch(ctx, billID, fields)
	if err != nil {
		return nil, apperr.Internal("Error on update bill", err)
	}
	return bill, nil
}

// Delete removes a bill after the ownership gate. Any attached payment proof
// is an object-store reference whose cleanup belongs to that collaborator.
func (s *Service) Delete(ctx context.Context, billID int64, organizationID string) error {
	if _, err := s.getOwned(ctx, billID, organizationID, "delete"); err != nil {
		return err
	}
	if err := s.bills.Delete(ctx, billID); err != nil {
		return apperr.Internal("Error on delete bill", err)
	}
	return nil
}

// CancelBySubscription cancels every pending or overdue bill of a
// subscription. The ownership gate on the subscription itself belongs to the
// caller.
func (s *Service) CancelBySubscription(ctx context.Context, subscriptionID int64) (int64, error) {
	n, err := s.bills.CancelPendingBySubscription(ctx, subscriptionID, s.now())
	if err != nil {
		return 0, apperr.Internal("Error on cancel subscription bills", err)
	}
	return n, nil
}

// MarkOverdue flips pending bills past their due date to overdue.
func (s *Service) MarkOverdue(ctx context.Context) (int64, error) {
	n, err := s.bills.MarkOverdue(ctx, s.now())
	if err != nil {
		return 0, apperr.Internal("Error on mark overdue bills", err)
	}
	return n, nil
}

func (s *Service) getOwned(ctx context.Context, billID int64, organizationID, action string) (*models.Bill, error) {
	bill, err := s.bills.Get(ctx, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Bill not found", "The requested bill does not exist")
		}
		return nil, apperr.Internal("Error on get bill", err)
	}
	if !authz.BelongsToOrganization(bill.OrganizationID, organizationID) {
		return nil, apperr.Unauthorized("Unauthorized", "You do not have permission to "+action+" this bill")
	}
	return bill, nil
}
