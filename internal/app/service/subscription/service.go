package subscription

import (
	"context"
	"errors"
	"strconv"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/condopay/billing/internal/app/service/billing"
	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/apperr"
	"github.com/condopay/billing/pkg/authz"
	"github.com/condopay/billing/pkg/logctx"
	"github.com/condopay/billing/pkg/types"
)

// SubscriptionStore is the persistence surface the service needs.
type SubscriptionStore interface {
	Insert(ctx context.Context, sub *models.Subscription) error
	Patch(ctx context.Context, id int64, fields map[string]any) (*models.Subscription, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*models.Subscription, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*models.Subscription, error)
}

// ChangeRecorder captures audit snapshots of subscription changes.
type ChangeRecorder interface {
	Record(ctx context.Context, entry *models.SubscriptionLog)
}

// Biller is the bill-generation collaborator.
type Biller interface {
	Generate(ctx context.Context, in *billing.GenerateInput) ([]*models.Bill, error)
	CancelBySubscription(ctx context.Context, subscriptionID int64) (int64, error)
}

type Service struct {
	log     *zap.SugaredLogger
	subs    SubscriptionStore
	changes ChangeRecorder
	biller  Biller
}

func NewService(log *zap.SugaredLogger, subs SubscriptionStore, changes ChangeRecorder, biller Biller) *Service {
	return &Service{log: log, subs: subs, changes: changes, biller: biller}
}

// CreateRequest is the inbound field set for a new subscription.
// Periodicity is a legacy alias for Recurrence kept for older clients.
type CreateRequest struct {
	SubscriberID      *int64            `json:"subscriber_id"`
	Recurrence        *types.Recurrence `json:"recurrence"`
	Periodicity       *types.Recurrence `json:"periodicity"`
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	PayerName         *string           `json:"payer_name"`
	PayerEmail        *string           `json:"payer_email"`
	PayerPhone        *string           `json:"payer_phone"`
	PayerDocument     *string           `json:"payer_document"`
	PayerDocumentType *string           `json:"payer_document_type"`
	BillingDay        *int              `json:"billing_day"`
	TotalAmount       *string           `json:"total_amount"`
	Duration          *int              `json:"duration"`
	EmailBill         *bool             `json:"email_bill"`
	WhatsappBill      *bool             `json:"whatsapp_bill"`
	IntegrationID     *string           `json:"integration_id"`
}

// CreateResult pairs the new subscription with its generated bills, which are
// empty when billing parameters were absent or generation failed.
type CreateResult struct {
	Subscription *models.Subscription
	Bills        []*models.Bill
}

// Create inserts a subscription scoped to organizationID and, when
// billing_day, duration and a recurrence are all present, generates its bill
// schedule. A generation failure is logged and swallowed: the subscription is
// the source of truth and its bills can be recreated later.
func (s *Service) Create(ctx context.Context, organizationID string, req *CreateRequest) (*CreateResult, error) {
	amount, err := parseAmount(req.TotalAmount)
	if err != nil {
		return nil, err
	}

	recurrence, _ := lo.Coalesce(req.Periodicity, req.Recurrence)
	if recurrence != nil && !recurrence.Valid() {
		return nil, apperr.Validation("Validation error", "Recurrence must be monthly or yearly")
	}
	if req.BillingDay != nil && (*req.BillingDay < 1 || *req.BillingDay > 31) {
		return nil, apperr.Validation("Validation error", "Billing day must be between 1 and 31")
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, apperr.Validation("Validation error", "Duration must be a positive number of months")
	}

	sub := &models.Subscription{
		OrganizationID:    organizationID,
		SubscriberID:      req.SubscriberID,
		Recurrence:        recurrence,
		Name:              req.Name,
		Description:       req.Description,
		PayerName:         req.PayerName,
		PayerEmail:        req.PayerEmail,
		PayerPhone:        req.PayerPhone,
		PayerDocument:     req.PayerDocument,
		PayerDocumentType: req.PayerDocumentType,
		BillingDay:        req.BillingDay,
		TotalAmount:       req.TotalAmount,
		Duration:          req.Duration,
		EmailBill:         req.EmailBill,
		WhatsappBill:      req.WhatsappBill,
		IntegrationID:     req.IntegrationID,
	}
	if err := s.subs.Insert(ctx, sub); err != nil {
		return nil, apperr.Internal("Error on create subscription", err)
	}
	s.recordChange(ctx, types.SubscriptionChangeReasonCreate, nil, sub)

	bills := []*models.Bill{}
	if req.BillingDay != nil && req.Duration != nil && recurrence != nil {
		generated, err := s.biller.Generate(ctx, &billing.GenerateInput{
			SubscriptionID: sub.ID,
			OrganizationID: organizationID,
			TotalAmount:    amount,
			BillingDay:     *req.BillingDay,
			Duration:       *req.Duration,
			Recurrence:     *recurrence,
		})
		if err != nil {
			// Best effort: the subscription stays, bills can be regenerated.
			logctx.FromCtx(ctx, s.log).Errorf("error generating bills for subscription %d: %v", sub.ID, err)
		} else {
			bills = generated
		}
	}

	return &CreateResult{Subscription: sub, Bills: bills}, nil
}

// PatchRequest is the partial field set accepted by Update. Existing bills
// are never adjusted retroactively when billing parameters change.
type PatchRequest struct {
	SubscriberID      *int64            `json:"subscriber_id"`
	Recurrence        *types.Recurrence `json:"recurrence"`
	Name              *string           `json:"name"`
	Description       *string           `json:"description"`
	PayerName         *string           `json:"payer_name"`
	PayerEmail        *string           `json:"payer_email"`
	PayerPhone        *string           `json:"payer_phone"`
	PayerDocument     *string           `json:"payer_document"`
	PayerDocumentType *string           `json:"payer_document_type"`
	BillingDay        *int              `json:"billing_day"`
	TotalAmount       *string           `json:"total_amount"`
	Duration          *int              `json:"duration"`
	EmailBill         *bool             `json:"email_bill"`
	WhatsappBill      *bool             `json:"whatsapp_bill"`
	IntegrationID     *string           `json:"integration_id"`
}

func (s *Service) Update(ctx context.Context, subscriptionID int64, organizationID string, req *PatchRequest) (*models.Subscription, error) {
	existing, err := s.getOwned(ctx, subscriptionID, organizationID, "update")
	if err != nil {
		return nil, err
	}

	if req.TotalAmount != nil {
		if _, err := parseAmount(req.TotalAmount); err != nil {
			return nil, err
		}
	}
	if req.Recurrence != nil && !req.Recurrence.Valid() {
		return nil, apperr.Validation("Validation error", "Recurrence must be monthly or yearly")
	}
	if req.BillingDay != nil && (*req.BillingDay < 1 || *req.BillingDay > 31) {
		return nil, apperr.Validation("Validation error", "Billing day must be between 1 and 31")
	}
	if req.Duration != nil && *req.Duration <= 0 {
		return nil, apperr.Validation("Validation error", "Duration must be a positive number of months")
	}

	fields := map[string]any{}
	if req.SubscriberID != nil {
		fields["subscriber_id"] = *req.SubscriberID
	}
	if req.Recurrence != nil {
		fields["recurrence"] = *req.Recurrence
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.PayerName != nil {
		fields["payer_name"] = *req.PayerName
	}
	if req.PayerEmail != nil {
		fields["payer_email"] = *req.PayerEmail
	}
	if req.PayerPhone != nil {
		fields["payer_phone"] = *req.PayerPhone
	}
	if req.PayerDocument != nil {
		fields["payer_document"] = *req.PayerDocument
	}
	if req.PayerDocumentType != nil {
		fields["payer_document_type"] = *req.PayerDocumentType
	}
	if req.BillingDay != nil {
		fields["billing_day"] = *req.BillingDay
	}
	if req.TotalAmount != nil {
		fields["total_amount"] = *req.TotalAmount
	}
	if req.Duration != nil {
		fields["duration"] = *req.Duration
	}
	if req.EmailBill != nil {
		fields["email_bill"] = *req.EmailBill
	}
	if req.WhatsappBill != nil {
		fields["whatsapp_bill"] = *req.WhatsappBill
	}
	if req.IntegrationID != nil {
		fields["integration_id"] = *req.IntegrationID
	}

	updated, err := s.subs.Patch(ctx, subscriptionID, fields)
	if err != nil {
		return nil, apperr.Internal("Error on update subscription", err)
	}
	s.recordChange(ctx, types.SubscriptionChangeReasonPatch, existing, updated)
	return updated, nil
}

// Delete hard-deletes the subscription row. It does not cascade to bills;
// cancellation of pending bills is a separate, explicit call.
func (s *Service) Delete(ctx context.Context, subscriptionID int64, organizationID string) error {
	existing, err := s.getOwned(ctx, subscriptionID, organizationID, "delete")
	if err != nil {
		return err
	}
	if err := s.subs.Delete(ctx, subscriptionID); err != nil {
		return apperr.Internal("Error on delete subscription", err)
	}
	s.recordChange(ctx, types.SubscriptionChangeReasonDelete, existing, nil)
	return nil
}

// CancelBills transitions the subscription's pending and overdue bills to
// cancelled and returns how many rows changed.
func (s *Service) CancelBills(ctx context.Context, subscriptionID int64, organizationID string) (int64, error) {
	existing, err := s.getOwned(ctx, subscriptionID, organizationID, "update")
	if err != nil {
		return 0, err
	}
	n, err := s.biller.CancelBySubscription(ctx, subscriptionID)
	if err != nil {
		return 0, err
	}
	s.recordChange(ctx, types.SubscriptionChangeReasonCancelBills, existing, existing)
	return n, nil
}

func (s *Service) Get(ctx context.Context, subscriptionID int64, organizationID string) (*models.Subscription, error) {
	return s.getOwned(ctx, subscriptionID, organizationID, "access")
}

func (s *Service) List(ctx context.Context, organizationID string) ([]*models.Subscription, error) {
	subs, err := s.subs.ListByOrganization(ctx, organizationID)
	if err != nil {
		return nil, apperr.Internal("Error on list subscriptions", err)
	}
	return subs, nil
}

// getOwned is the gate every id-targeting operation passes first: existence,
// then ownership, before any side effect.
func (s *Service) getOwned(ctx context.Context, subscriptionID int64, organizationID, action string) (*models.Subscription, error) {
	sub, err := s.subs.Get(ctx, subscriptionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Subscription not found", "The requested subscription does not exist")
		}
		return nil, apperr.Internal("Error on get subscription", err)
	}
	if !authz.BelongsToOrganization(sub.OrganizationID, organizationID) {
		return nil, apperr.Unauthorized("Unauthorized", "You do not have permission to "+action+" this subscription")
	}
	return sub, nil
}

func (s *Service) recordChange(ctx context.Context, reason types.SubscriptionChangeReason, before, after *models.Subscription) {
	if s.changes == nil {
		return
	}
	ref := after
	if ref == nil {
		ref = before
	}
	s.changes.Record(ctx, &models.SubscriptionLog{
		SubscriptionID: ref.ID,
		OrganizationID: ref.OrganizationID,
		Reason:         reason,
		Before:         datatypes.NewJSONType(before),
		After:          datatypes.NewJSONType(after),
	})
}

func parseAmount(raw *string) (float64, error) {
	if raw == nil {
		return 0, apperr.Validation("Validation error", "Total amount is required and must be greater than 0")
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil || v <= 0 {
		return 0, apperr.Validation("Validation error", "Total amount is required and must be greater than 0")
	}
	return v, nil
}
