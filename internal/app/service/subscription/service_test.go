package subscription

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/condopay/billing/internal/app/service/billing"
	"github.com/condopay/billing/internal/models"
	"github.com/condopay/billing/pkg/apperr"
	"github.com/condopay/billing/pkg/types"
)

type fakeSubStore struct {
	byID     map[int64]*models.Subscription
	nextID   int64
	inserted []*models.Subscription
	patched  map[string]any
	deleted  []int64
}

func newFakeSubStore() *fakeSubStore {
	return &fakeSubStore{byID: map[int64]*models.Subscription{}, nextID: 1}
}

func (f *fakeSubStore) Insert(_ context.Context, sub *models.Subscription) error {
	sub.ID = f.nextID
	f.nextID++
	f.byID[sub.ID] = sub
	f.inserted = append(f.inserted, sub)
	return nil
}

func (f *fakeSubStore) Patch(_ context.Context, id int64, fields map[string]any) (*models.Subscription, error) {
	f.patched = fields
	return f.byID[id], nil
}

func (f *fakeSubStore) Delete(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, id)
	delete(f.byID, id)
	return nil
}

func (f *fakeSubStore) Get(_ context.Context, id int64) (*models.Subscription, error) {
	sub, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (f *fakeSubStore) ListByOrganization(_ context.Context, _ string) ([]*models.Subscription, error) {
	return nil, nil
}

type fakeRecorder struct {
	entries []*models.SubscriptionLog
}

func (f *fakeRecorder) Record(_ context.Context, entry *models.SubscriptionLog) {
	f.entries = append(f.entries, entry)
}

type fakeBiller struct {
	inputs      []*billing.GenerateInput
	bills       []*models.Bill
	generateErr error
	cancelled   []int64
	cancelCount int64
}

func (f *fakeBiller) Generate(_ context.Context, in *billing.GenerateInput) ([]*models.Bill, error) {
	f.inputs = append(f.inputs, in)
	if f.generateErr != nil {
		return nil, f.generateErr
	}
	return f.bills, nil
}

func (f *fakeBiller) CancelBySubscription(_ context.Context, subscriptionID int64) (int64, error) {
	f.cancelled = append(f.cancelled, subscriptionID)
	return f.cancelCount, nil
}

func newTestService() (*Service, *fakeSubStore, *fakeRecorder, *fakeBiller) {
	store := newFakeSubStore()
	recorder := &fakeRecorder{}
	biller := &fakeBiller{}
	return NewService(zap.NewNop().Sugar(), store, recorder, biller), store, recorder, biller
}

func strPtr(s string) *string                     { return &s }
func intPtr(i int) *int                           { return &i }
func recPtr(r types.Recurrence) *types.Recurrence { return &r }

func TestCreate_MissingAmountRejectedWithoutInsert(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.Create(context.Background(), "org-1", &CreateRequest{Name: strPtr("pool maintenance")})
	e := apperr.From(err)
	require.Equal(t, http.StatusBadRequest, e.Status)
	require.Equal(t, "Total amount is required and must be greater than 0", e.Message)
	require.Empty(t, store.inserted)
}

func TestCreate_NonPositiveAmountRejected(t *testing.T) {
	svc, store, _, _ := newTestService()

	for _, raw := range []string{"0", "-10", "abc"} {
		_, err := svc.Create(context.Background(), "org-1", &CreateRequest{TotalAmount: strPtr(raw)})
		require.Equal(t, http.StatusBadRequest, apperr.From(err).Status, "amount %q", raw)
	}
	require.Empty(t, store.inserted)
}

func TestCreate_GeneratesBillsWhenAllParamsPresent(t *testing.T) {
	svc, store, recorder, biller := newTestService()
	biller.bills = []*models.Bill{{ID: 1}, {ID: 2}}

	res, err := svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("150.50"),
		BillingDay:  intPtr(10),
		Duration:    intPtr(2),
		Recurrence:  recPtr(types.RecurrenceMonthly),
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Equal(t, "org-1", res.Subscription.OrganizationID)
	require.Len(t, res.Bills, 2)

	require.Len(t, biller.inputs, 1)
	in := biller.inputs[0]
	require.Equal(t, res.Subscription.ID, in.SubscriptionID)
	require.Equal(t, "org-1", in.OrganizationID)
	require.Equal(t, 150.50, in.TotalAmount)
	require.Equal(t, 10, in.BillingDay)
	require.Equal(t, 2, in.Duration)
	require.Equal(t, types.RecurrenceMonthly, in.Recurrence)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, types.SubscriptionChangeReasonCreate, recorder.entries[0].Reason)
}

func TestCreate_PeriodicityAliasFeedsGeneration(t *testing.T) {
	svc, _, _, biller := newTestService()

	res, err := svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("100"),
		BillingDay:  intPtr(5),
		Duration:    intPtr(12),
		Periodicity: recPtr(types.RecurrenceYearly),
	})
	require.NoError(t, err)
	require.Len(t, biller.inputs, 1)
	require.Equal(t, types.RecurrenceYearly, biller.inputs[0].Recurrence)
	require.NotNil(t, res.Subscription.Recurrence)
	require.Equal(t, types.RecurrenceYearly, *res.Subscription.Recurrence)
}

func TestCreate_SkipsGenerationWithoutBillingParams(t *testing.T) {
	svc, store, _, biller := newTestService()

	res, err := svc.Create(context.Background(), "org-1", &CreateRequest{TotalAmount: strPtr("100")})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Empty(t, biller.inputs)
	require.Empty(t, res.Bills)
}

func TestCreate_GenerationFailureStillCreatesSubscription(t *testing.T) {
	svc, store, _, biller := newTestService()
	biller.generateErr = errors.New("insert failed")

	res, err := svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("100"),
		BillingDay:  intPtr(5),
		Duration:    intPtr(6),
		Recurrence:  recPtr(types.RecurrenceMonthly),
	})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.NotNil(t, res.Subscription)
	require.Empty(t, res.Bills)
}

func TestCreate_InvalidBillingParamsRejected(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("100"),
		Recurrence:  recPtr(types.Recurrence("weekly")),
	})
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)

	_, err = svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("100"),
		BillingDay:  intPtr(32),
	})
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)

	_, err = svc.Create(context.Background(), "org-1", &CreateRequest{
		TotalAmount: strPtr("100"),
		Duration:    intPtr(0),
	})
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)
	require.Empty(t, store.inserted)
}

func TestUpdate_UnknownSubscriptionIsNotFound(t *testing.T) {
	svc, store, _, _ := newTestService()

	_, err := svc.Update(context.Background(), 99, "org-1", &PatchRequest{Name: strPtr("x")})
	e := apperr.From(err)
	require.Equal(t, http.StatusNotFound, e.Status)
	require.Equal(t, "Subscription not found", e.Title)
	require.Equal(t, "The requested subscription does not exist", e.Message)
	require.Nil(t, store.patched)
}

func TestUpdate_ForeignOrganizationIsForbidden(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-other"}

	_, err := svc.Update(context.Background(), 3, "org-1", &PatchRequest{Name: strPtr("x")})
	e := apperr.From(err)
	require.Equal(t, http.StatusForbidden, e.Status)
	require.Equal(t, "Unauthorized", e.Title)
	require.Equal(t, "You do not have permission to update this subscription", e.Message)
	require.Nil(t, store.patched)
}

func TestUpdate_PatchesOnlySuppliedFields(t *testing.T) {
	svc, store, recorder, _ := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-1"}

	_, err := svc.Update(context.Background(), 3, "org-1", &PatchRequest{
		Name:       strPtr("garage fee"),
		BillingDay: intPtr(20),
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{"name": "garage fee", "billing_day": 20}, store.patched)

	require.Len(t, recorder.entries, 1)
	require.Equal(t, types.SubscriptionChangeReasonPatch, recorder.entries[0].Reason)
}

func TestUpdate_ValidatesBillingFields(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-1"}

	_, err := svc.Update(context.Background(), 3, "org-1", &PatchRequest{TotalAmount: strPtr("-5")})
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)

	_, err = svc.Update(context.Background(), 3, "org-1", &PatchRequest{Recurrence: recPtr(types.Recurrence("daily"))})
	require.Equal(t, http.StatusBadRequest, apperr.From(err).Status)
	require.Nil(t, store.patched)
}

func TestDelete_RemovesRowAndRecordsChange(t *testing.T) {
	svc, store, recorder, biller := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-1"}

	require.NoError(t, svc.Delete(context.Background(), 3, "org-1"))
	require.Equal(t, []int64{3}, store.deleted)
	// No cascade: bills are untouched by a delete.
	require.Empty(t, biller.cancelled)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, types.SubscriptionChangeReasonDelete, recorder.entries[0].Reason)
}

func TestDelete_UnknownSubscriptionIsNotFound(t *testing.T) {
	svc, store, _, _ := newTestService()

	err := svc.Delete(context.Background(), 99, "org-1")
	require.Equal(t, http.StatusNotFound, apperr.From(err).Status)
	require.Empty(t, store.deleted)
}

func TestCancelBills_GatesOnOwnershipThenDelegates(t *testing.T) {
	svc, store, recorder, biller := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-1"}
	biller.cancelCount = 5

	n, err := svc.CancelBills(context.Background(), 3, "org-1")
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
	require.Equal(t, []int64{3}, biller.cancelled)
	require.Len(t, recorder.entries, 1)
	require.Equal(t, types.SubscriptionChangeReasonCancelBills, recorder.entries[0].Reason)
}

func TestCancelBills_ForeignOrganizationIsForbidden(t *testing.T) {
	svc, store, _, biller := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-other"}

	_, err := svc.CancelBills(context.Background(), 3, "org-1")
	require.Equal(t, http.StatusForbidden, apperr.From(err).Status)
	require.Empty(t, biller.cancelled)
}

func TestGet_ForeignOrganizationIsForbidden(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.byID[3] = &models.Subscription{ID: 3, OrganizationID: "org-other"}

	_, err := svc.Get(context.Background(), 3, "org-1")
	e := apperr.From(err)
	require.Equal(t, http.StatusForbidden, e.Status)
	require.Equal(t, "You do not have permission to access this subscription", e.Message)
}
