package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	mw "github.com/condopay/billing/internal/app/api/middleware"
	"github.com/condopay/billing/internal/app/service/billing"
	subsvc "github.com/condopay/billing/internal/app/service/subscription"
	"github.com/condopay/billing/internal/models"
)

type stubSubStore struct {
	byID map[int64]*models.Subscription
}

func (s *stubSubStore) Insert(_ context.Context, sub *models.Subscription) error {
	sub.ID = int64(len(s.byID) + 1)
	s.byID[sub.ID] = sub
	return nil
}

func (s *stubSubStore) Patch(_ context.Context, id int64, _ map[string]any) (*models.Subscription, error) {
	return s.byID[id], nil
}

func (s *stubSubStore) Delete(_ context.Context, id int64) error {
	delete(s.byID, id)
	return nil
}

func (s *stubSubStore) Get(_ context.Context, id int64) (*models.Subscription, error) {
	sub, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sub, nil
}

func (s *stubSubStore) ListByOrganization(_ context.Context, _ string) ([]*models.Subscription, error) {
	return nil, nil
}

type stubBiller struct {
	bills []*models.Bill
}

func (s *stubBiller) Generate(_ context.Context, _ *billing.GenerateInput) ([]*models.Bill, error) {
	return s.bills, nil
}

func (s *stubBiller) CancelBySubscription(_ context.Context, _ int64) (int64, error) {
	return 0, nil
}

func newSubscriptionRouter(store *stubSubStore, biller *stubBiller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := subsvc.NewService(zap.NewNop().Sugar(), store, nil, biller)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set(mw.OrganizationIDKey, "org-1") })
	g := r.Group("/api/v1")
	RegisterSubscriptionRoutes(g, svc)
	return r
}

func TestApiCreateSubscription_ReturnsBillsWithDateOnlyDueDates(t *testing.T) {
	store := &stubSubStore{byID: map[int64]*models.Subscription{}}
	biller := &stubBiller{bills: billing.Schedule(
		mustDate(t, "2025-01-15"),
		&billing.GenerateInput{SubscriptionID: 1, OrganizationID: "org-1", TotalAmount: 100, BillingDay: 31, Duration: 2, Recurrence: "monthly"},
	)}
	r := newSubscriptionRouter(store, biller)

	body, _ := json.Marshal(map[string]any{
		"name":         "pool maintenance",
		"total_amount": "100",
		"billing_day":  31,
		"duration":     2,
		"recurrence":   "monthly",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "\"due_date\":\"2025-01-31\"")
	require.Contains(t, w.Body.String(), "\"due_date\":\"2025-02-28\"")
}

func TestApiCreateSubscription_MissingAmountIs400(t *testing.T) {
	store := &stubSubStore{byID: map[int64]*models.Subscription{}}
	r := newSubscriptionRouter(store, &stubBiller{})

	body, _ := json.Marshal(map[string]any{"name": "pool maintenance"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Total amount is required and must be greater than 0")
	require.Empty(t, store.byID)
}

func TestApiGetSubscription_NonNumericIDIs400(t *testing.T) {
	r := newSubscriptionRouter(&stubSubStore{byID: map[int64]*models.Subscription{}}, &stubBiller{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/abc", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "Subscription ID must be a number")
}

func TestApiGetSubscription_UnknownIDIs404(t *testing.T) {
	r := newSubscriptionRouter(&stubSubStore{byID: map[int64]*models.Subscription{}}, &stubBiller{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/42", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Subscription not found")
}

func TestApiGetSubscription_ForeignOrganizationIs403(t *testing.T) {
	store := &stubSubStore{byID: map[int64]*models.Subscription{
		3: {ID: 3, OrganizationID: "org-other"},
	}}
	r := newSubscriptionRouter(store, &stubBiller{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscriptions/3", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "You do not have permission to access this subscription")
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return parsed
}
