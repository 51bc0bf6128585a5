package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mw "github.com/condopay/billing/internal/app/api/middleware"
	subsvc "github.com/condopay/billing/internal/app/service/subscription"
	"github.com/condopay/billing/pkg/response"
)

// @Summary      List subscriptions
// @Description  Lists the caller organization's subscriptions, newest first.
// @Tags         Subscriptions
// @Produce      json
// @Success      200  {object}  handlers.RespSubscriptionList
// @Router       /api/v1/subscriptions [get]
func ApiListSubscriptions(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		subs, err := svc.List(c.Request.Context(), mw.OrganizationID(c))
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Subscriptions list", subs))
	}
}

// @Summary      Create subscription
// @Description  Creates a subscription; when billing_day, duration and recurrence are present the bill schedule is generated as well.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        request body subscription.CreateRequest true "Subscription fields"
// @Success      201  {object}  handlers.RespSubscriptionWithBills
// @Router       /api/v1/subscriptions [post]
func ApiCreateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req subsvc.CreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, &response.APIError{Error: "Validation error", Message: err.Error()})
			return
		}
		res, err := svc.Create(c.Request.Context(), mw.OrganizationID(c), &req)
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		out := &SubscriptionWithBills{Subscription: res.Subscription, Bills: toBillItems(res.Bills)}
		c.JSON(http.StatusCreated, response.OKT(http.StatusCreated, "Subscription created", out))
	}
}

// @Summary      Get subscription
// @Tags         Subscriptions
// @Produce      json
// @Param        id path int true "Subscription ID"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscriptions/{id} [get]
func ApiGetSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subscriptionID(c)
		if !ok {
			return
		}
		sub, err := svc.Get(c.Request.Context(), id, mw.OrganizationID(c))
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Subscription found", sub))
	}
}

// @Summary      Update subscription
// @Description  Patches a subset of fields. Already-generated bills are not adjusted.
// @Tags         Subscriptions
// @Accept       json
// @Produce      json
// @Param        id path int true "Subscription ID"
// @Param        request body subscription.PatchRequest true "Fields to update"
// @Success      200  {object}  handlers.RespSubscription
// @Router       /api/v1/subscriptions/{id} [patch]
func ApiUpdateSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subscriptionID(c)
		if !ok {
			return
		}
		var req subsvc.PatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, &response.APIError{Error: "Validation error", Message: err.Error()})
			return
		}
		sub, err := svc.Update(c.Request.Context(), id, mw.OrganizationID(c), &req)
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Subscription updated", sub))
	}
}

// @Summary      Delete subscription
// @Description  Hard-deletes the subscription. Pending bills are not cancelled automatically; call cancel-bills explicitly.
// @Tags         Subscriptions
// @Produce      json
// @Param        id path int true "Subscription ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/subscriptions/{id} [delete]
func ApiDeleteSubscription(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subscriptionID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id, mw.OrganizationID(c)); err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](http.StatusOK, "Subscription deleted", nil))
	}
}

// @Summary      Cancel subscription bills
// @Description  Transitions the subscription's pending and overdue bills to cancelled.
// @Tags         Subscriptions
// @Produce      json
// @Param        id path int true "Subscription ID"
// @Success      200  {object}  handlers.RespCancelledBills
// @Router       /api/v1/subscriptions/{id}/cancel-bills [post]
func ApiCancelSubscriptionBills(svc *subsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := subscriptionID(c)
		if !ok {
			return
		}
		n, err := svc.CancelBills(c.Request.Context(), id, mw.OrganizationID(c))
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Subscription bills cancelled", map[string]int64{"cancelled": n}))
	}
}

func subscriptionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, &response.APIError{Error: "Invalid ID", Message: "Subscription ID must be a number"})
		return 0, false
	}
	return id, true
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc *subsvc.Service) {
	r.GET("/subscriptions", ApiListSubscriptions(svc))
	r.POST("/subscriptions", ApiCreateSubscription(svc))
	r.GET("/subscriptions/:id", ApiGetSubscription(svc))
	r.PATCH("/subscriptions/:id", ApiUpdateSubscription(svc))
	r.DELETE("/subscriptions/:id", ApiDeleteSubscription(svc))
	r.POST("/subscriptions/:id/cancel-bills", ApiCancelSubscriptionBills(svc))
}
