package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	mw "github.com/condopay/billing/internal/app/api/middleware"
	"github.com/condopay/billing/internal/app/service/billing"
	"github.com/condopay/billing/pkg/response"
)

// @Summary      List bills
// @Description  Lists the caller organization's bills ordered by due date.
// @Tags         Bills
// @Produce      json
// @Success      200  {object}  handlers.RespBillList
// @Router       /api/v1/bills [get]
func ApiListBills(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		bills, err := svc.List(c.Request.Context(), mw.OrganizationID(c))
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Bills list", toBillItems(bills)))
	}
}

// @Summary      Get bill
// @Tags         Bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200  {object}  handlers.RespBill
// @Router       /api/v1/bills/{id} [get]
func ApiGetBill(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := billID(c)
		if !ok {
			return
		}
		bill, err := svc.Get(c.Request.Context(), id, mw.OrganizationID(c))
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Bill found", toBillItem(bill)))
	}
}

// @Summary      Update bill
// @Description  Patches a bill; setting status to paid or cancelled stamps the matching timestamp.
// @Tags         Bills
// @Accept       json
// @Produce      json
// @Param        id path int true "Bill ID"
// @Param        request body billing.BillPatch true "Fields to update"
// @Success      200  {object}  handlers.RespBill
// @Router       /api/v1/bills/{id} [patch]
func ApiUpdateBill(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := billID(c)
		if !ok {
			return
		}
		var patch billing.BillPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, &response.APIError{Error: "Validation error", Message: err.Error()})
			return
		}
		bill, err := svc.Update(c.Request.Context(), id, mw.OrganizationID(c), &patch)
		if err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT(http.StatusOK, "Bill updated", toBillItem(bill)))
	}
}

// @Summary      Delete bill
// @Tags         Bills
// @Produce      json
// @Param        id path int true "Bill ID"
// @Success      200  {object}  handlers.RespOK
// @Router       /api/v1/bills/{id} [delete]
func ApiDeleteBill(svc *billing.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := billID(c)
		if !ok {
			return
		}
		if err := svc.Delete(c.Request.Context(), id, mw.OrganizationID(c)); err != nil {
			c.JSON(response.ErrorT(err))
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](http.StatusOK, "Bill deleted", nil))
	}
}

func billID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, &response.APIError{Error: "Invalid ID", Message: "Bill ID must be a number"})
		return 0, false
	}
	return id, true
}

func RegisterBillRoutes(r gin.IRouter, svc *billing.Service) {
	r.GET("/bills", ApiListBills(svc))
	r.GET("/bills/:id", ApiGetBill(svc))
	r.PATCH("/bills/:id", ApiUpdateBill(svc))
	r.DELETE("/bills/:id", ApiDeleteBill(svc))
}
