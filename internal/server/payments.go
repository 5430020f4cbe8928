package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/constants"
)

type createOrderRequest struct {
	Plan   constants.Plan          `json:"plan" binding:"required"`
	Period constants.BillingPeriod `json:"period"`
}

func (a *API) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	if req.Period == "" {
		req.Period = constants.PeriodMonthly
	}
	out, err := a.svc.Payments.CreateOrder(c.Request.Context(), currentUser(c).ID, req.Plan, req.Period)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
