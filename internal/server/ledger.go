package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/internal/invoices"
	"github.com/joseph-ayodele/billbook/internal/ledger"
)

func ledgerFilters(c *gin.Context) (ledger.Filters, error) {
	var f ledger.Filters
	var err error
	if f.From, err = dateQuery(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = dateQuery(c, "to"); err != nil {
		return f, err
	}
	f.Customer = c.Query("customer")
	return f, nil
}

func (a *API) ledger(c *gin.Context) {
	f, err := ledgerFilters(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	rows, err := a.svc.Ledger.Ledger(c.Request.Context(), currentUser(c).ID, f)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (a *API) exportLedger(c *gin.Context) {
	f, err := ledgerFilters(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Ledger.Export(c.Request.Context(), currentUser(c).ID, c.DefaultQuery("format", ledger.FormatXLSX), f)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

func (a *API) dashboard(c *gin.Context) {
	stats, err := a.svc.Ledger.DashboardStats(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *API) issueInvoice(c *gin.Context) {
	var req invoices.IssueRequest
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	inv, err := a.svc.Invoices.Issue(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (a *API) listInvoices(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Invoices.List(c.Request.Context(), currentUser(c).ID, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getInvoice(c *gin.Context) {
	id, err := pathID(c, "invoice")
	if err != nil {
		a.fail(c, err)
		return
	}
	inv, err := a.svc.Invoices.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
