package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/internal/bills"
	"github.com/joseph-ayodele/billbook/internal/entity"
)

func (a *API) uploadBill(c *gin.Context) {
	u := currentUser(c)
	up, err := a.readUpload(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	bill, err := a.svc.Bills.Ingest(c.Request.Context(), bills.IngestRequest{
		UserID:      u.ID,
		Data:        up.data,
		Filename:    up.filename,
		ContentType: up.contentType,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (a *API) listBills(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Bills.List(c.Request.Context(), currentUser(c).ID, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getBill(c *gin.Context) {
	id, err := pathID(c, "bill")
	if err != nil {
		a.fail(c, err)
		return
	}
	bill, err := a.svc.Bills.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

type updateBillRequest struct {
	ExtractedData *entity.ExtractedData `json:"extracted_data"`
}

func (a *API) updateBill(c *gin.Context) {
	id, err := pathID(c, "bill")
	if err != nil {
		a.fail(c, err)
		return
	}
	var req updateBillRequest
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	bill, err := a.svc.Bills.UpdateExtractedData(c.Request.Context(), currentUser(c).ID, id, req.ExtractedData)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}

func (a *API) deleteBill(c *gin.Context) {
	id, err := pathID(c, "bill")
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.svc.Bills.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Bill deleted successfully"})
}

func (a *API) billFile(c *gin.Context) {
	id, err := pathID(c, "bill")
	if err != nil {
		a.fail(c, err)
		return
	}
	rc, bill, err := a.svc.Bills.OpenFile(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, -1, bill.ContentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", bill.FileName),
	})
}
