package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/joseph-ayodele/billbook/internal/customers"
	"github.com/joseph-ayodele/billbook/internal/products"
)

func (a *API) listCustomers(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Customers.List(c.Request.Context(), currentUser(c).ID, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) createCustomer(c *gin.Context) {
	var req customers.Request
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Customers.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getCustomer(c *gin.Context) {
	id, err := pathID(c, "customer")
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Customers.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) updateCustomer(c *gin.Context) {
	id, err := pathID(c, "customer")
	if err != nil {
		a.fail(c, err)
		return
	}
	var req customers.Request
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Customers.Update(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) deleteCustomer(c *gin.Context) {
	id, err := pathID(c, "customer")
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.svc.Customers.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}

func (a *API) listProducts(c *gin.Context) {
	p, err := page(c)
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Products.List(c.Request.Context(), currentUser(c).ID, p)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) createProduct(c *gin.Context) {
	var req products.Request
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Products.Create(c.Request.Context(), currentUser(c).ID, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) getProduct(c *gin.Context) {
	id, err := pathID(c, "product")
	if err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Products.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) updateProduct(c *gin.Context) {
	id, err := pathID(c, "product")
	if err != nil {
		a.fail(c, err)
		return
	}
	var req products.Request
	if err := bindJSON(c, &req); err != nil {
		a.fail(c, err)
		return
	}
	out, err := a.svc.Products.Update(c.Request.Context(), currentUser(c).ID, id, req)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (a *API) deleteProduct(c *gin.Context) {
	id, err := pathID(c, "product")
	if err != nil {
		a.fail(c, err)
		return
	}
	if err := a.svc.Products.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
