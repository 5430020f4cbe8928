// Package server exposes the billing API over HTTP with gin.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/internal/auth"
	"github.com/joseph-ayodele/billbook/internal/bills"
	"github.com/joseph-ayodele/billbook/internal/customers"
	"github.com/joseph-ayodele/billbook/internal/invoices"
	"github.com/joseph-ayodele/billbook/internal/ledger"
	"github.com/joseph-ayodele/billbook/internal/payments"
	"github.com/joseph-ayodele/billbook/internal/products"
	"github.com/joseph-ayodele/billbook/internal/profiles"
)

// Services are the domain services the handlers call.
type Services struct {
	Auth      *auth.Service
	Bills     *bills.Service
	Ledger    *ledger.Aggregator
	Invoices  *invoices.Issuer
	Customers *customers.Service
	Products  *products.Service
	Profiles  *profiles.Service
	Payments  *payments.Service
	// Ping checks the database for /healthz.
	Ping func(ctx context.Context) error
}

type Options struct {
	MaxUploadBytes int64
	SecureCookie   bool
}

type API struct {
	svc    Services
	opts   Options
	logger zerolog.Logger
}

// NewRouter wires every route onto a fresh gin engine.
func NewRouter(svc Services, opts Options, logger zerolog.Logger) *gin.Engine {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 20 << 20
	}
	a := &API{svc: svc, opts: opts, logger: logger.With().Str("component", "http").Logger()}

	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadBytes
	r.Use(requestID(), accessLog(a.logger), recovery(a.logger))
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	r.GET("/healthz", a.healthz)

	api := r.Group("/api", a.authenticate())
	{
		api.GET("/auth/me", a.me)
		api.POST("/auth/logout", a.logout)
		api.PUT("/auth/profile", a.updateProfile)
		api.POST("/auth/logo", a.uploadLogo)
		api.GET("/auth/logo", a.logo)

		api.POST("/bills/upload", a.uploadBill)
		api.GET("/bills", a.listBills)
		api.GET("/bills/:id", a.getBill)
		api.PUT("/bills/:id", a.updateBill)
		api.DELETE("/bills/:id", a.deleteBill)
		api.GET("/bills/:id/file", a.billFile)

		api.GET("/customers", a.listCustomers)
		api.POST("/customers", a.createCustomer)
		api.GET("/customers/:id", a.getCustomer)
		api.PUT("/customers/:id", a.updateCustomer)
		api.DELETE("/customers/:id", a.deleteCustomer)

		api.GET("/products", a.listProducts)
		api.POST("/products", a.createProduct)
		api.GET("/products/:id", a.getProduct)
		api.PUT("/products/:id", a.updateProduct)
		api.DELETE("/products/:id", a.deleteProduct)

		api.POST("/invoices", a.issueInvoice)
		api.GET("/invoices", a.listInvoices)
		api.GET("/invoices/:id", a.getInvoice)

		api.GET("/ledger", a.ledger)
		api.GET("/ledger/export", a.exportLedger)
		api.GET("/dashboard/stats", a.dashboard)

		api.POST("/payments/orders", a.createOrder)
	}
	return r
}

func (a *API) healthz(c *gin.Context) {
	if a.svc.Ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := a.svc.Ping(ctx); err != nil {
			a.logger.Warn().Err(err).Msg("http.healthz.db_down")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
}

// HTTPServer wraps the router with the configured timeouts.
func HTTPServer(addr string, handler http.Handler, read, write time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       read,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      write,
	}
}
