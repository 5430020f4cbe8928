package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/billbook/internal/auth"
	"github.com/joseph-ayodele/billbook/internal/bills"
	"github.com/joseph-ayodele/billbook/internal/customers"
	"github.com/joseph-ayodele/billbook/internal/invoices"
	"github.com/joseph-ayodele/billbook/internal/ledger"
	"github.com/joseph-ayodele/billbook/internal/llm"
	"github.com/joseph-ayodele/billbook/internal/llm/openai"
	"github.com/joseph-ayodele/billbook/internal/logger"
	"github.com/joseph-ayodele/billbook/internal/normalize"
	"github.com/joseph-ayodele/billbook/internal/payments"
	"github.com/joseph-ayodele/billbook/internal/products"
	"github.com/joseph-ayodele/billbook/internal/profiles"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/server"
	"github.com/joseph-ayodele/billbook/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the admin gRPC health server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	log := logger.WithComponent("serve")
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, pool, err := server.ConnectDB(ctx, cfg.Database, logger.WithComponent("database"))
	if err != nil {
		return err
	}
	defer server.CloseDB(db, pool, log)

	if err := server.PingDB(ctx, db, pool, log, 3*time.Second); err != nil {
		return err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		return err
	}

	base := logger.GetLogger()
	blobs, err := storage.NewFSStore(cfg.Storage.UploadsDir, base)
	if err != nil {
		return err
	}
	provider := openai.NewProvider(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, base)
	extractor, err := llm.NewClient(provider, cfg.LLM.Timeout, base)
	if err != nil {
		return err
	}

	users := repository.NewUserRepository(db, base)
	billRepo := repository.NewBillRepository(db, base)
	customerRepo := repository.NewCustomerRepository(db, base)
	authSvc := auth.NewService(users, repository.NewSessionRepository(db, base), cfg.Auth.SessionTTL, base)
	if _, err := authSvc.PurgeExpired(ctx); err != nil {
		log.Warn().Err(err).Msg("failed to purge expired sessions")
	}

	gin.SetMode(gin.ReleaseMode)
	router := server.NewRouter(server.Services{
		Auth: authSvc,
		Bills: bills.NewService(bills.Deps{
			Users:      users,
			Bills:      billRepo,
			Customers:  customerRepo,
			Audit:      repository.NewAuditRepository(db, base),
			Blobs:      blobs,
			Normalizer: normalize.New(normalize.Options{}, base),
			Extractor:  extractor,
		}, base),
		Ledger:    ledger.NewAggregator(billRepo, customerRepo, nil, base),
		Invoices:  invoices.NewIssuer(repository.NewInvoiceRepository(db, base), customerRepo, base),
		Customers: customers.NewService(customerRepo, base),
		Products:  products.NewService(repository.NewProductRepository(db, base), base),
		Profiles:  profiles.NewService(users, blobs, base),
		Payments: payments.NewService(payments.NewRazorpay(payments.RazorpayConfig{
			KeyID:     cfg.Payments.RazorpayKeyID,
			KeySecret: cfg.Payments.RazorpayKeySecret,
			BaseURL:   cfg.Payments.RazorpayBaseURL,
			Timeout:   cfg.Payments.Timeout,
		}, base), repository.NewTransactionRepository(db, base), cfg.Payments.RazorpayKeyID, base),
		Ping: func(ctx context.Context) error {
			return repository.HealthCheck(ctx, db, pool, 2*time.Second, base)
		},
	}, server.Options{
		MaxUploadBytes: int64(cfg.Server.MaxUploadMB) << 20,
		SecureCookie:   cfg.Auth.SecureCookie,
	}, base)

	// Admin gRPC: health + reflection for grpcurl
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Server.AdminGRPCAddr)
	if err != nil {
		return err
	}
	httpSrv := server.HTTPServer(cfg.Server.HTTPAddr, router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", cfg.Server.AdminGRPCAddr).Msg("admin gRPC serving")
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("HTTP serving")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err = <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	log.Info().Msg("shutting down...")
	hs.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		log.Error().Err(serr).Msg("http shutdown")
	}
	grpcServer.GracefulStop()
	log.Info().Msg("stopped")
	return err
}
