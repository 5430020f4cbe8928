// Package bills runs the bill ingestion pipeline: store the original, normalize,
// extract, persist, count, and reconcile the buyer as a customer.
package bills

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/joseph-ayodele/billbook/constants"
	"github.com/joseph-ayodele/billbook/internal/common"
	"github.com/joseph-ayodele/billbook/internal/entity"
	"github.com/joseph-ayodele/billbook/internal/llm"
	"github.com/joseph-ayodele/billbook/internal/normalize"
	"github.com/joseph-ayodele/billbook/internal/repository"
	"github.com/joseph-ayodele/billbook/internal/storage"
)

// DocumentNormalizer prepares an uploaded document for extraction.
type DocumentNormalizer interface {
	Normalize(data []byte, kind constants.DocumentKind) (normalize.Payload, error)
}

type Deps struct {
	Users      repository.UserRepository
	Bills      repository.BillRepository
	Customers  repository.CustomerRepository
	Audit      repository.AuditRepository
	Blobs      storage.BlobStore
	Normalizer DocumentNormalizer
	Extractor  llm.Extractor
	Now        func() time.Time
}

// Service handles bill ingestion and bill maintenance.
type Service struct {
	users      repository.UserRepository
	bills      repository.BillRepository
	customers  repository.CustomerRepository
	audit      repository.AuditRepository
	blobs      storage.BlobStore
	normalizer DocumentNormalizer
	extractor  llm.Extractor
	now        func() time.Time
	logger     zerolog.Logger
}

func NewService(d Deps, logger zerolog.Logger) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{
		users:      d.Users,
		bills:      d.Bills,
		customers:  d.Customers,
		audit:      d.Audit,
		blobs:      d.Blobs,
		normalizer: d.Normalizer,
		extractor:  d.Extractor,
		now:        d.Now,
		logger:     logger.With().Str("component", "bills").Logger(),
	}
}

// IngestRequest is one uploaded document.
type IngestRequest struct {
	UserID      uuid.UUID
	Data        []byte
	Filename    string
	ContentType string
}

// Ingest stores, extracts and records a bill.
//
// Validation and quota failures return before any side effect. Once the
// original is stored, extraction problems never fail the call: the bill is
// saved with ocr_status "completed" and a zero confidence score instead.
func (s *Service) Ingest(ctx context.Context, req IngestRequest) (*entity.Bill, error) {
	start := s.now()
	log := s.logger.With().Str("user_id", req.UserID.String()).Str("file_name", req.Filename).Logger()
	log.Info().Str("content_type", req.ContentType).Int("bytes", len(req.Data)).Msg("bills.ingest.start")

	kind, ok := constants.KindForContentType(req.ContentType)
	if !ok {
		log.Warn().Str("content_type", req.ContentType).Msg("bills.ingest.unsupported_type")
		return nil, common.NewAppError("UNSUPPORTED_FORMAT", "Invalid file type. Only JPG, PNG, and PDF are allowed.", common.ErrUnsupportedFormat)
	}
	if len(req.Data) == 0 {
		return nil, common.ValidationFailed("file is empty")
	}

	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.SubscriptionPlan == constants.PlanFree && user.BillCount >= constants.FreePlanBillLimit {
		log.Info().Int("bill_count", user.BillCount).Msg("bills.ingest.quota_exceeded")
		return nil, common.NewAppError("QUOTA_EXCEEDED", "Free plan limit reached. Upgrade to Pro for unlimited uploads.", common.ErrQuotaExceeded)
	}

	// The original must be durable before the model is called.
	key := storage.NewKey(req.Filename)
	if err := s.blobs.Put(ctx, key, req.Data); err != nil {
		log.Error().Err(err).Str("key", key).Msg("bills.ingest.store_failed")
		return nil, common.NewAppError("STORAGE_ERROR", "failed to store upload", errors.Join(common.ErrInternal, err))
	}

	payload, err := s.normalizer.Normalize(req.Data, kind)
	if err != nil {
		// no bill will point at this blob
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			log.Warn().Err(derr).Str("key", key).Msg("bills.ingest.orphan_cleanup_failed")
		}
		return nil, err
	}

	outcome := s.extractor.Extract(ctx, payload)
	if outcome.IsDegraded() {
		log.Warn().Str("key", key).Str("reason", outcome.Reason).Msg("bills.ingest.extraction_degraded")
	}

	bill := &entity.Bill{
		UserID:        req.UserID,
		FileName:      req.Filename,
		FileType:      kind,
		StorageRef:    key,
		ContentType:   req.ContentType,
		UploadDate:    s.now().UTC(),
		OCRStatus:     constants.OCRStatusCompleted,
		ExtractedData: outcome.Data,
	}
	if err := s.bills.Create(ctx, bill); err != nil {
		// the blob stays behind; there is no compensating delete once extraction ran
		log.Error().Err(err).Str("key", key).Msg("bills.ingest.persist_failed")
		return nil, err
	}

	if err := s.users.IncrementBillCount(ctx, req.UserID, 1); err != nil {
		log.Error().Err(err).Str("bill_id", bill.ID.String()).Msg("bills.ingest.count_failed")
		return nil, err
	}

	if err := s.reconcileCustomer(ctx, req.UserID, bill.ExtractedData); err != nil {
		log.Error().Err(err).Str("bill_id", bill.ID.String()).Msg("bills.ingest.reconcile_failed")
		return nil, err
	}

	log.Info().
		Str("bill_id", bill.ID.String()).
		Str("extraction", string(outcome.Status)).
		Str("reason", outcome.Reason).
		Float64("confidence", bill.ExtractedData.ConfidenceScore).
		Int64("elapsed_ms", s.now().Sub(start).Milliseconds()).
		Msg("bills.ingest.ok")
	return bill, nil
}

// reconcileCustomer accrues the bill total on the buyer's customer record,
// creating it on first sight. Bills without a buyer name are skipped.
func (s *Service) reconcileCustomer(ctx context.Context, userID uuid.UUID, data *entity.ExtractedData) error {
	if data == nil || data.BuyerName == nil || strings.TrimSpace(*data.BuyerName) == "" {
		return nil
	}
	c, err := s.customers.Accrue(ctx, userID, *data.BuyerName, data.BuyerGSTIN, entity.Float(data.TotalAmount))
	if err != nil {
		return err
	}
	s.logger.Debug().
		Str("customer_id", c.ID.String()).
		Float64("total_purchases", c.TotalPurchases).
		Msg("bills.customer.accrued")
	return nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, page repository.Page) ([]*entity.Bill, error) {
	return s.bills.List(ctx, userID, page)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entity.Bill, error) {
	return s.bills.Get(ctx, userID, id)
}

// UpdateExtractedData is a manual correction: a full replace, recorded in the audit log.
// Customer totals are not re-derived.
func (s *Service) UpdateExtractedData(ctx context.Context, userID, id uuid.UUID, data *entity.ExtractedData) (*entity.Bill, error) {
	if data == nil {
		return nil, common.ValidationFailed("extracted data is required")
	}
	if data.ConfidenceScore < 0 || data.ConfidenceScore > 1 {
		return nil, common.ValidationFailed("confidence_score must be between 0 and 1")
	}
	if data.Products == nil {
		data.Products = []entity.LineItem{}
	}

	bill, err := s.bills.ReplaceExtractedData(ctx, userID, id, data)
	if err != nil {
		return nil, err
	}
	if err := s.audit.Record(ctx, userID, "update_bill", "bill", id, data); err != nil {
		s.logger.Warn().Err(err).Str("bill_id", id.String()).Msg("bills.update.audit_failed")
	}
	s.logger.Info().Str("user_id", userID.String()).Str("bill_id", id.String()).Msg("bills.update.ok")
	return bill, nil
}

// Delete removes the bill, then its stored original.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	bill, err := s.bills.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.blobs.Delete(ctx, bill.StorageRef); err != nil {
		s.logger.Warn().Err(err).Str("bill_id", id.String()).Str("key", bill.StorageRef).Msg("bills.delete.blob_failed")
	}
	s.logger.Info().Str("user_id", userID.String()).Str("bill_id", id.String()).Msg("bills.delete.ok")
	return nil
}

// OpenFile returns the stored original of an owned bill.
func (s *Service) OpenFile(ctx context.Context, userID, id uuid.UUID) (io.ReadCloser, *entity.Bill, error) {
	bill, err := s.bills.Get(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, bill.StorageRef)
	if err != nil {
		return nil, nil, err
	}
	return rc, bill, nil
}
