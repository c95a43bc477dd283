package callback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/internal/checkout"
	"github.com/slobi-app/slobi-backend/internal/notifications"
	"github.com/slobi-app/slobi-backend/internal/purchases"
	"github.com/slobi-app/slobi-backend/pkg/db"
	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/metrics"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
)

// Verifier is the slice of the Paystack client callback handling needs.
type Verifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*paystack.Transaction, error)
}

// ProductReader loads products for receipt deliverables. Soft-deleted
// products still resolve here: a purchase that raced a deletion must still
// deliver.
type ProductReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service turns a verified gateway reference into a ledger row exactly once.
type Service interface {
	HandleCallback(ctx context.Context, reference string) (*ResultDTO, error)
}

// ResultDTO reports the recorded purchase. AlreadyProcessed marks replays:
// the reference had been recorded by an earlier delivery and the stored row
// is returned unchanged.
type ResultDTO struct {
	Purchase         purchases.PurchaseDTO `json:"purchase"`
	AlreadyProcessed bool                  `json:"already_processed"`
}

// ServiceParams collects the service dependencies. Guard and Metrics are
// optional; everything else is required.
type ServiceParams struct {
	Purchases  *purchases.Repository
	Products   ProductReader
	Verifier   Verifier
	Guard      *Guard
	Dispatcher notifications.Dispatcher
	Logger     *logger.Logger
	Metrics    *metrics.PaymentMetrics
}

type service struct {
	purchases  *purchases.Repository
	products   ProductReader
	verifier   Verifier
	guard      *Guard
	dispatcher notifications.Dispatcher
	logg       *logger.Logger
	metrics    *metrics.PaymentMetrics
}

// NewService constructs a callback service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Purchases == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Verifier == nil {
		return nil, fmt.Errorf("transaction verifier required")
	}
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("receipt dispatcher required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		purchases:  params.Purchases,
		products:   params.Products,
		verifier:   params.Verifier,
		guard:      params.Guard,
		dispatcher: params.Dispatcher,
		logg:       params.Logger,
		metrics:    params.Metrics,
	}, nil
}

// HandleCallback verifies the reference with the gateway and records the
// purchase. The flow is idempotent: replays and concurrent deliveries of the
// same reference converge on the single stored row.
func (s *service) HandleCallback(ctx context.Context, reference string) (*ResultDTO, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}
	ctx = s.logg.WithReference(ctx, reference)

	// Cheap replay path before touching the gateway.
	if existing, err := s.purchases.FindByReference(ctx, reference); err == nil {
		s.logg.Info(ctx, "callback replayed, returning recorded purchase")
		return &ResultDTO{Purchase: *purchases.NewPurchaseDTO(existing), AlreadyProcessed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load purchase")
	}

	if !s.guard.Claim(ctx, reference) {
		// Another handler holds the claim. If it already finished, return
		// its row; otherwise fall through and let the unique index decide.
		if existing, err := s.purchases.FindByReference(ctx, reference); err == nil {
			return &ResultDTO{Purchase: *purchases.NewPurchaseDTO(existing), AlreadyProcessed: true}, nil
		}
	}

	txn, err := s.verifier.VerifyTransaction(ctx, reference)
	if err != nil {
		s.guard.Release(ctx, reference)
		var reqErr *paystack.RequestError
		if errors.As(err, &reqErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, reqErr.Message)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify transaction")
	}

	if txn.Status != string(enums.PurchaseStatusSuccess) {
		s.guard.Release(ctx, reference)
		s.logg.Warn(ctx, fmt.Sprintf("rejected callback for %s transaction", txn.Status))
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("payment not successful (status: %s)", txn.Status))
	}

	metadata, err := checkout.ParseMetadata(txn.Metadata)
	if err != nil {
		s.guard.Release(ctx, reference)
		s.logg.Error(ctx, "verified transaction carries unusable metadata", err)
		return nil, err
	}

	productID, creatorID, err := parseMetadataIDs(metadata)
	if err != nil {
		s.guard.Release(ctx, reference)
		s.logg.Error(ctx, "verified transaction carries unusable metadata", err)
		return nil, err
	}

	purchase := &models.Purchase{
		ID:                uuid.New(),
		CreatorID:         creatorID,
		ProductID:         productID,
		ProductName:       metadata.ProductName,
		CustomerEmail:     txn.Customer.Email,
		PaystackReference: reference,
		AmountKobo:        txn.AmountKobo,
		Status:            enums.PurchaseStatusSuccess,
	}

	inserted, err := s.purchases.Insert(ctx, purchase)
	if err != nil {
		if db.IsUniqueViolation(err, "idx_purchases_reference") {
			// Lost the race with a concurrent delivery; the winner's row is
			// the purchase.
			winner, readErr := s.purchases.FindByReference(ctx, reference)
			if readErr != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, readErr, "load winning purchase")
			}
			return &ResultDTO{Purchase: *purchases.NewPurchaseDTO(winner), AlreadyProcessed: true}, nil
		}
		s.guard.Release(ctx, reference)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record purchase")
	}

	s.metrics.IncPurchaseRecorded(string(enums.PurchaseStatusSuccess))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"creator_id":  creatorID.String(),
		"product_id":  productID.String(),
		"amount_kobo": txn.AmountKobo,
	}), "purchase recorded")

	s.dispatchReceipt(ctx, inserted)

	return &ResultDTO{Purchase: *purchases.NewPurchaseDTO(inserted)}, nil
}

// dispatchReceipt sends the buyer their deliverable. Failures are logged and
// swallowed: the purchase is already recorded.
func (s *service) dispatchReceipt(ctx context.Context, purchase *models.Purchase) {
	receipt := notifications.Receipt{
		RecipientEmail: purchase.CustomerEmail,
		ProductName:    purchase.ProductName,
	}
	product, err := s.products.FindByID(ctx, purchase.ProductID)
	if err != nil {
		s.logg.Warn(ctx, "receipt sent without deliverable, product lookup failed")
	} else {
		receipt.DownloadURL = product.ContentURL
		receipt.DeliveryNote = product.DeliveryNote
	}

	go func(ctx context.Context) {
		if err := s.dispatcher.SendReceipt(ctx, receipt); err != nil {
			s.logg.Error(ctx, "receipt dispatch failed", err)
		}
	}(context.WithoutCancel(ctx))
}

func parseMetadataIDs(metadata *checkout.Metadata) (productID, creatorID uuid.UUID, err error) {
	productID, err = uuid.Parse(metadata.ProductID)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing product information in transaction metadata")
	}
	creatorID, err = uuid.Parse(metadata.CreatorID)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "missing product information in transaction metadata")
	}
	return productID, creatorID, nil
}
