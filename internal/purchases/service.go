package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
)

// Service exposes a creator's transaction history.
type Service interface {
	ListPurchases(ctx context.Context, creatorID uuid.UUID) ([]PurchaseDTO, error)
	GetPurchaseByReference(ctx context.Context, creatorID uuid.UUID, reference string) (*PurchaseDTO, error)
}

// PurchaseDTO is the transaction-history payload returned to clients.
type PurchaseDTO struct {
	ID                uuid.UUID `json:"id"`
	ProductID         uuid.UUID `json:"product_id"`
	ProductName       string    `json:"product_name"`
	CustomerEmail     string    `json:"customer_email"`
	PaystackReference string    `json:"paystack_reference"`
	AmountKobo        int64     `json:"amount_kobo"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}

// NewPurchaseDTO builds a DTO from the persisted ledger row.
func NewPurchaseDTO(purchase *models.Purchase) *PurchaseDTO {
	return &PurchaseDTO{
		ID:                purchase.ID,
		ProductID:         purchase.ProductID,
		ProductName:       purchase.ProductName,
		CustomerEmail:     purchase.CustomerEmail,
		PaystackReference: purchase.PaystackReference,
		AmountKobo:        purchase.AmountKobo,
		Status:            string(purchase.Status),
		CreatedAt:         purchase.CreatedAt,
	}
}

type service struct {
	repo *Repository
}

// NewService constructs a purchases service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchases repository required")
	}
	return &service{repo: repo}, nil
}

// ListPurchases returns the creator's purchases, newest first.
func (s *service) ListPurchases(ctx context.Context, creatorID uuid.UUID) ([]PurchaseDTO, error) {
	rows, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list purchases")
	}
	dtos := make([]PurchaseDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewPurchaseDTO(&rows[i])
	}
	return dtos, nil
}

// GetPurchaseByReference loads a single ledger row, scoped to the creator so
// references cannot be probed across accounts.
func (s *service) GetPurchaseByReference(ctx context.Context, creatorID uuid.UUID, reference string) (*PurchaseDTO, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reference is required")
	}

	purchase, err := s.repo.FindByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load purchase")
	}
	if purchase.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
	}
	return NewPurchaseDTO(purchase), nil
}
