package creators

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
)

// ProductLister returns a creator's live products in display order.
type ProductLister interface {
	ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Product, error)
}

// Service exposes the public storefront read path.
type Service interface {
	GetStorefront(ctx context.Context, slug string) (*StorefrontDTO, error)
}

// StorefrontDTO is the public page payload: the creator's profile and their
// purchasable products. Delivery payloads (file keys, download links) are
// withheld until a purchase is verified.
type StorefrontDTO struct {
	Slug     string                 `json:"slug"`
	Title    *string                `json:"title,omitempty"`
	Bio      *string                `json:"bio,omitempty"`
	Products []StorefrontProductDTO `json:"products"`
}

// StorefrontProductDTO is the buyer-facing slice of a product.
type StorefrontProductDTO struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	PriceKobo          int64     `json:"price_kobo"`
	DiscountPercentage *int      `json:"discount_percentage,omitempty"`
	EffectivePriceKobo int64     `json:"effective_price_kobo"`
	DeliveryKind       string    `json:"delivery_kind"`
	Position           int       `json:"position"`
}

type service struct {
	repo     *Repository
	products ProductLister
}

// NewService constructs a creators service instance.
func NewService(repo *Repository, products ProductLister) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("creators repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	return &service{repo: repo, products: products}, nil
}

// GetStorefront resolves the public page for a slug.
func (s *service) GetStorefront(ctx context.Context, slug string) (*StorefrontDTO, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}

	creator, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "page not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load creator")
	}

	rows, err := s.products.ListByCreator(ctx, creator.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	dto := &StorefrontDTO{
		Slug:     creator.Slug,
		Title:    creator.Title,
		Bio:      creator.Bio,
		Products: make([]StorefrontProductDTO, len(rows)),
	}
	for i := range rows {
		dto.Products[i] = StorefrontProductDTO{
			ID:                 rows[i].ID,
			Name:               rows[i].Name,
			Description:        rows[i].Description,
			PriceKobo:          rows[i].PriceKobo,
			DiscountPercentage: rows[i].DiscountPercentage,
			EffectivePriceKobo: rows[i].EffectivePriceKobo(),
			DeliveryKind:       string(rows[i].DeliveryKind),
			Position:           rows[i].Position,
		}
	}
	return dto, nil
}
