package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
)

// Service exposes creator product management operations.
type Service interface {
	CreateProduct(ctx context.Context, creatorID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, creatorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	EndDiscount(ctx context.Context, creatorID, productID uuid.UUID) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, creatorID, productID uuid.UUID) error
	GetProduct(ctx context.Context, creatorID, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, creatorID uuid.UUID) ([]ProductDTO, error)
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name               string
	Description        *string
	PriceKobo          int64
	DiscountPercentage *int
	DeliveryKind       enums.DeliveryKind
	FileKey            *string
	ContentURL         *string
	DeliveryNote       *string
}

// UpdateProductInput holds optional mutation values. The price is immutable
// after creation, so no price field exists here.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	DiscountPercentage *int
	DeliveryKind       *enums.DeliveryKind
	FileKey            *string
	ContentURL         *string
	DeliveryNote       *string
	Position           *int
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// CreateProduct validates and persists a new listing at the end of the
// creator's page.
func (s *service) CreateProduct(ctx context.Context, creatorID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.PriceKobo <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a positive amount in kobo")
	}
	if err := validateDiscount(input.DiscountPercentage); err != nil {
		return nil, err
	}
	if err := validateDeliverable(input.DeliveryKind, input.FileKey, input.ContentURL, input.DeliveryNote); err != nil {
		return nil, err
	}

	position, err := s.repo.NextPosition(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "compute product position")
	}

	product := &models.Product{
		ID:                 uuid.New(),
		CreatorID:          creatorID,
		Name:               name,
		Description:        input.Description,
		PriceKobo:          input.PriceKobo,
		DiscountPercentage: input.DiscountPercentage,
		DeliveryKind:       input.DeliveryKind,
		FileKey:            input.FileKey,
		ContentURL:         input.ContentURL,
		DeliveryNote:       input.DeliveryNote,
		Position:           position,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
	}
	return NewProductDTO(created), nil
}

// UpdateProduct mutates the listing. The base price never changes; a new
// price means a new product.
func (s *service) UpdateProduct(ctx context.Context, creatorID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, creatorID, productID)
	if err != nil {
		return nil, err
	}

	if input.DiscountPercentage != nil {
		if err := validateDiscount(input.DiscountPercentage); err != nil {
			return nil, err
		}
	}

	applyUpdateToProduct(product, input)

	if err := validateDeliverable(product.DeliveryKind, product.FileKey, product.ContentURL, product.DeliveryNote); err != nil {
		return nil, err
	}

	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
	}
	return NewProductDTO(saved), nil
}

// EndDiscount clears the discount so checkout charges the base price again.
func (s *service) EndDiscount(ctx context.Context, creatorID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, creatorID, productID)
	if err != nil {
		return nil, err
	}

	product.DiscountPercentage = nil
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "end discount")
	}
	return NewProductDTO(saved), nil
}

// DeleteProduct soft-deletes the listing so historical purchases keep a
// valid product reference.
func (s *service) DeleteProduct(ctx context.Context, creatorID, productID uuid.UUID) error {
	if _, err := s.loadOwned(ctx, creatorID, productID); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	return nil
}

// GetProduct returns the creator's own listing.
func (s *service) GetProduct(ctx context.Context, creatorID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, creatorID, productID)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

// ListProducts returns the creator's live listings in display order.
func (s *service) ListProducts(ctx context.Context, creatorID uuid.UUID) ([]ProductDTO, error) {
	rows, err := s.repo.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	dtos := make([]ProductDTO, len(rows))
	for i := range rows {
		dtos[i] = *NewProductDTO(&rows[i])
	}
	return dtos, nil
}

// loadOwned resolves the live product and hides other creators' products
// behind not-found.
func (s *service) loadOwned(ctx context.Context, creatorID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindActiveByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	if product.CreatorID != creatorID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.DiscountPercentage != nil {
		product.DiscountPercentage = input.DiscountPercentage
	}
	if input.DeliveryKind != nil {
		product.DeliveryKind = *input.DeliveryKind
	}
	if input.FileKey != nil {
		product.FileKey = input.FileKey
	}
	if input.ContentURL != nil {
		product.ContentURL = input.ContentURL
	}
	if input.DeliveryNote != nil {
		product.DeliveryNote = input.DeliveryNote
	}
	if input.Position != nil {
		product.Position = *input.Position
	}
}

func validateDiscount(discount *int) error {
	if discount == nil {
		return nil
	}
	if *discount <= 0 || *discount >= 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_percentage must be between 1 and 99")
	}
	return nil
}

func validateDeliverable(kind enums.DeliveryKind, fileKey, contentURL, deliveryNote *string) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown delivery kind %q", kind))
	}
	switch kind {
	case enums.DeliveryKindFile:
		if !hasValue(fileKey) && !hasValue(contentURL) {
			return pkgerrors.New(pkgerrors.CodeValidation, "file products need a file_key or content_url")
		}
	case enums.DeliveryKindLink:
		if !hasValue(contentURL) {
			return pkgerrors.New(pkgerrors.CodeValidation, "link products need a content_url")
		}
	case enums.DeliveryKindService:
		if !hasValue(deliveryNote) {
			return pkgerrors.New(pkgerrors.CodeValidation, "service products need a delivery_note")
		}
	}
	return nil
}

func hasValue(value *string) bool {
	return value != nil && strings.TrimSpace(*value) != ""
}
