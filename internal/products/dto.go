package product

import (
	"time"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
)

// ProductDTO represents the product payload returned to clients. PriceKobo is
// the listed price; EffectivePriceKobo is what checkout charges after the
// discount, if any.
type ProductDTO struct {
	ID                 uuid.UUID `json:"id"`
	CreatorID          uuid.UUID `json:"creator_id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description,omitempty"`
	PriceKobo          int64     `json:"price_kobo"`
	DiscountPercentage *int      `json:"discount_percentage,omitempty"`
	EffectivePriceKobo int64     `json:"effective_price_kobo"`
	DeliveryKind       string    `json:"delivery_kind"`
	FileKey            *string   `json:"file_key,omitempty"`
	ContentURL         *string   `json:"content_url,omitempty"`
	DeliveryNote       *string   `json:"delivery_note,omitempty"`
	Position           int       `json:"position"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	return &ProductDTO{
		ID:                 product.ID,
		CreatorID:          product.CreatorID,
		Name:               product.Name,
		Description:        product.Description,
		PriceKobo:          product.PriceKobo,
		DiscountPercentage: product.DiscountPercentage,
		EffectivePriceKobo: product.EffectivePriceKobo(),
		DeliveryKind:       string(product.DeliveryKind),
		FileKey:            product.FileKey,
		ContentURL:         product.ContentURL,
		DeliveryNote:       product.DeliveryNote,
		Position:           product.Position,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}
