package models

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/pkg/enums"
)

// Product is a digital item listed on a creator's storefront. PriceKobo is
// immutable after creation; only the discount percentage may change. Rows are
// soft-deleted so historical purchases keep a valid reference.
type Product struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID          uuid.UUID          `gorm:"column:creator_id;type:uuid;not null;index"`
	Name               string             `gorm:"column:name;not null"`
	Description        *string            `gorm:"column:description"`
	PriceKobo          int64              `gorm:"column:price_kobo;not null"`
	DiscountPercentage *int               `gorm:"column:discount_percentage"`
	DeliveryKind       enums.DeliveryKind `gorm:"column:delivery_kind;not null;default:'file'"`
	FileKey            *string            `gorm:"column:file_key"`
	ContentURL         *string            `gorm:"column:content_url"`
	DeliveryNote       *string            `gorm:"column:delivery_note"`
	Position           int                `gorm:"column:position;not null;default:0"`
	IsDeleted          bool               `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePriceKobo is the amount a buyer is charged. A discount applies
// only when it is strictly between 0 and 100; anything else falls back to
// the base price.
func (p *Product) EffectivePriceKobo() int64 {
	if p.DiscountPercentage == nil {
		return p.PriceKobo
	}
	d := *p.DiscountPercentage
	if d <= 0 || d >= 100 {
		return p.PriceKobo
	}
	return int64(math.Round(float64(p.PriceKobo) * (1 - float64(d)/100)))
}
