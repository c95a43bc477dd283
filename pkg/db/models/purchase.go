package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/pkg/enums"
)

// Purchase is the ledger record of a verified payment. PaystackReference is
// unique: the index is what makes callback handling idempotent under
// at-least-once delivery. Rows are never updated or deleted.
type Purchase struct {
	ID                uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID         uuid.UUID            `gorm:"column:creator_id;type:uuid;not null;index"`
	ProductID         uuid.UUID            `gorm:"column:product_id;type:uuid;not null;index"`
	ProductName       string               `gorm:"column:product_name;not null"`
	CustomerEmail     string               `gorm:"column:customer_email;not null"`
	PaystackReference string               `gorm:"column:paystack_reference;not null;uniqueIndex:idx_purchases_reference"`
	AmountKobo        int64                `gorm:"column:amount_kobo;not null"`
	Status            enums.PurchaseStatus `gorm:"column:status;not null"`
	CreatedAt         time.Time            `gorm:"column:created_at;autoCreateTime"`
}
