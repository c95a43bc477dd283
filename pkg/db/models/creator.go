package models

import (
	"time"

	"github.com/google/uuid"
)

// Creator is the account that owns a public page, products, and payout state.
// The Subject column carries the identity provider's stable user identifier;
// authentication itself happens outside this service.
type Creator struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Subject   string    `gorm:"column:subject;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	Title     *string   `gorm:"column:title"`
	Bio       *string   `gorm:"column:bio"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
