package models

import (
	"time"

	"github.com/google/uuid"
)

// BankAccount is a creator's payout destination. At most one exists per
// creator and re-linking overwrites the row wholesale. RecipientCode is the
// opaque transfer-recipient handle issued by Paystack.
type BankAccount struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID     uuid.UUID `gorm:"column:creator_id;type:uuid;not null;uniqueIndex:idx_bank_accounts_creator"`
	BankName      string    `gorm:"column:bank_name;not null"`
	BankCode      string    `gorm:"column:bank_code;not null"`
	AccountNumber string    `gorm:"column:account_number;not null"`
	AccountName   string    `gorm:"column:account_name;not null"`
	RecipientCode string    `gorm:"column:recipient_code;not null"`
	Currency      string    `gorm:"column:currency;not null;default:'NGN'"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
