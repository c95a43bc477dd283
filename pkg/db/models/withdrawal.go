package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/slobi-app/slobi-backend/pkg/enums"
)

// Withdrawal records a transfer accepted by Paystack. Status is captured from
// the gateway's synchronous response; pending and otp rows still reserve the
// amount against the creator's balance.
type Withdrawal struct {
	ID            uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CreatorID     uuid.UUID              `gorm:"column:creator_id;type:uuid;not null;index"`
	AmountKobo    int64                  `gorm:"column:amount_kobo;not null"`
	RecipientCode string                 `gorm:"column:recipient_code;not null"`
	Reference     string                 `gorm:"column:reference;not null;uniqueIndex:idx_withdrawals_reference"`
	TransferCode  string                 `gorm:"column:transfer_code"`
	Status        enums.WithdrawalStatus `gorm:"column:status;not null"`
	FailureReason *string                `gorm:"column:failure_reason"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}
