package finance

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
)

// Repository wires payout persistence over GORM: the bank account row, the
// withdrawal ledger, and the balance aggregations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// EarnedKobo sums the creator's successful purchases.
func (r *Repository) EarnedKobo(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Purchase{}).
		Where("creator_id = ? AND status = ?", creatorID, enums.PurchaseStatusSuccess).
		Select("COALESCE(SUM(amount_kobo), 0)").
		Scan(&total).
		Error
	return total, err
}

// ReservedKobo sums the creator's withdrawals that hold funds: success plus
// the in-flight pending and otp states. Failed and reversed transfers do not
// reserve anything.
func (r *Repository) ReservedKobo(ctx context.Context, creatorID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Withdrawal{}).
		Where("creator_id = ? AND status IN ?", creatorID, enums.ReservingWithdrawalStatuses).
		Select("COALESCE(SUM(amount_kobo), 0)").
		Scan(&total).
		Error
	return total, err
}

// FindBankAccount loads the creator's payout destination.
func (r *Repository) FindBankAccount(ctx context.Context, creatorID uuid.UUID) (*models.BankAccount, error) {
	var account models.BankAccount
	if err := r.db.WithContext(ctx).
		First(&account, "creator_id = ?", creatorID).
		Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// UpsertBankAccount replaces the creator's payout destination wholesale.
// Re-linking a bank account overwrites every column, including the
// transfer-recipient handle.
func (r *Repository) UpsertBankAccount(ctx context.Context, account *models.BankAccount) (*models.BankAccount, error) {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "creator_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"bank_name", "bank_code", "account_number", "account_name",
				"recipient_code", "currency", "updated_at",
			}),
		}).
		Create(account).
		Error
	if err != nil {
		return nil, err
	}
	var saved models.BankAccount
	if err := r.db.WithContext(ctx).
		First(&saved, "creator_id = ?", account.CreatorID).
		Error; err != nil {
		return nil, err
	}
	return &saved, nil
}

// InsertWithdrawal appends the withdrawal row recorded from the gateway's
// synchronous transfer response.
func (r *Repository) InsertWithdrawal(ctx context.Context, withdrawal *models.Withdrawal) (*models.Withdrawal, error) {
	if err := r.db.WithContext(ctx).Create(withdrawal).Error; err != nil {
		return nil, err
	}
	return withdrawal, nil
}

// ListWithdrawals returns the creator's withdrawals, newest first.
func (r *Repository) ListWithdrawals(ctx context.Context, creatorID uuid.UUID) ([]models.Withdrawal, error) {
	var rows []models.Withdrawal
	if err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return rows, nil
}
