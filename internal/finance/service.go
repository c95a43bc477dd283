package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/metrics"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
)

// Gateway is the slice of the Paystack client the payout flows need.
type Gateway interface {
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
	ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*paystack.ResolvedAccount, error)
	CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error)
	InitiateTransfer(ctx context.Context, amountKobo int64, recipientCode, reason string) (*paystack.Transfer, error)
}

// Service exposes balance, bank account, and withdrawal operations.
type Service interface {
	GetBalance(ctx context.Context, creatorID uuid.UUID) (*BalanceDTO, error)
	GetBankAccount(ctx context.Context, creatorID uuid.UUID) (*BankAccountDTO, error)
	SetupBankAccount(ctx context.Context, creatorID uuid.UUID, input SetupBankAccountInput) (*BankAccountDTO, error)
	RequestWithdrawal(ctx context.Context, creatorID uuid.UUID, amountKobo int64) (*WithdrawalDTO, error)
	ListWithdrawals(ctx context.Context, creatorID uuid.UUID) ([]WithdrawalDTO, error)
	ListBanks(ctx context.Context) ([]paystack.Bank, error)
	ResolveAccount(ctx context.Context, input ResolveAccountInput) (*ResolvedAccountDTO, error)
}

// SetupBankAccountInput is the payload to link a payout destination.
type SetupBankAccountInput struct {
	BankCode      string
	BankName      string
	AccountNumber string
}

// ResolveAccountInput names an account to resolve against the bank directory.
type ResolveAccountInput struct {
	AccountNumber string
	BankCode      string
}

// BalanceDTO carries the creator's available balance in kobo.
type BalanceDTO struct {
	AvailableKobo int64 `json:"available_kobo"`
	EarnedKobo    int64 `json:"earned_kobo"`
	ReservedKobo  int64 `json:"reserved_kobo"`
}

// BankAccountDTO is the linked payout destination. The account number is
// masked down to its last four digits.
type BankAccountDTO struct {
	BankName      string    `json:"bank_name"`
	BankCode      string    `json:"bank_code"`
	AccountNumber string    `json:"account_number"`
	AccountName   string    `json:"account_name"`
	Currency      string    `json:"currency"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WithdrawalDTO is the recorded payout returned to clients.
type WithdrawalDTO struct {
	ID            uuid.UUID `json:"id"`
	AmountKobo    int64     `json:"amount_kobo"`
	Reference     string    `json:"reference"`
	TransferCode  string    `json:"transfer_code,omitempty"`
	Status        string    `json:"status"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// ResolvedAccountDTO echoes the holder name Paystack resolved.
type ResolvedAccountDTO struct {
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	AccountName   string `json:"account_name"`
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Repo    *Repository
	Gateway Gateway
	Logger  *logger.Logger
	Metrics *metrics.PaymentMetrics
}

type service struct {
	repo    *Repository
	gateway Gateway
	logg    *logger.Logger
	metrics *metrics.PaymentMetrics
}

// NewService constructs a finance service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("finance repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    params.Repo,
		gateway: params.Gateway,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// GetBalance computes the creator's available balance: everything earned
// from successful purchases minus everything reserved by success, pending,
// and otp withdrawals.
func (s *service) GetBalance(ctx context.Context, creatorID uuid.UUID) (*BalanceDTO, error) {
	earned, err := s.repo.EarnedKobo(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum purchases")
	}
	reserved, err := s.repo.ReservedKobo(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sum withdrawals")
	}
	return &BalanceDTO{
		AvailableKobo: earned - reserved,
		EarnedKobo:    earned,
		ReservedKobo:  reserved,
	}, nil
}

// GetBankAccount returns the linked payout destination.
func (s *service) GetBankAccount(ctx context.Context, creatorID uuid.UUID) (*BankAccountDTO, error) {
	account, err := s.repo.FindBankAccount(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no bank account linked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bank account")
	}
	return newBankAccountDTO(account), nil
}

// SetupBankAccount resolves the account, creates a transfer recipient, and
// only then replaces the stored destination. A gateway rejection at either
// step leaves the existing row untouched.
func (s *service) SetupBankAccount(ctx context.Context, creatorID uuid.UUID, input SetupBankAccountInput) (*BankAccountDTO, error) {
	accountNumber := strings.TrimSpace(input.AccountNumber)
	bankCode := strings.TrimSpace(input.BankCode)
	if accountNumber == "" || bankCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account_number and bank_code are required")
	}

	resolved, err := s.gateway.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	recipientCode, err := s.gateway.CreateTransferRecipient(ctx, resolved.AccountName, accountNumber, bankCode)
	if err != nil {
		return nil, mapGatewayError(err)
	}

	account := &models.BankAccount{
		ID:            uuid.New(),
		CreatorID:     creatorID,
		BankName:      strings.TrimSpace(input.BankName),
		BankCode:      bankCode,
		AccountNumber: accountNumber,
		AccountName:   resolved.AccountName,
		RecipientCode: recipientCode,
		Currency:      "NGN",
	}
	saved, err := s.repo.UpsertBankAccount(ctx, account)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save bank account")
	}

	s.logg.Info(s.logg.WithCreatorID(ctx, creatorID.String()), "bank account linked")
	return newBankAccountDTO(saved), nil
}

// RequestWithdrawal moves funds to the creator's linked bank account. The
// balance check and the transfer are not atomic; the gateway's own balance
// is the final arbiter for concurrent requests.
func (s *service) RequestWithdrawal(ctx context.Context, creatorID uuid.UUID, amountKobo int64) (*WithdrawalDTO, error) {
	if amountKobo <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be a positive amount in kobo")
	}

	balance, err := s.GetBalance(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if amountKobo > balance.AvailableKobo {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("insufficient funds. available: %s", FormatNaira(balance.AvailableKobo)))
	}

	account, err := s.repo.FindBankAccount(ctx, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no bank account linked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load bank account")
	}

	transfer, err := s.gateway.InitiateTransfer(ctx, amountKobo, account.RecipientCode, "Slobi withdrawal")
	if err != nil {
		return nil, mapGatewayError(err)
	}

	status, parseErr := enums.ParseWithdrawalStatus(transfer.Status)
	if parseErr != nil {
		s.logg.Warn(s.logg.WithReference(ctx, transfer.Reference),
			fmt.Sprintf("unknown transfer status %q, recording as pending", transfer.Status))
		status = enums.WithdrawalStatusPending
	}

	withdrawal := &models.Withdrawal{
		ID:            uuid.New(),
		CreatorID:     creatorID,
		AmountKobo:    amountKobo,
		RecipientCode: account.RecipientCode,
		Reference:     transfer.Reference,
		TransferCode:  transfer.TransferCode,
		Status:        status,
	}
	saved, err := s.repo.InsertWithdrawal(ctx, withdrawal)
	if err != nil {
		// The transfer is already committed at the gateway. Surface the
		// reference loudly so the missing ledger row can be reconciled.
		s.logg.Error(s.logg.WithReference(ctx, transfer.Reference),
			"transfer accepted but withdrawal row not recorded", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record withdrawal")
	}

	s.metrics.IncWithdrawal(string(status))
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"creator_id": creatorID.String(),
		"reference":  transfer.Reference,
		"status":     string(status),
	}), "withdrawal recorded")

	return newWithdrawalDTO(saved), nil
}

// ListWithdrawals returns the creator's payout history, newest first.
func (s *service) ListWithdrawals(ctx context.Context, creatorID uuid.UUID) ([]WithdrawalDTO, error) {
	rows, err := s.repo.ListWithdrawals(ctx, creatorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list withdrawals")
	}
	dtos := make([]WithdrawalDTO, len(rows))
	for i := range rows {
		dtos[i] = *newWithdrawalDTO(&rows[i])
	}
	return dtos, nil
}

// ListBanks passes the bank directory through from the gateway.
func (s *service) ListBanks(ctx context.Context) ([]paystack.Bank, error) {
	banks, err := s.gateway.ListBanks(ctx)
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return banks, nil
}

// ResolveAccount checks an account number/bank code pair without touching
// any stored state.
func (s *service) ResolveAccount(ctx context.Context, input ResolveAccountInput) (*ResolvedAccountDTO, error) {
	accountNumber := strings.TrimSpace(input.AccountNumber)
	bankCode := strings.TrimSpace(input.BankCode)
	if accountNumber == "" || bankCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account_number and bank_code are required")
	}

	resolved, err := s.gateway.ResolveAccount(ctx, accountNumber, bankCode)
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return &ResolvedAccountDTO{
		AccountNumber: accountNumber,
		BankCode:      bankCode,
		AccountName:   resolved.AccountName,
	}, nil
}

func newBankAccountDTO(account *models.BankAccount) *BankAccountDTO {
	return &BankAccountDTO{
		BankName:      account.BankName,
		BankCode:      account.BankCode,
		AccountNumber: maskAccountNumber(account.AccountNumber),
		AccountName:   account.AccountName,
		Currency:      account.Currency,
		UpdatedAt:     account.UpdatedAt,
	}
}

func newWithdrawalDTO(withdrawal *models.Withdrawal) *WithdrawalDTO {
	return &WithdrawalDTO{
		ID:            withdrawal.ID,
		AmountKobo:    withdrawal.AmountKobo,
		Reference:     withdrawal.Reference,
		TransferCode:  withdrawal.TransferCode,
		Status:        string(withdrawal.Status),
		FailureReason: withdrawal.FailureReason,
		CreatedAt:     withdrawal.CreatedAt,
	}
}

// mapGatewayError translates a typed Paystack failure into the service error
// taxonomy. Account resolution failures are the caller's fault (bad account
// number or bank code), so they map to validation with the gateway's own
// message; everything else is a dependency failure.
func mapGatewayError(err error) error {
	var reqErr *paystack.RequestError
	if !errors.As(err, &reqErr) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unavailable")
	}
	if reqErr.Op == paystack.OpResolveAccount {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, reqErr.Message)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, reqErr.Message)
}

// FormatNaira renders a kobo amount as a naira display string, e.g.
// 800000 -> "₦8000.00".
func FormatNaira(amountKobo int64) string {
	sign := ""
	if amountKobo < 0 {
		sign = "-"
		amountKobo = -amountKobo
	}
	return fmt.Sprintf("%s₦%d.%02d", sign, amountKobo/100, amountKobo%100)
}

func maskAccountNumber(accountNumber string) string {
	if len(accountNumber) <= 4 {
		return accountNumber
	}
	return strings.Repeat("*", len(accountNumber)-4) + accountNumber[len(accountNumber)-4:]
}
