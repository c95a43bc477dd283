package enums

import "fmt"

// WithdrawalStatus mirrors Paystack transfer states. Pending and otp transfers
// are in flight: the amount is already committed to the gateway, so both
// reserve funds exactly like success does.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "pending"
	WithdrawalStatusSuccess  WithdrawalStatus = "success"
	WithdrawalStatusOTP      WithdrawalStatus = "otp"
	WithdrawalStatusFailed   WithdrawalStatus = "failed"
	WithdrawalStatusReversed WithdrawalStatus = "reversed"
)

var validWithdrawalStatuses = []WithdrawalStatus{
	WithdrawalStatusPending,
	WithdrawalStatusSuccess,
	WithdrawalStatusOTP,
	WithdrawalStatusFailed,
	WithdrawalStatusReversed,
}

// ReservingWithdrawalStatuses lists the states subtracted from the balance.
var ReservingWithdrawalStatuses = []WithdrawalStatus{
	WithdrawalStatusSuccess,
	WithdrawalStatusPending,
	WithdrawalStatusOTP,
}

// String implements fmt.Stringer.
func (w WithdrawalStatus) String() string {
	return string(w)
}

// IsValid reports whether the value is known.
func (w WithdrawalStatus) IsValid() bool {
	for _, candidate := range validWithdrawalStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// Reserves reports whether the status locks funds against the balance.
func (w WithdrawalStatus) Reserves() bool {
	for _, candidate := range ReservingWithdrawalStatuses {
		if candidate == w {
			return true
		}
	}
	return false
}

// ParseWithdrawalStatus converts raw gateway input into a WithdrawalStatus.
func ParseWithdrawalStatus(value string) (WithdrawalStatus, error) {
	for _, candidate := range validWithdrawalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid withdrawal status %q", value)
}
