package enums

// PurchaseStatus mirrors the transaction status Paystack reports at
// verification time. Only success earns into the balance; other terminal
// values are stored as-is for audit.
type PurchaseStatus string

const (
	PurchaseStatusSuccess   PurchaseStatus = "success"
	PurchaseStatusFailed    PurchaseStatus = "failed"
	PurchaseStatusAbandoned PurchaseStatus = "abandoned"
	PurchaseStatusReversed  PurchaseStatus = "reversed"
)

// String implements fmt.Stringer.
func (p PurchaseStatus) String() string {
	return string(p)
}

// Earns reports whether the status contributes to the creator's balance.
func (p PurchaseStatus) Earns() bool {
	return p == PurchaseStatusSuccess
}
