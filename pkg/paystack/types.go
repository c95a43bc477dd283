package paystack

import (
	"encoding/json"
	"fmt"
)

// Operation names used in logs, metrics, and RequestError values.
const (
	OpInitializeTransaction   = "initialize_transaction"
	OpVerifyTransaction       = "verify_transaction"
	OpListBanks               = "list_banks"
	OpResolveAccount          = "resolve_account"
	OpCreateTransferRecipient = "create_transfer_recipient"
	OpInitiateTransfer        = "initiate_transfer"
)

// RequestError is returned when Paystack rejects a call or the HTTP exchange
// fails. Message carries the gateway's own wording so it can be shown to the
// user verbatim.
type RequestError struct {
	Op         string
	StatusCode int
	Message    string
	cause      error
}

func (e *RequestError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("paystack %s: %s", e.Op, e.Message)
}

func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// envelope is the wrapper Paystack puts around every response body.
type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeParams describes a transaction to initialize. AmountKobo is in
// minor currency units; Metadata is an opaque string echoed back at
// verification time.
type InitializeParams struct {
	Email      string
	AmountKobo int64
	Metadata   string
}

// Authorization is the redirect target for a freshly initialized transaction.
type Authorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// Customer is the payer captured by the checkout form.
type Customer struct {
	Email string `json:"email"`
}

// Transaction is the verification record for a reference. Metadata is kept
// raw: depending on how the transaction was initialized Paystack returns it
// either as a JSON string or as an object, and callers must handle both.
type Transaction struct {
	Status     string          `json:"status"`
	AmountKobo int64           `json:"amount"`
	Reference  string          `json:"reference"`
	Customer   Customer        `json:"customer"`
	Metadata   json.RawMessage `json:"metadata"`
}

// Bank is one entry from the bank directory.
type Bank struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
}

// ResolvedAccount is the holder name Paystack resolved for an account
// number/bank code pair.
type ResolvedAccount struct {
	AccountName string `json:"account_name"`
}

// Transfer is the synchronous result of an initiated transfer.
type Transfer struct {
	Reference    string `json:"reference"`
	TransferCode string `json:"transfer_code"`
	Status       string `json:"status"`
}
