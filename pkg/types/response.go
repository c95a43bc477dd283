package types

// The slobi API wraps every response in one of two envelopes: successful
// calls return `{"data": ...}` and failures return `{"error": {...}}`. The
// storefront and dashboard clients branch on which key is present, so
// handlers never write bare payloads.

// SuccessEnvelope wraps a handler's payload under the data key.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the client-facing error body. Code is a stable machine-readable
// string from the pkg/errors taxonomy; Message is safe for display (gateway
// rejection text, the insufficient-funds balance, field errors). Details
// carries per-field validation messages when the code allows them.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps an APIError under the error key.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
