package checkout

import (
	"encoding/json"

	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
)

// Metadata is the purchase context embedded in a Paystack transaction at
// initialization and read back at verification. Field names match what the
// dashboard frontend historically sent, so they stay camelCased on the wire.
type Metadata struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	CreatorID   string `json:"creatorId"`
}

// Encode renders the metadata as the JSON string Paystack stores verbatim.
func (m Metadata) Encode() (string, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// ParseMetadata decodes transaction metadata. Paystack echoes metadata back
// either as a JSON object or as a string containing JSON, depending on how
// the transaction was initialized, so both encodings are accepted. Missing
// product or creator identifiers are fatal: without them the purchase cannot
// be attributed.
func ParseMetadata(raw json.RawMessage) (*Metadata, error) {
	if len(raw) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing product information in transaction metadata")
	}

	payload := raw
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		payload = json.RawMessage(asString)
	}

	var metadata Metadata
	if err := json.Unmarshal(payload, &metadata); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "missing product information in transaction metadata")
	}
	if metadata.ProductID == "" || metadata.CreatorID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing product information in transaction metadata")
	}
	return &metadata, nil
}
