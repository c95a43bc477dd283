package enums

import "fmt"

// DeliveryKind describes how a purchased product reaches the customer: a
// stored file, an external link, or a manually-fulfilled service.
type DeliveryKind string

const (
	DeliveryKindFile    DeliveryKind = "file"
	DeliveryKindLink    DeliveryKind = "link"
	DeliveryKindService DeliveryKind = "service"
)

var validDeliveryKinds = []DeliveryKind{
	DeliveryKindFile,
	DeliveryKindLink,
	DeliveryKindService,
}

// String implements fmt.Stringer.
func (d DeliveryKind) String() string {
	return string(d)
}

// IsValid reports whether the value is known.
func (d DeliveryKind) IsValid() bool {
	for _, candidate := range validDeliveryKinds {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDeliveryKind converts raw input into a DeliveryKind.
func ParseDeliveryKind(value string) (DeliveryKind, error) {
	for _, candidate := range validDeliveryKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery kind %q", value)
}
