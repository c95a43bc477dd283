package notifications

import (
	"context"
	"fmt"

	"github.com/slobi-app/slobi-backend/pkg/logger"
)

// Receipt is what the buyer receives after a verified purchase: the product
// name plus whichever deliverable the product carries.
type Receipt struct {
	RecipientEmail string
	ProductName    string
	DownloadURL    *string
	DeliveryNote   *string
}

// Dispatcher delivers purchase receipts. Delivery is best effort: a failed
// receipt never affects the recorded purchase.
type Dispatcher interface {
	SendReceipt(ctx context.Context, receipt Receipt) error
}

// LogDispatcher records receipts in the service log. It stands in for a
// transactional email provider; swapping one in only means replacing this
// implementation behind the Dispatcher interface.
type LogDispatcher struct {
	logg *logger.Logger
	from string
}

// NewLogDispatcher constructs the logging dispatcher. The from address is
// carried through so a real provider swap keeps the same envelope.
func NewLogDispatcher(logg *logger.Logger, fromAddress string) (*LogDispatcher, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LogDispatcher{logg: logg, from: fromAddress}, nil
}

// SendReceipt logs the receipt payload.
func (d *LogDispatcher) SendReceipt(ctx context.Context, receipt Receipt) error {
	fields := map[string]any{
		"from":            d.from,
		"recipient_email": receipt.RecipientEmail,
		"product_name":    receipt.ProductName,
	}
	if receipt.DownloadURL != nil {
		fields["download_url"] = *receipt.DownloadURL
	}
	if receipt.DeliveryNote != nil {
		fields["delivery_note"] = *receipt.DeliveryNote
	}
	d.logg.Info(d.logg.WithFields(ctx, fields), "purchase receipt dispatched")
	return nil
}
