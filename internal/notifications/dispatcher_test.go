package notifications

import (
	"context"
	"io"
	"testing"

	"github.com/slobi-app/slobi-backend/pkg/logger"
)

func TestNewLogDispatcherRequiresLogger(t *testing.T) {
	if _, err := NewLogDispatcher(nil, "Slobi <noreply@slobi.app>"); err == nil {
		t.Fatal("expected error for nil logger")
	}
}

func TestSendReceiptNeverFails(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	dispatcher, err := NewLogDispatcher(logg, "Slobi <noreply@slobi.app>")
	if err != nil {
		t.Fatalf("new dispatcher: %v", err)
	}

	note := "email me to book a slot"
	url := "https://cdn.slobi.app/files/abc123"
	receipts := []Receipt{
		{RecipientEmail: "buyer@example.com", ProductName: "Beat Pack Vol. 1", DownloadURL: &url},
		{RecipientEmail: "buyer@example.com", ProductName: "Mixing Session", DeliveryNote: &note},
		{RecipientEmail: "buyer@example.com", ProductName: "Bare Product"},
	}
	for _, receipt := range receipts {
		if err := dispatcher.SendReceipt(context.Background(), receipt); err != nil {
			t.Fatalf("send receipt: %v", err)
		}
	}
}
