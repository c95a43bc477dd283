package checkout

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	"github.com/slobi-app/slobi-backend/pkg/enums"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
)

type fakeProductReader struct {
	products map[uuid.UUID]*models.Product
}

func (f *fakeProductReader) FindActiveByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type fakeInitializer struct {
	gotParams *paystack.InitializeParams
	result    *paystack.Authorization
	err       error
}

func (f *fakeInitializer) InitializeTransaction(_ context.Context, params paystack.InitializeParams) (*paystack.Authorization, error) {
	f.gotParams = &params
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func intPtr(v int) *int { return &v }

func newTestCheckout(t *testing.T, products map[uuid.UUID]*models.Product, gateway Gateway) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Products: &fakeProductReader{products: products},
		Gateway:  gateway,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestStartCheckoutAppliesDiscount(t *testing.T) {
	productID := uuid.New()
	creatorID := uuid.New()
	gateway := &fakeInitializer{
		result: &paystack.Authorization{
			AuthorizationURL: "https://checkout.paystack.com/abc",
			AccessCode:       "ac_1",
			Reference:        "ref_abc",
		},
	}
	svc := newTestCheckout(t, map[uuid.UUID]*models.Product{
		productID: {
			ID:                 productID,
			CreatorID:          creatorID,
			Name:               "Budget Template",
			PriceKobo:          500000,
			DiscountPercentage: intPtr(20),
			DeliveryKind:       enums.DeliveryKindLink,
		},
	}, gateway)

	dto, err := svc.StartCheckout(context.Background(), StartCheckoutInput{
		ProductID: productID,
		Email:     " Buyer@Example.com ",
	})
	if err != nil {
		t.Fatalf("start checkout: %v", err)
	}

	if dto.AmountKobo != 400000 {
		t.Fatalf("expected 20%% off 500000 to charge 400000, got %d", dto.AmountKobo)
	}
	if dto.AuthorizationURL != "https://checkout.paystack.com/abc" || dto.Reference != "ref_abc" {
		t.Fatalf("unexpected checkout payload: %+v", dto)
	}

	if gateway.gotParams.Email != "buyer@example.com" {
		t.Fatalf("expected normalized email, got %q", gateway.gotParams.Email)
	}
	if gateway.gotParams.AmountKobo != 400000 {
		t.Fatalf("gateway charged %d", gateway.gotParams.AmountKobo)
	}

	var metadata Metadata
	if err := json.Unmarshal([]byte(gateway.gotParams.Metadata), &metadata); err != nil {
		t.Fatalf("metadata is not a JSON string payload: %v", err)
	}
	if metadata.ProductID != productID.String() || metadata.CreatorID != creatorID.String() {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}
	if metadata.ProductName != "Budget Template" {
		t.Fatalf("product name missing from metadata: %+v", metadata)
	}
}

func TestStartCheckoutRejectsAmountRoundedToZero(t *testing.T) {
	productID := uuid.New()
	gateway := &fakeInitializer{result: &paystack.Authorization{Reference: "ref_x"}}
	svc := newTestCheckout(t, map[uuid.UUID]*models.Product{
		productID: {
			ID:                 productID,
			CreatorID:          uuid.New(),
			Name:               "Sticker",
			PriceKobo:          40,
			DiscountPercentage: intPtr(99),
			DeliveryKind:       enums.DeliveryKindLink,
		},
	}, gateway)

	// 40 kobo at 99% off rounds to 0; a zero-amount transaction must never
	// reach the gateway.
	_, err := svc.StartCheckout(context.Background(), StartCheckoutInput{
		ProductID: productID,
		Email:     "buyer@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if gateway.gotParams != nil {
		t.Fatalf("gateway was called with amount %d", gateway.gotParams.AmountKobo)
	}
}

func TestStartCheckoutOutOfRangeDiscountChargesBasePrice(t *testing.T) {
	for name, discount := range map[string]*int{"nil": nil, "zero": intPtr(0), "hundred": intPtr(100), "negative": intPtr(-5)} {
		t.Run(name, func(t *testing.T) {
			productID := uuid.New()
			gateway := &fakeInitializer{result: &paystack.Authorization{Reference: "ref_x"}}
			svc := newTestCheckout(t, map[uuid.UUID]*models.Product{
				productID: {
					ID:                 productID,
					CreatorID:          uuid.New(),
					Name:               "Guide",
					PriceKobo:          500000,
					DiscountPercentage: discount,
					DeliveryKind:       enums.DeliveryKindLink,
				},
			}, gateway)

			dto, err := svc.StartCheckout(context.Background(), StartCheckoutInput{
				ProductID: productID,
				Email:     "buyer@example.com",
			})
			if err != nil {
				t.Fatalf("start checkout: %v", err)
			}
			if dto.AmountKobo != 500000 {
				t.Fatalf("expected base price, got %d", dto.AmountKobo)
			}
		})
	}
}

func TestStartCheckoutValidation(t *testing.T) {
	productID := uuid.New()
	svc := newTestCheckout(t, map[uuid.UUID]*models.Product{}, &fakeInitializer{})

	_, err := svc.StartCheckout(context.Background(), StartCheckoutInput{ProductID: productID, Email: "not-an-email"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad email, got %v", err)
	}

	_, err = svc.StartCheckout(context.Background(), StartCheckoutInput{Email: "buyer@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for missing product, got %v", err)
	}

	_, err = svc.StartCheckout(context.Background(), StartCheckoutInput{ProductID: productID, Email: "buyer@example.com"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown product, got %v", err)
	}
}

func TestStartCheckoutGatewayRejection(t *testing.T) {
	productID := uuid.New()
	svc := newTestCheckout(t, map[uuid.UUID]*models.Product{
		productID: {
			ID:           productID,
			CreatorID:    uuid.New(),
			Name:         "Guide",
			PriceKobo:    500000,
			DeliveryKind: enums.DeliveryKindLink,
		},
	}, &fakeInitializer{
		err: &paystack.RequestError{Op: paystack.OpInitializeTransaction, Message: "Invalid key"},
	})

	_, err := svc.StartCheckout(context.Background(), StartCheckoutInput{
		ProductID: productID,
		Email:     "buyer@example.com",
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !strings.Contains(typed.Message(), "Invalid key") {
		t.Fatalf("gateway message not preserved: %q", typed.Message())
	}
}
