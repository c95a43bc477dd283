package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/slobi-app/slobi-backend/pkg/db/models"
	pkgerrors "github.com/slobi-app/slobi-backend/pkg/errors"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
)

// Gateway is the slice of the Paystack client checkout needs.
type Gateway interface {
	InitializeTransaction(ctx context.Context, params paystack.InitializeParams) (*paystack.Authorization, error)
}

// ProductReader resolves live products for purchase.
type ProductReader interface {
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service starts storefront checkouts. It writes no local state: the
// purchase ledger is only touched by the callback handler after the payment
// is verified.
type Service interface {
	StartCheckout(ctx context.Context, input StartCheckoutInput) (*CheckoutDTO, error)
}

// StartCheckoutInput is the buyer's submission from the storefront.
type StartCheckoutInput struct {
	ProductID uuid.UUID
	Email     string
}

// CheckoutDTO carries the gateway redirect for the buyer.
type CheckoutDTO struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
	AmountKobo       int64  `json:"amount_kobo"`
}

// ServiceParams collects the service dependencies.
type ServiceParams struct {
	Products ProductReader
	Gateway  Gateway
	Logger   *logger.Logger
}

type service struct {
	products ProductReader
	gateway  Gateway
	logg     *logger.Logger
	validate *validator.Validate
}

// NewService constructs a checkout service instance.
func NewService(params ServiceParams) (Service, error) {
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		products: params.Products,
		gateway:  params.Gateway,
		logg:     params.Logger,
		validate: validator.New(),
	}, nil
}

// StartCheckout resolves the product, applies its discount, and initializes
// a gateway transaction carrying the purchase context as metadata.
func (s *service) StartCheckout(ctx context.Context, input StartCheckoutInput) (*CheckoutDTO, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email address is required")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id is required")
	}

	product, err := s.products.FindActiveByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	amount := product.EffectivePriceKobo()
	if amount <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "discounted price must be a positive amount in kobo")
	}

	metadata, err := Metadata{
		ProductID:   product.ID.String(),
		ProductName: product.Name,
		CreatorID:   product.CreatorID.String(),
	}.Encode()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode metadata")
	}

	auth, err := s.gateway.InitializeTransaction(ctx, paystack.InitializeParams{
		Email:      email,
		AmountKobo: amount,
		Metadata:   metadata,
	})
	if err != nil {
		var reqErr *paystack.RequestError
		if errors.As(err, &reqErr) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, reqErr.Message)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "payment gateway unavailable")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_id":  product.ID.String(),
		"creator_id":  product.CreatorID.String(),
		"amount_kobo": amount,
		"reference":   auth.Reference,
	}), "checkout initialized")

	return &CheckoutDTO{
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Reference:        auth.Reference,
		AmountKobo:       amount,
	}, nil
}
