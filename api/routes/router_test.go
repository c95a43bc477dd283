package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	callbacksvc "github.com/slobi-app/slobi-backend/internal/callback"
	checkoutsvc "github.com/slobi-app/slobi-backend/internal/checkout"
	"github.com/slobi-app/slobi-backend/internal/creators"
	"github.com/slobi-app/slobi-backend/internal/finance"
	product "github.com/slobi-app/slobi-backend/internal/products"
	"github.com/slobi-app/slobi-backend/internal/purchases"
	pkgAuth "github.com/slobi-app/slobi-backend/pkg/auth"
	"github.com/slobi-app/slobi-backend/pkg/config"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/paystack"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCreatorService struct {
	storefront func(ctx context.Context, slug string) (*creators.StorefrontDTO, error)
}

func (s stubCreatorService) GetStorefront(ctx context.Context, slug string) (*creators.StorefrontDTO, error) {
	if s.storefront != nil {
		return s.storefront(ctx, slug)
	}
	return &creators.StorefrontDTO{Slug: slug}, nil
}

type stubProductService struct{}

// CreateProduct implements [product.Service].
func (s stubProductService) CreateProduct(ctx context.Context, creatorID uuid.UUID, input product.CreateProductInput) (*product.ProductDTO, error) {
	panic("unimplemented")
}

// UpdateProduct implements [product.Service].
func (s stubProductService) UpdateProduct(ctx context.Context, creatorID uuid.UUID, productID uuid.UUID, input product.UpdateProductInput) (*product.ProductDTO, error) {
	panic("unimplemented")
}

// EndDiscount implements [product.Service].
func (s stubProductService) EndDiscount(ctx context.Context, creatorID uuid.UUID, productID uuid.UUID) (*product.ProductDTO, error) {
	panic("unimplemented")
}

// DeleteProduct implements [product.Service].
func (s stubProductService) DeleteProduct(ctx context.Context, creatorID uuid.UUID, productID uuid.UUID) error {
	panic("unimplemented")
}

// GetProduct implements [product.Service].
func (s stubProductService) GetProduct(ctx context.Context, creatorID uuid.UUID, productID uuid.UUID) (*product.ProductDTO, error) {
	panic("unimplemented")
}

func (s stubProductService) ListProducts(ctx context.Context, creatorID uuid.UUID) ([]product.ProductDTO, error) {
	return []product.ProductDTO{}, nil
}

type stubCheckoutService struct{}

// StartCheckout implements [checkoutsvc.Service].
func (s stubCheckoutService) StartCheckout(ctx context.Context, input checkoutsvc.StartCheckoutInput) (*checkoutsvc.CheckoutDTO, error) {
	panic("unimplemented")
}

type stubCallbackService struct {
	handle func(ctx context.Context, reference string) (*callbacksvc.ResultDTO, error)
}

func (s stubCallbackService) HandleCallback(ctx context.Context, reference string) (*callbacksvc.ResultDTO, error) {
	if s.handle != nil {
		return s.handle(ctx, reference)
	}
	return &callbacksvc.ResultDTO{}, nil
}

type stubPurchaseService struct{}

func (s stubPurchaseService) ListPurchases(ctx context.Context, creatorID uuid.UUID) ([]purchases.PurchaseDTO, error) {
	return []purchases.PurchaseDTO{}, nil
}

// GetPurchaseByReference implements [purchases.Service].
func (s stubPurchaseService) GetPurchaseByReference(ctx context.Context, creatorID uuid.UUID, reference string) (*purchases.PurchaseDTO, error) {
	panic("unimplemented")
}

type stubFinanceService struct{}

func (s stubFinanceService) GetBalance(ctx context.Context, creatorID uuid.UUID) (*finance.BalanceDTO, error) {
	return &finance.BalanceDTO{}, nil
}

// GetBankAccount implements [finance.Service].
func (s stubFinanceService) GetBankAccount(ctx context.Context, creatorID uuid.UUID) (*finance.BankAccountDTO, error) {
	panic("unimplemented")
}

// SetupBankAccount implements [finance.Service].
func (s stubFinanceService) SetupBankAccount(ctx context.Context, creatorID uuid.UUID, input finance.SetupBankAccountInput) (*finance.BankAccountDTO, error) {
	panic("unimplemented")
}

// RequestWithdrawal implements [finance.Service].
func (s stubFinanceService) RequestWithdrawal(ctx context.Context, creatorID uuid.UUID, amountKobo int64) (*finance.WithdrawalDTO, error) {
	panic("unimplemented")
}

// ListWithdrawals implements [finance.Service].
func (s stubFinanceService) ListWithdrawals(ctx context.Context, creatorID uuid.UUID) ([]finance.WithdrawalDTO, error) {
	panic("unimplemented")
}

// ListBanks implements [finance.Service].
func (s stubFinanceService) ListBanks(ctx context.Context) ([]paystack.Bank, error) {
	panic("unimplemented")
}

// ResolveAccount implements [finance.Service].
func (s stubFinanceService) ResolveAccount(ctx context.Context, input finance.ResolveAccountInput) (*finance.ResolvedAccountDTO, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, overrides ...func(*routerDeps)) http.Handler {
	deps := &routerDeps{
		creator:  stubCreatorService{},
		product:  stubProductService{},
		checkout: stubCheckoutService{},
		callback: stubCallbackService{},
		purchase: stubPurchaseService{},
		finance:  stubFinanceService{},
	}
	for _, override := range overrides {
		override(deps)
	}

	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		stubPinger{},
		prometheus.NewRegistry(),
		deps.creator,
		deps.product,
		deps.checkout,
		deps.callback,
		deps.purchase,
		deps.finance,
	)
}

type routerDeps struct {
	creator  creators.Service
	product  product.Service
	checkout checkoutsvc.Service
	callback callbacksvc.Service
	purchase purchases.Service
	finance  finance.Service
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestMetricsEndpointServes(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestStorefrontIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/storefront/ada-beats", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public storefront got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "ada-beats") {
		t.Fatalf("expected slug in storefront payload got %s", resp.Body.String())
	}
}

func TestCallbackIsPublic(t *testing.T) {
	var seen string
	router := newTestRouter(testConfig(), func(deps *routerDeps) {
		deps.callback = stubCallbackService{
			handle: func(ctx context.Context, reference string) (*callbacksvc.ResultDTO, error) {
				seen = reference
				return &callbacksvc.ResultDTO{}, nil
			},
		}
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/paystack/callback?reference=ps_ref_123", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for callback got %d", resp.Code)
	}
	if seen != "ps_ref_123" {
		t.Fatalf("expected reference to reach the service got %q", seen)
	}
}

func TestProductsRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestProductsSucceedWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed products list got %d", resp.Code)
	}
}

func TestFinanceRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestFinanceBalanceSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/finance/balance", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for authed balance got %d", resp.Code)
	}
}

func TestPurchasesRejectMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/purchases/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCheckoutRejectsBadJSON(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		CreatorID: uuid.New(),
		Slug:      "ada-beats",
		JTI:       uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}
