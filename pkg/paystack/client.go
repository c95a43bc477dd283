package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/slobi-app/slobi-backend/pkg/config"
	"github.com/slobi-app/slobi-backend/pkg/logger"
	"github.com/slobi-app/slobi-backend/pkg/metrics"
)

var (
	errSecretKeyRequired   = errors.New("paystack secret key is required")
	errCallbackURLRequired = errors.New("paystack callback url is required")
	errBaseURLRequired     = errors.New("paystack base url is required")
	errLoggerRequired      = errors.New("paystack logger is required")
)

// Client wraps the Paystack REST API with centralized auth, logging, and
// error mapping. All amounts crossing this boundary are integers in kobo.
type Client struct {
	httpClient  *http.Client
	secretKey   string
	callbackURL string
	baseURL     string
	logger      *logger.Logger
	metrics     *metrics.PaymentMetrics
}

// NewClient initializes the Paystack wrapper and validates the credentials.
// Missing configuration fails here so broken credentials block startup rather
// than surfacing mid-checkout.
func NewClient(ctx context.Context, cfg config.PaystackConfig, logg *logger.Logger, pm *metrics.PaymentMetrics) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}
	callbackURL := strings.TrimSpace(cfg.CallbackURL)
	if callbackURL == "" {
		return nil, errCallbackURLRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errBaseURLRequired
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	c := &Client{
		httpClient:  &http.Client{Timeout: timeout},
		secretKey:   secretKey,
		callbackURL: callbackURL,
		baseURL:     baseURL,
		logger:      logg,
		metrics:     pm,
	}

	logg.Info(ctx, "paystack client initialized")
	return c, nil
}

// CallbackURL returns the configured redirect target for checkout.
func (c *Client) CallbackURL() string {
	if c == nil {
		return ""
	}
	return c.callbackURL
}

// InitializeTransaction creates a transaction and returns the hosted payment
// page the customer is redirected to.
func (c *Client) InitializeTransaction(ctx context.Context, params InitializeParams) (*Authorization, error) {
	c.log(ctx, "request", OpInitializeTransaction, map[string]any{
		"email":  params.Email,
		"amount": params.AmountKobo,
	})

	body := map[string]any{
		"email":        params.Email,
		"amount":       params.AmountKobo,
		"callback_url": c.callbackURL,
	}
	if params.Metadata != "" {
		body["metadata"] = params.Metadata
	}

	var auth Authorization
	if err := c.call(ctx, http.MethodPost, "/transaction/initialize", body, OpInitializeTransaction, &auth); err != nil {
		return nil, err
	}

	c.log(ctx, "response", OpInitializeTransaction, map[string]any{"reference": auth.Reference})
	return &auth, nil
}

// VerifyTransaction fetches the gateway's record for a reference.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*Transaction, error) {
	if strings.TrimSpace(reference) == "" {
		return nil, &RequestError{Op: OpVerifyTransaction, Message: "reference is required"}
	}
	c.log(ctx, "request", OpVerifyTransaction, map[string]any{"reference": reference})

	var txn Transaction
	path := "/transaction/verify/" + url.PathEscape(reference)
	if err := c.call(ctx, http.MethodGet, path, nil, OpVerifyTransaction, &txn); err != nil {
		return nil, err
	}

	c.log(ctx, "response", OpVerifyTransaction, map[string]any{
		"reference": txn.Reference,
		"status":    txn.Status,
		"amount":    txn.AmountKobo,
	})
	return &txn, nil
}

// ListBanks returns the NGN bank directory in gateway order.
func (c *Client) ListBanks(ctx context.Context) ([]Bank, error) {
	c.log(ctx, "request", OpListBanks, nil)

	var banks []Bank
	if err := c.call(ctx, http.MethodGet, "/bank?currency=NGN", nil, OpListBanks, &banks); err != nil {
		return nil, err
	}

	c.log(ctx, "response", OpListBanks, map[string]any{"count": len(banks)})
	return banks, nil
}

// ResolveAccount asks the gateway for the holder name behind an account
// number/bank code pair.
func (c *Client) ResolveAccount(ctx context.Context, accountNumber, bankCode string) (*ResolvedAccount, error) {
	c.log(ctx, "request", OpResolveAccount, map[string]any{"bank_code": bankCode})

	q := url.Values{}
	q.Set("account_number", accountNumber)
	q.Set("bank_code", bankCode)

	var resolved ResolvedAccount
	if err := c.call(ctx, http.MethodGet, "/bank/resolve?"+q.Encode(), nil, OpResolveAccount, &resolved); err != nil {
		return nil, err
	}

	c.log(ctx, "response", OpResolveAccount, map[string]any{"resolved": true})
	return &resolved, nil
}

// CreateTransferRecipient registers a payout destination and returns the
// opaque recipient handle used for transfers.
func (c *Client) CreateTransferRecipient(ctx context.Context, name, accountNumber, bankCode string) (string, error) {
	c.log(ctx, "request", OpCreateTransferRecipient, map[string]any{"bank_code": bankCode})

	body := map[string]any{
		"type":           "nuban",
		"name":           name,
		"account_number": accountNumber,
		"bank_code":      bankCode,
		"currency":       "NGN",
	}

	var data struct {
		RecipientCode string `json:"recipient_code"`
	}
	if err := c.call(ctx, http.MethodPost, "/transferrecipient", body, OpCreateTransferRecipient, &data); err != nil {
		return "", err
	}

	c.log(ctx, "response", OpCreateTransferRecipient, map[string]any{"recipient_code": data.RecipientCode})
	return data.RecipientCode, nil
}

// InitiateTransfer moves funds from the platform balance to a recipient.
func (c *Client) InitiateTransfer(ctx context.Context, amountKobo int64, recipientCode, reason string) (*Transfer, error) {
	if reason == "" {
		reason = "Withdrawal"
	}
	c.log(ctx, "request", OpInitiateTransfer, map[string]any{
		"amount":         amountKobo,
		"recipient_code": recipientCode,
	})

	body := map[string]any{
		"source":    "balance",
		"amount":    amountKobo,
		"recipient": recipientCode,
		"reason":    reason,
	}

	var transfer Transfer
	if err := c.call(ctx, http.MethodPost, "/transfer", body, OpInitiateTransfer, &transfer); err != nil {
		return nil, err
	}

	c.log(ctx, "response", OpInitiateTransfer, map[string]any{
		"reference":     transfer.Reference,
		"transfer_code": transfer.TransferCode,
		"status":        transfer.Status,
	})
	return &transfer, nil
}

func (c *Client) call(ctx context.Context, method, path string, body any, op string, out any) error {
	start := time.Now()
	err := c.doCall(ctx, method, path, body, op, out)
	c.metrics.ObserveGatewayDuration(op, time.Since(start))
	if err != nil {
		c.metrics.IncGatewayFailure(op)
		c.log(ctx, "error", op, map[string]any{"error": err.Error()})
	}
	return err
}

func (c *Client) doCall(ctx context.Context, method, path string, body any, op string, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Op: op, Message: "encode request body", cause: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Op: op, Message: "build request", cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &RequestError{Op: op, Message: "gateway unreachable", cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: "read response body", cause: err}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: "malformed gateway response", cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || !env.Status {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &RequestError{Op: op, StatusCode: resp.StatusCode, Message: "decode gateway payload", cause: err}
		}
	}
	return nil
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("paystack %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("paystack %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"email", "account_number", "secret", "token"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
