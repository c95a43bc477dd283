package paystack

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/slobi-app/slobi-backend/pkg/config"
	"github.com/slobi-app/slobi-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(context.Background(), config.PaystackConfig{
		SecretKey:      "sk_test_abc",
		CallbackURL:    "https://slobi.app/paystack/callback",
		BaseURL:        srv.URL,
		RequestTimeout: 5 * time.Second,
	}, testLogger(), nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	base := config.PaystackConfig{
		SecretKey:   "sk_test_abc",
		CallbackURL: "https://slobi.app/cb",
		BaseURL:     "https://api.paystack.co",
	}

	missingSecret := base
	missingSecret.SecretKey = " "
	if _, err := NewClient(context.Background(), missingSecret, testLogger(), nil); err == nil {
		t.Fatal("expected error for missing secret key")
	}

	missingCallback := base
	missingCallback.CallbackURL = ""
	if _, err := NewClient(context.Background(), missingCallback, testLogger(), nil); err == nil {
		t.Fatal("expected error for missing callback url")
	}

	if _, err := NewClient(context.Background(), base, nil, nil); err == nil {
		t.Fatal("expected error for missing logger")
	}
}

func TestInitializeTransaction(t *testing.T) {
	var gotBody map[string]any
	var gotAuth string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transaction/initialize" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"ac_1","reference":"ref_abc"}}`))
	})

	auth, err := client.InitializeTransaction(context.Background(), InitializeParams{
		Email:      "buyer@example.com",
		AmountKobo: 400000,
		Metadata:   `{"productId":"p1"}`,
	})
	if err != nil {
		t.Fatalf("InitializeTransaction: %v", err)
	}
	if auth.Reference != "ref_abc" || auth.AuthorizationURL != "https://checkout.paystack.com/abc" {
		t.Fatalf("unexpected authorization: %+v", auth)
	}
	if gotAuth != "Bearer sk_test_abc" {
		t.Fatalf("unexpected auth header: %s", gotAuth)
	}
	if gotBody["email"] != "buyer@example.com" || gotBody["amount"] != float64(400000) {
		t.Fatalf("unexpected request body: %v", gotBody)
	}
	if gotBody["callback_url"] != "https://slobi.app/paystack/callback" {
		t.Fatalf("callback_url missing from request: %v", gotBody)
	}
	if gotBody["metadata"] != `{"productId":"p1"}` {
		t.Fatalf("metadata not forwarded: %v", gotBody)
	}
}

func TestInitializeTransactionGatewayRejection(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid amount passed"}`))
	})

	_, err := client.InitializeTransaction(context.Background(), InitializeParams{
		Email:      "buyer@example.com",
		AmountKobo: 0,
	})

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Op != OpInitializeTransaction {
		t.Fatalf("unexpected op: %s", reqErr.Op)
	}
	if reqErr.Message != "Invalid amount passed" {
		t.Fatalf("gateway message not preserved: %q", reqErr.Message)
	}
}

func TestVerifyTransactionKeepsRawMetadata(t *testing.T) {
	cases := []struct {
		name     string
		metadata string
	}{
		{"string encoded", `"{\"productId\":\"p1\",\"creatorId\":\"u1\",\"productName\":\"X\"}"`},
		{"object encoded", `{"productId":"p1","creatorId":"u1","productName":"X"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/transaction/verify/ref_abc" {
					t.Fatalf("unexpected path: %s", r.URL.Path)
				}
				w.Write([]byte(`{"status":true,"message":"Verification successful","data":{"status":"success","amount":400000,"reference":"ref_abc","customer":{"email":"buyer@example.com"},"metadata":` + tc.metadata + `}}`))
			})

			txn, err := client.VerifyTransaction(context.Background(), "ref_abc")
			if err != nil {
				t.Fatalf("VerifyTransaction: %v", err)
			}
			if txn.Status != "success" || txn.AmountKobo != 400000 {
				t.Fatalf("unexpected transaction: %+v", txn)
			}
			if txn.Customer.Email != "buyer@example.com" {
				t.Fatalf("unexpected customer: %+v", txn.Customer)
			}
			if string(txn.Metadata) != tc.metadata {
				t.Fatalf("metadata altered: %s", txn.Metadata)
			}
		})
	}
}

func TestVerifyTransactionRequiresReference(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	if _, err := client.VerifyTransaction(context.Background(), " "); err == nil {
		t.Fatal("expected error for blank reference")
	}
}

func TestListBanksPreservesOrder(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bank" || r.URL.Query().Get("currency") != "NGN" {
			t.Fatalf("unexpected request: %s", r.URL.String())
		}
		w.Write([]byte(`{"status":true,"message":"Banks retrieved","data":[{"id":1,"code":"044","name":"Access Bank"},{"id":2,"code":"058","name":"GTBank"}]}`))
	})

	banks, err := client.ListBanks(context.Background())
	if err != nil {
		t.Fatalf("ListBanks: %v", err)
	}
	if len(banks) != 2 || banks[0].Code != "044" || banks[1].Name != "GTBank" {
		t.Fatalf("unexpected banks: %+v", banks)
	}
}

func TestResolveAccountRejection(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status":false,"message":"Could not resolve account name. Check parameters or try again."}`))
	})

	_, err := client.ResolveAccount(context.Background(), "0000000000", "044")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Op != OpResolveAccount {
		t.Fatalf("unexpected op: %s", reqErr.Op)
	}
}

func TestCreateTransferRecipient(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["type"] != "nuban" || body["currency"] != "NGN" {
			t.Fatalf("unexpected recipient body: %v", body)
		}
		w.Write([]byte(`{"status":true,"message":"Transfer recipient created successfully","data":{"recipient_code":"RCP_123"}}`))
	})

	code, err := client.CreateTransferRecipient(context.Background(), "Ada Lovelace", "0123456789", "058")
	if err != nil {
		t.Fatalf("CreateTransferRecipient: %v", err)
	}
	if code != "RCP_123" {
		t.Fatalf("unexpected recipient code: %s", code)
	}
}

func TestInitiateTransfer(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["source"] != "balance" || body["amount"] != float64(800000) {
			t.Fatalf("unexpected transfer body: %v", body)
		}
		if body["reason"] != "Withdrawal" {
			t.Fatalf("expected default reason, got %v", body["reason"])
		}
		w.Write([]byte(`{"status":true,"message":"Transfer requires OTP to continue","data":{"reference":"trf_ref","transfer_code":"TRF_1","status":"otp"}}`))
	})

	transfer, err := client.InitiateTransfer(context.Background(), 800000, "RCP_123", "")
	if err != nil {
		t.Fatalf("InitiateTransfer: %v", err)
	}
	if transfer.Status != "otp" || transfer.TransferCode != "TRF_1" {
		t.Fatalf("unexpected transfer: %+v", transfer)
	}
}

func TestInitiateTransferRejectionPreservesReason(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Your balance is not enough to fulfil this request"}`))
	})

	_, err := client.InitiateTransfer(context.Background(), 800000, "RCP_123", "payout")
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if reqErr.Message != "Your balance is not enough to fulfil this request" {
		t.Fatalf("rejection reason not preserved: %q", reqErr.Message)
	}
}
