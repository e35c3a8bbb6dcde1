package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   ErrorClass
	}{
		{
			name:   "bad request",
			status: http.StatusBadRequest,
			want:   ErrorClassClient,
		},
		{
			name:   "unauthorized",
			status: http.StatusUnauthorized,
			want:   ErrorClassClient,
		},
		{
			name:   "not found",
			status: http.StatusNotFound,
			want:   ErrorClassClient,
		},
		{
			name:   "validation failure",
			status: http.StatusUnprocessableEntity,
			want:   ErrorClassValidation,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			want:   ErrorClassRateLimit,
		},
		{
			name:   "internal server error",
			status: http.StatusInternalServerError,
			want:   ErrorClassServer,
		},
		{
			name:   "bad gateway",
			status: http.StatusBadGateway,
			want:   ErrorClassServer,
		},
		{
			name:   "success is unclassified",
			status: http.StatusOK,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.want {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
			}
		})
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(Config{APIKey: "test-api-key", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })

	return client, server
}

func TestNotFoundError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`<errors><error>not found</error></errors>`))
	})

	_, err := client.GetAccount(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetAccount() error = %v, want ErrNotFound", err)
	}
}

func TestValidationError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`<errors><error field="account.account_code" symbol="blank">can't be blank</error></errors>`))
	})

	_, err := client.CreateAccount(context.Background(), &model.Account{})
	if err == nil {
		t.Fatal("CreateAccount() succeeded, want validation error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("StatusCode = %d, want 422", apiErr.StatusCode)
	}
	if apiErr.Class != ErrorClassValidation {
		t.Errorf("Class = %q, want validation", apiErr.Class)
	}
	if len(apiErr.Errors) != 1 {
		t.Fatalf("len(Errors) = %d, want 1", len(apiErr.Errors))
	}
	if apiErr.Errors[0].Field != "account.account_code" {
		t.Errorf("Field = %q, want account.account_code", apiErr.Errors[0].Field)
	}
	if apiErr.Errors[0].Symbol != "blank" {
		t.Errorf("Symbol = %q, want blank", apiErr.Errors[0].Symbol)
	}
}

func TestTransactionFailedError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`<errors>
  <transaction_error>
    <error_code>fraud_ip_address</error_code>
    <error_category>fraud</error_category>
    <merchant_message>The payment gateway declined the transaction because it originated from an IP address known for fraudulent transactions.</merchant_message>
    <customer_message>The transaction was declined. Please contact support.</customer_message>
  </transaction_error>
  <transaction>
    <uuid>0123456789abcdef0123456789abcdef</uuid>
    <action>verify</action>
    <status>declined</status>
  </transaction>
</errors>`))
	})

	_, err := client.CreateTransaction(context.Background(), &model.Transaction{
		AmountInCents: 100,
		Currency:      "USD",
		Account:       &model.Account{AccountCode: "a1"},
	})
	if err == nil {
		t.Fatal("CreateTransaction() succeeded, want transaction error")
	}

	var txnErr *TransactionFailedError
	if !errors.As(err, &txnErr) {
		t.Fatalf("error = %T, want *TransactionFailedError", err)
	}
	if txnErr.ErrorCode != "fraud_ip_address" {
		t.Errorf("ErrorCode = %q, want fraud_ip_address", txnErr.ErrorCode)
	}
	if txnErr.ErrorCategory != "fraud" {
		t.Errorf("ErrorCategory = %q, want fraud", txnErr.ErrorCategory)
	}
	if txnErr.CustomerMessage != "The transaction was declined. Please contact support." {
		t.Errorf("CustomerMessage = %q", txnErr.CustomerMessage)
	}
	if txnErr.Transaction == nil || txnErr.Transaction.Status != "declined" {
		t.Errorf("Transaction = %+v, want declined transaction", txnErr.Transaction)
	}
}

func TestServerErrorWithUnparsableBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>gateway timeout</html>`))
	})

	_, err := client.GetAccount(context.Background(), "a1")
	if err == nil {
		t.Fatal("GetAccount() succeeded, want server error")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if apiErr.Class != ErrorClassServer {
		t.Errorf("Class = %q, want server", apiErr.Class)
	}
	if len(apiErr.Errors) != 0 {
		t.Errorf("Errors = %+v, want empty for unparsable body", apiErr.Errors)
	}
}

func TestRateLimitErrorClass(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`<errors><error symbol="rate_limited">too many requests</error></errors>`))
	})

	_, err := client.GetAccount(context.Background(), "a1")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %T, want *APIError", err)
	}
	if apiErr.Class != ErrorClassRateLimit {
		t.Errorf("Class = %q, want rate_limit", apiErr.Class)
	}
}

func TestErrorMessages(t *testing.T) {
	apiErr := &APIError{
		StatusCode: 422,
		Class:      ErrorClassValidation,
		Errors: []model.FieldError{
			{Field: "plan.plan_code", Symbol: "blank", Message: "can't be blank"},
		},
	}
	if got := apiErr.Error(); got != "billing validation error (status 422): plan.plan_code can't be blank" {
		t.Errorf("APIError.Error() = %q", got)
	}

	bare := &APIError{StatusCode: 500, Class: ErrorClassServer}
	if got := bare.Error(); got != "billing server error (status 500)" {
		t.Errorf("APIError.Error() = %q", got)
	}

	txnErr := &TransactionFailedError{
		ErrorCode:       "declined",
		MerchantMessage: "The card was declined.",
	}
	if got := txnErr.Error(); got != "billing transaction failed (declined): The card was declined." {
		t.Errorf("TransactionFailedError.Error() = %q", got)
	}
}
