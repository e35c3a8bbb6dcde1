package client

import (
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var billingTransactionFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "billing_transaction_failures_total",
	Help: "Total declined payment attempts by gateway error code",
}, []string{"error_code"})

// ErrNotFound is returned when a single-resource lookup hits a 404, e.g.
// fetching a plan after deleting it.
var ErrNotFound = errors.New("resource not found")

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 422/429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassValidation represents 422 validation errors.
	ErrorClassValidation ErrorClass = "validation"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 quota errors.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classifyStatus categorizes an HTTP status code for observability.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status == http.StatusUnprocessableEntity:
		return ErrorClassValidation
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// APIError is a non-2xx response carrying the parsed <errors> document.
type APIError struct {
	StatusCode int
	Class      ErrorClass
	Errors     []model.FieldError
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		first := e.Errors[0]
		return fmt.Sprintf("billing %s error (status %d): %s %s",
			e.Class, e.StatusCode, first.Field, first.Message)
	}
	return fmt.Sprintf("billing %s error (status %d)", e.Class, e.StatusCode)
}

// TransactionFailedError is a failed payment attempt. It carries the
// provider's three-tier error: a machine code, a message for the merchant,
// and a message safe to show the customer, plus the declined transaction
// when the provider echoed one back.
type TransactionFailedError struct {
	StatusCode      int
	ErrorCode       string
	ErrorCategory   string
	MerchantMessage string
	CustomerMessage string
	Transaction     *model.Transaction
}

// Error implements the error interface.
func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("billing transaction failed (%s): %s", e.ErrorCode, e.MerchantMessage)
}

// errorFromResponse maps a non-2xx response body to a typed error.
func (c *Client) errorFromResponse(endpoint string, status int, body []byte) error {
	if status == http.StatusNotFound {
		return fmt.Errorf("%s: %w", endpoint, ErrNotFound)
	}

	var doc model.Errors
	if len(body) > 0 {
		// An unparsable body still surfaces as a typed error with the
		// status code; the field list is just empty.
		_ = xml.Unmarshal(body, &doc)
	}

	if doc.TransactionError != nil {
		billingTransactionFailuresTotal.WithLabelValues(doc.TransactionError.ErrorCode).Inc()

		return &TransactionFailedError{
			StatusCode:      status,
			ErrorCode:       doc.TransactionError.ErrorCode,
			ErrorCategory:   doc.TransactionError.ErrorCategory,
			MerchantMessage: doc.TransactionError.MerchantMessage,
			CustomerMessage: doc.TransactionError.CustomerMessage,
			Transaction:     doc.Transaction,
		}
	}

	return &APIError{
		StatusCode: status,
		Class:      classifyStatus(status),
		Errors:     doc.Errors,
	}
}
