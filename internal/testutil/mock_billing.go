// Package testutil provides testing utilities for the billing client.
package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
)

// Test card numbers recognized by the mock gateway, mirroring the provider's
// documented gateway test set.
const (
	// FraudCardNumber triggers a fraud decline on billing info updates and
	// payment attempts.
	FraudCardNumber = "4000-0000-0000-0093"

	// DeclinedCardNumber triggers a generic card decline.
	DeclinedCardNumber = "4000-0000-0000-0002"
)

// Fixed strings the provider documents for the fraud decline.
const (
	FraudErrorCode       = "fraud_ip_address"
	FraudErrorCategory   = "fraud"
	FraudMerchantMessage = "The payment gateway declined the transaction because it originated from an IP address known for fraudulent transactions."
	FraudCustomerMessage = "The transaction was declined. Please contact support."
)

// DefaultRateLimit is the request quota the mock advertises per window.
const DefaultRateLimit = 2000

// MockBilling is a configurable stateful mock of the billing provider's
// XML API. It keeps created resources in memory, generates invoices and
// verification transactions the way the remote system does, and paginates
// list responses with Link/X-Records headers.
type MockBilling struct {
	server *httptest.Server

	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	accounts     map[string]*model.Account
	accountOrder []string
	billingInfo  map[string]*model.BillingInfo

	plans      map[string]*model.Plan
	planOrder  []string
	addOns     map[string]map[string]*model.AddOn
	addOnOrder map[string][]string

	subscriptions  map[string]*model.Subscription
	subOrder       []string
	accountSubs    map[string][]string
	pendingUpdates map[string]*model.SubscriptionUpdate

	transactions map[string]*model.Transaction
	txnOrder     []string
	accountTxns  map[string][]string

	invoices        map[string][]*model.Invoice
	invoiceSequence int

	coupons     map[string]*model.Coupon
	couponOrder []string

	// Tracking
	RequestCount int
	LastAuthUser string

	rateLimitRemaining int
}

// NewMockBilling creates a new mock billing server.
func NewMockBilling() *MockBilling {
	mock := &MockBilling{
		handlers:           make(map[string]func(w http.ResponseWriter, r *http.Request)),
		accounts:           make(map[string]*model.Account),
		billingInfo:        make(map[string]*model.BillingInfo),
		plans:              make(map[string]*model.Plan),
		addOns:             make(map[string]map[string]*model.AddOn),
		addOnOrder:         make(map[string][]string),
		subscriptions:      make(map[string]*model.Subscription),
		accountSubs:        make(map[string][]string),
		pendingUpdates:     make(map[string]*model.SubscriptionUpdate),
		transactions:       make(map[string]*model.Transaction),
		accountTxns:        make(map[string][]string),
		invoices:           make(map[string][]*model.Invoice),
		coupons:            make(map[string]*model.Coupon),
		rateLimitRemaining: DefaultRateLimit,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.route))

	return mock
}

// URL returns the mock server URL, suitable as the client's BaseURL.
func (m *MockBilling) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockBilling) Close() {
	m.server.Close()
}

// Reset clears all stored resources and tracking counters.
func (m *MockBilling) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.accounts = make(map[string]*model.Account)
	m.accountOrder = nil
	m.billingInfo = make(map[string]*model.BillingInfo)
	m.plans = make(map[string]*model.Plan)
	m.planOrder = nil
	m.addOns = make(map[string]map[string]*model.AddOn)
	m.addOnOrder = make(map[string][]string)
	m.subscriptions = make(map[string]*model.Subscription)
	m.subOrder = nil
	m.accountSubs = make(map[string][]string)
	m.pendingUpdates = make(map[string]*model.SubscriptionUpdate)
	m.transactions = make(map[string]*model.Transaction)
	m.txnOrder = nil
	m.accountTxns = make(map[string][]string)
	m.invoices = make(map[string][]*model.Invoice)
	m.invoiceSequence = 0
	m.coupons = make(map[string]*model.Coupon)
	m.couponOrder = nil
	m.RequestCount = 0
	m.LastAuthUser = ""
	m.rateLimitRemaining = DefaultRateLimit
}

// SetHandler installs a custom handler for a specific path, overriding the
// built-in behavior. Useful for injecting server errors.
func (m *MockBilling) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetRateLimitRemaining overrides the advertised remaining quota.
func (m *MockBilling) SetRateLimitRemaining(remaining int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rateLimitRemaining = remaining
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockBilling) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// PendingUpdate returns the deferred subscription update recorded for the
// uuid, or nil when none is pending.
func (m *MockBilling) PendingUpdate(uuid string) *model.SubscriptionUpdate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pendingUpdates[uuid]
}

// route dispatches a request to a custom handler or the built-in API.
func (m *MockBilling) route(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.RequestCount++
	if user, _, ok := r.BasicAuth(); ok {
		m.LastAuthUser = user
	}
	m.writeRateLimitHeaders(w)
	handler, custom := m.handlers[r.URL.Path]
	m.mu.Unlock()

	if custom {
		handler(w, r)
		return
	}

	if _, _, ok := r.BasicAuth(); !ok {
		m.writeErrors(w, http.StatusUnauthorized, &model.Errors{
			Errors: []model.FieldError{{Symbol: "unauthorized", Message: "API key required"}},
		})
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	segs := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch segs[0] {
	case "accounts":
		m.routeAccounts(w, r, segs[1:])
	case "plans":
		m.routePlans(w, r, segs[1:])
	case "subscriptions":
		m.routeSubscriptions(w, r, segs[1:])
	case "transactions":
		m.routeTransactions(w, r, segs[1:])
	case "invoices":
		if r.Method == http.MethodGet && len(segs) == 1 {
			m.writeInvoicePage(w, r, m.allInvoices())
			return
		}
		m.writeNotFound(w)
	case "coupons":
		m.routeCoupons(w, r, segs[1:])
	default:
		m.writeNotFound(w)
	}
}

// writeRateLimitHeaders advertises the provider's quota headers. The
// remaining count decrements per request.
func (m *MockBilling) writeRateLimitHeaders(w http.ResponseWriter) {
	if m.rateLimitRemaining > 0 {
		m.rateLimitRemaining--
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(DefaultRateLimit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(m.rateLimitRemaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(5*time.Minute).Unix(), 10))
}

// writeXML marshals v as the response body with the given status.
func (m *MockBilling) writeXML(w http.ResponseWriter, status int, v any) {
	data, err := xml.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(xml.Header))
	w.Write(data)
}

// writeErrors writes a structured <errors> document.
func (m *MockBilling) writeErrors(w http.ResponseWriter, status int, doc *model.Errors) {
	m.writeXML(w, status, doc)
}

func (m *MockBilling) writeNotFound(w http.ResponseWriter) {
	m.writeErrors(w, http.StatusNotFound, &model.Errors{
		Errors: []model.FieldError{{Symbol: "not_found", Message: "Couldn't find the resource"}},
	})
}

func (m *MockBilling) writeValidationError(w http.ResponseWriter, field, message string) {
	m.writeErrors(w, http.StatusUnprocessableEntity, &model.Errors{
		Errors: []model.FieldError{{Field: field, Symbol: "invalid", Message: message}},
	})
}

// writeTransactionError writes the provider's three-tier payment failure
// document.
func (m *MockBilling) writeTransactionError(w http.ResponseWriter, code, category, merchant, customer string, txn *model.Transaction) {
	m.writeErrors(w, http.StatusUnprocessableEntity, &model.Errors{
		TransactionError: &model.TransactionError{
			ErrorCode:       code,
			ErrorCategory:   category,
			MerchantMessage: merchant,
			CustomerMessage: customer,
		},
		Transaction: txn,
	})
}

// decodeBody unmarshals the request body into v, answering a validation
// error on malformed XML.
func (m *MockBilling) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := xml.NewDecoder(r.Body).Decode(v); err != nil {
		m.writeValidationError(w, "", fmt.Sprintf("malformed request body: %v", err))
		return false
	}
	return true
}

// writePage writes one page of items with Link and X-Records headers.
// Pagination uses an offset cursor; per_page defaults to 50 like the real
// API when the client omits it.
func writePage[T any](m *MockBilling, w http.ResponseWriter, r *http.Request, items []T, wrap func([]T) any) {
	perPage := 50
	if v := r.URL.Query().Get("per_page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			perPage = n
		}
	}

	cursor := 0
	if v := r.URL.Query().Get("cursor"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cursor = n
		}
	}

	end := cursor + perPage
	if cursor > len(items) {
		cursor = len(items)
	}
	if end > len(items) {
		end = len(items)
	}

	pageURL := func(offset int) string {
		return fmt.Sprintf("<%s%s?cursor=%d&per_page=%d>", m.server.URL, r.URL.Path, offset, perPage)
	}

	var links []string
	if cursor > 0 {
		prev := cursor - perPage
		if prev < 0 {
			prev = 0
		}
		links = append(links, pageURL(prev)+`; rel="prev"`)
	}
	if end < len(items) {
		links = append(links, pageURL(end)+`; rel="next"`)
	}
	if len(links) > 0 {
		w.Header().Set("Link", strings.Join(links, ", "))
	}
	w.Header().Set("X-Records", strconv.Itoa(len(items)))

	m.writeXML(w, http.StatusOK, wrap(items[cursor:end]))
}

// newUUID returns a 32-char hex identifier in the provider's uuid format.
func newUUID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// now returns the current UTC time truncated to seconds, matching the
// resolution of the XML dialect's datetime fields.
func now() *time.Time {
	t := time.Now().UTC().Truncate(time.Second)
	return &t
}

// cardType derives the brand from the leading digit of the card number.
func cardType(number string) string {
	digits := cardDigits(number)
	switch {
	case strings.HasPrefix(digits, "4"):
		return "Visa"
	case strings.HasPrefix(digits, "5"):
		return "MasterCard"
	case strings.HasPrefix(digits, "3"):
		return "American Express"
	default:
		return "Unknown"
	}
}

// cardDigits strips separators from a card number.
func cardDigits(number string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
}
