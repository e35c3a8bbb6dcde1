package testutil

import (
	"net/http"
	"sort"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
)

// All handlers in this file run with m.mu held by route.

// accountRef returns a shallow snapshot of the account suitable for nesting
// inside subscriptions, transactions and invoices.
func (m *MockBilling) accountRef(code string) *model.Account {
	account, ok := m.accounts[code]
	if !ok {
		return &model.Account{AccountCode: code}
	}
	ref := *account
	ref.BillingInfo = nil
	return &ref
}

func (m *MockBilling) routeAccounts(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.Account, 0, len(m.accountOrder))
			for _, code := range m.accountOrder {
				items = append(items, *m.accounts[code])
			}
			writePage(m, w, r, items, func(items []model.Account) any {
				return &model.Accounts{Accounts: items}
			})
		case http.MethodPost:
			m.createAccount(w, r)
		default:
			m.writeNotFound(w)
		}
	case 1:
		account, ok := m.accounts[rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			m.writeXML(w, http.StatusOK, account)
		case http.MethodPut:
			m.updateAccount(w, r, account)
		case http.MethodDelete:
			account.State = model.AccountStateClosed
			w.WriteHeader(http.StatusNoContent)
		default:
			m.writeNotFound(w)
		}
	case 2:
		code := rest[0]
		if _, ok := m.accounts[code]; !ok {
			m.writeNotFound(w)
			return
		}
		switch rest[1] {
		case "billing_info":
			m.routeBillingInfo(w, r, code)
		case "subscriptions":
			items := make([]model.Subscription, 0, len(m.accountSubs[code]))
			for _, uuid := range m.accountSubs[code] {
				items = append(items, *m.subscriptions[uuid])
			}
			writePage(m, w, r, items, func(items []model.Subscription) any {
				return &model.Subscriptions{Subscriptions: items}
			})
		case "transactions":
			items := make([]model.Transaction, 0, len(m.accountTxns[code]))
			for _, uuid := range m.accountTxns[code] {
				items = append(items, *m.transactions[uuid])
			}
			writePage(m, w, r, items, func(items []model.Transaction) any {
				return &model.Transactions{Transactions: items}
			})
		case "invoices":
			items := make([]model.Invoice, 0, len(m.invoices[code]))
			for _, invoice := range m.invoices[code] {
				items = append(items, *invoice)
			}
			m.writeInvoicePage(w, r, items)
		default:
			m.writeNotFound(w)
		}
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createAccount(w http.ResponseWriter, r *http.Request) {
	var account model.Account
	if !m.decodeBody(w, r, &account) {
		return
	}

	if account.AccountCode == "" {
		m.writeValidationError(w, "account_code", "can't be blank")
		return
	}
	if _, exists := m.accounts[account.AccountCode]; exists {
		m.writeValidationError(w, "account_code", "has already been taken")
		return
	}

	account.State = model.AccountStateActive
	account.HostedLoginToken = newUUID()
	account.CreatedAt = now()
	account.BillingInfo = nil

	stored := account
	m.accounts[account.AccountCode] = &stored
	m.accountOrder = append(m.accountOrder, account.AccountCode)

	m.writeXML(w, http.StatusCreated, &stored)
}

func (m *MockBilling) updateAccount(w http.ResponseWriter, r *http.Request, account *model.Account) {
	var update model.Account
	if !m.decodeBody(w, r, &update) {
		return
	}

	if update.Email != "" {
		account.Email = update.Email
	}
	if update.Username != "" {
		account.Username = update.Username
	}
	if update.FirstName != "" {
		account.FirstName = update.FirstName
	}
	if update.LastName != "" {
		account.LastName = update.LastName
	}
	if update.CompanyName != "" {
		account.CompanyName = update.CompanyName
	}
	if update.AcceptLanguage != "" {
		account.AcceptLanguage = update.AcceptLanguage
	}
	if update.Address != nil {
		account.Address = update.Address
	}

	m.writeXML(w, http.StatusOK, account)
}

func (m *MockBilling) routeBillingInfo(w http.ResponseWriter, r *http.Request, code string) {
	switch r.Method {
	case http.MethodGet:
		info, ok := m.billingInfo[code]
		if !ok {
			m.writeNotFound(w)
			return
		}
		m.writeXML(w, http.StatusOK, info)
	case http.MethodPut:
		m.updateBillingInfo(w, r, code)
	case http.MethodDelete:
		delete(m.billingInfo, code)
		w.WriteHeader(http.StatusNoContent)
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) updateBillingInfo(w http.ResponseWriter, r *http.Request, code string) {
	var info model.BillingInfo
	if !m.decodeBody(w, r, &info) {
		return
	}

	if info.Number == "" {
		m.writeValidationError(w, "number", "is required")
		return
	}

	digits := cardDigits(info.Number)
	declined := &model.Transaction{
		UUID:      newUUID(),
		Action:    model.TransactionActionVerify,
		Status:    model.TransactionStatusDeclined,
		Test:      true,
		CreatedAt: now(),
		Account:   m.accountRef(code),
	}

	switch digits {
	case cardDigits(FraudCardNumber):
		m.writeTransactionError(w, FraudErrorCode, FraudErrorCategory,
			FraudMerchantMessage, FraudCustomerMessage, declined)
		return
	case cardDigits(DeclinedCardNumber):
		m.writeTransactionError(w, "declined", "soft",
			"The transaction was declined without specific information.",
			"The transaction was declined. Please use a different card or contact your bank.", declined)
		return
	}

	info.CardType = cardType(info.Number)
	if len(digits) >= 6 {
		info.FirstSix = digits[:6]
	}
	if len(digits) >= 4 {
		info.LastFour = digits[len(digits)-4:]
	}
	info.Number = ""
	info.VerificationValue = ""
	info.UpdatedAt = now()

	stored := info
	m.billingInfo[code] = &stored

	// Storing a card triggers a voided verification transaction remotely.
	verification := &model.Transaction{
		UUID:      newUUID(),
		Action:    model.TransactionActionVerify,
		Status:    model.TransactionStatusVoid,
		Test:      true,
		CreatedAt: now(),
		Account:   m.accountRef(code),
	}
	m.storeTransaction(code, verification)

	m.writeXML(w, http.StatusOK, &stored)
}

func (m *MockBilling) routePlans(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.Plan, 0, len(m.planOrder))
			for _, code := range m.planOrder {
				items = append(items, *m.plans[code])
			}
			writePage(m, w, r, items, func(items []model.Plan) any {
				return &model.Plans{Plans: items}
			})
		case http.MethodPost:
			m.createPlan(w, r)
		default:
			m.writeNotFound(w)
		}
	case 1:
		plan, ok := m.plans[rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			m.writeXML(w, http.StatusOK, plan)
		case http.MethodDelete:
			m.deletePlan(rest[0])
			w.WriteHeader(http.StatusNoContent)
		default:
			m.writeNotFound(w)
		}
	case 2, 3:
		if rest[1] != "add_ons" {
			m.writeNotFound(w)
			return
		}
		m.routeAddOns(w, r, rest[0], rest[2:])
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createPlan(w http.ResponseWriter, r *http.Request) {
	var plan model.Plan
	if !m.decodeBody(w, r, &plan) {
		return
	}

	if plan.PlanCode == "" {
		m.writeValidationError(w, "plan_code", "can't be blank")
		return
	}
	if plan.Name == "" {
		m.writeValidationError(w, "name", "can't be blank")
		return
	}
	if _, exists := m.plans[plan.PlanCode]; exists {
		m.writeValidationError(w, "plan_code", "has already been taken")
		return
	}

	if plan.PlanIntervalLength == 0 {
		plan.PlanIntervalLength = 1
	}
	if plan.PlanIntervalUnit == "" {
		plan.PlanIntervalUnit = model.IntervalUnitMonths
	}
	plan.CreatedAt = now()

	stored := plan
	m.plans[plan.PlanCode] = &stored
	m.planOrder = append(m.planOrder, plan.PlanCode)

	m.writeXML(w, http.StatusCreated, &stored)
}

func (m *MockBilling) deletePlan(code string) {
	delete(m.plans, code)
	delete(m.addOns, code)
	delete(m.addOnOrder, code)
	for i, c := range m.planOrder {
		if c == code {
			m.planOrder = append(m.planOrder[:i], m.planOrder[i+1:]...)
			break
		}
	}
}

func (m *MockBilling) routeAddOns(w http.ResponseWriter, r *http.Request, planCode string, rest []string) {
	if _, ok := m.plans[planCode]; !ok {
		m.writeNotFound(w)
		return
	}

	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.AddOn, 0, len(m.addOnOrder[planCode]))
			for _, code := range m.addOnOrder[planCode] {
				items = append(items, *m.addOns[planCode][code])
			}
			writePage(m, w, r, items, func(items []model.AddOn) any {
				return &model.AddOns{AddOns: items}
			})
		case http.MethodPost:
			m.createAddOn(w, r, planCode)
		default:
			m.writeNotFound(w)
		}
	case 1:
		addOn, ok := m.addOns[planCode][rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			m.writeXML(w, http.StatusOK, addOn)
		case http.MethodDelete:
			delete(m.addOns[planCode], rest[0])
			for i, c := range m.addOnOrder[planCode] {
				if c == rest[0] {
					m.addOnOrder[planCode] = append(m.addOnOrder[planCode][:i], m.addOnOrder[planCode][i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			m.writeNotFound(w)
		}
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createAddOn(w http.ResponseWriter, r *http.Request, planCode string) {
	var addOn model.AddOn
	if !m.decodeBody(w, r, &addOn) {
		return
	}

	if addOn.AddOnCode == "" {
		m.writeValidationError(w, "add_on_code", "can't be blank")
		return
	}

	addOn.CreatedAt = now()

	if m.addOns[planCode] == nil {
		m.addOns[planCode] = make(map[string]*model.AddOn)
	}
	stored := addOn
	m.addOns[planCode][addOn.AddOnCode] = &stored
	m.addOnOrder[planCode] = append(m.addOnOrder[planCode], addOn.AddOnCode)

	m.writeXML(w, http.StatusCreated, &stored)
}

func (m *MockBilling) routeSubscriptions(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.Subscription, 0, len(m.subOrder))
			for _, uuid := range m.subOrder {
				items = append(items, *m.subscriptions[uuid])
			}
			writePage(m, w, r, items, func(items []model.Subscription) any {
				return &model.Subscriptions{Subscriptions: items}
			})
		case http.MethodPost:
			m.createSubscription(w, r)
		default:
			m.writeNotFound(w)
		}
	case 1:
		subscription, ok := m.subscriptions[rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			m.writeXML(w, http.StatusOK, subscription)
		case http.MethodPut:
			m.updateSubscription(w, r, subscription)
		default:
			m.writeNotFound(w)
		}
	case 2:
		subscription, ok := m.subscriptions[rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		if r.Method != http.MethodPut {
			m.writeNotFound(w)
			return
		}
		switch rest[1] {
		case "cancel":
			if subscription.State != model.SubscriptionStateActive {
				m.writeErrors(w, http.StatusBadRequest, &model.Errors{
					Errors: []model.FieldError{{Symbol: "invalid_transition", Message: "only active subscriptions can be canceled"}},
				})
				return
			}
			subscription.State = model.SubscriptionStateCanceled
			subscription.CanceledAt = now()
			subscription.ExpiresAt = subscription.CurrentPeriodEndsAt
			m.writeXML(w, http.StatusOK, subscription)
		case "reactivate":
			if subscription.State != model.SubscriptionStateCanceled {
				m.writeErrors(w, http.StatusBadRequest, &model.Errors{
					Errors: []model.FieldError{{Symbol: "invalid_transition", Message: "only canceled subscriptions can be reactivated"}},
				})
				return
			}
			subscription.State = model.SubscriptionStateActive
			subscription.CanceledAt = nil
			subscription.ExpiresAt = nil
			m.writeXML(w, http.StatusOK, subscription)
		default:
			m.writeNotFound(w)
		}
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createSubscription(w http.ResponseWriter, r *http.Request) {
	var subscription model.Subscription
	if !m.decodeBody(w, r, &subscription) {
		return
	}

	plan, ok := m.plans[subscription.PlanCode]
	if !ok {
		m.writeValidationError(w, "plan_code", "couldn't be found")
		return
	}
	if subscription.Account == nil || subscription.Account.AccountCode == "" {
		m.writeValidationError(w, "account", "can't be blank")
		return
	}
	if subscription.Currency == "" {
		m.writeValidationError(w, "currency", "can't be blank")
		return
	}

	code := subscription.Account.AccountCode
	if _, exists := m.accounts[code]; !exists {
		// The provider creates the account inline when the nested record
		// is new.
		embedded := *subscription.Account
		embedded.BillingInfo = nil
		embedded.State = model.AccountStateActive
		embedded.CreatedAt = now()
		m.accounts[code] = &embedded
		m.accountOrder = append(m.accountOrder, code)
	}

	unitAmount := subscription.UnitAmountInCents
	if unitAmount == 0 && plan.UnitAmountInCents != nil {
		unitAmount = plan.UnitAmountInCents.ForCurrency(subscription.Currency)
	}
	quantity := subscription.Quantity
	if quantity == 0 {
		quantity = 1
	}

	activated := now()
	periodEnd := *activated
	switch plan.PlanIntervalUnit {
	case model.IntervalUnitDays:
		periodEnd = periodEnd.AddDate(0, 0, plan.PlanIntervalLength)
	default:
		periodEnd = periodEnd.AddDate(0, plan.PlanIntervalLength, 0)
	}

	planCopy := *plan
	stored := &model.Subscription{
		UUID:                   newUUID(),
		State:                  model.SubscriptionStateActive,
		PlanCode:               plan.PlanCode,
		Plan:                   &planCopy,
		Account:                m.accountRef(code),
		Currency:               subscription.Currency,
		UnitAmountInCents:      unitAmount,
		Quantity:               quantity,
		ActivatedAt:            activated,
		CurrentPeriodStartedAt: activated,
		CurrentPeriodEndsAt:    &periodEnd,
	}

	m.subscriptions[stored.UUID] = stored
	m.subOrder = append(m.subOrder, stored.UUID)
	m.accountSubs[code] = append(m.accountSubs[code], stored.UUID)

	// First period is charged immediately and invoiced.
	m.recordPayment(code, unitAmount*quantity, stored.Currency)

	m.writeXML(w, http.StatusCreated, stored)
}

func (m *MockBilling) updateSubscription(w http.ResponseWriter, r *http.Request, subscription *model.Subscription) {
	var update model.SubscriptionUpdate
	if !m.decodeBody(w, r, &update) {
		return
	}

	if update.Timeframe == model.TimeframeRenewal {
		recorded := update
		m.pendingUpdates[subscription.UUID] = &recorded
		m.writeXML(w, http.StatusOK, subscription)
		return
	}

	if update.PlanCode != "" {
		plan, ok := m.plans[update.PlanCode]
		if !ok {
			m.writeValidationError(w, "plan_code", "couldn't be found")
			return
		}
		planCopy := *plan
		subscription.Plan = &planCopy
		subscription.PlanCode = plan.PlanCode
	}
	if update.Quantity > 0 {
		subscription.Quantity = update.Quantity
	}
	if update.UnitAmountInCents > 0 {
		subscription.UnitAmountInCents = update.UnitAmountInCents
	}

	m.writeXML(w, http.StatusOK, subscription)
}

func (m *MockBilling) routeTransactions(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.Transaction, 0, len(m.txnOrder))
			for _, uuid := range m.txnOrder {
				items = append(items, *m.transactions[uuid])
			}
			writePage(m, w, r, items, func(items []model.Transaction) any {
				return &model.Transactions{Transactions: items}
			})
		case http.MethodPost:
			m.createTransaction(w, r)
		default:
			m.writeNotFound(w)
		}
	case 1:
		transaction, ok := m.transactions[rest[0]]
		if !ok || r.Method != http.MethodGet {
			m.writeNotFound(w)
			return
		}
		m.writeXML(w, http.StatusOK, transaction)
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createTransaction(w http.ResponseWriter, r *http.Request) {
	var transaction model.Transaction
	if !m.decodeBody(w, r, &transaction) {
		return
	}

	if transaction.Account == nil || transaction.Account.AccountCode == "" {
		m.writeValidationError(w, "account", "can't be blank")
		return
	}
	if transaction.AmountInCents <= 0 {
		m.writeValidationError(w, "amount_in_cents", "must be greater than 0")
		return
	}
	if transaction.Currency == "" {
		m.writeValidationError(w, "currency", "can't be blank")
		return
	}

	code := transaction.Account.AccountCode
	if _, exists := m.accounts[code]; !exists {
		embedded := *transaction.Account
		embedded.BillingInfo = nil
		embedded.State = model.AccountStateActive
		embedded.CreatedAt = now()
		m.accounts[code] = &embedded
		m.accountOrder = append(m.accountOrder, code)
	}

	number := ""
	if transaction.Account.BillingInfo != nil {
		number = transaction.Account.BillingInfo.Number
	}
	if number == "" {
		if _, onFile := m.billingInfo[code]; !onFile {
			m.writeValidationError(w, "billing_info", "no payment method on file")
			return
		}
	}

	if number != "" {
		declined := &model.Transaction{
			UUID:          newUUID(),
			Action:        model.TransactionActionPurchase,
			AmountInCents: transaction.AmountInCents,
			Currency:      transaction.Currency,
			Status:        model.TransactionStatusDeclined,
			Test:          true,
			CreatedAt:     now(),
			Account:       m.accountRef(code),
		}
		switch cardDigits(number) {
		case cardDigits(FraudCardNumber):
			m.writeTransactionError(w, FraudErrorCode, FraudErrorCategory,
				FraudMerchantMessage, FraudCustomerMessage, declined)
			return
		case cardDigits(DeclinedCardNumber):
			m.writeTransactionError(w, "declined", "soft",
				"The transaction was declined without specific information.",
				"The transaction was declined. Please use a different card or contact your bank.", declined)
			return
		}
	}

	created := m.recordPayment(code, transaction.AmountInCents, transaction.Currency)

	m.writeXML(w, http.StatusCreated, created)
}

// recordPayment creates a successful purchase transaction plus its invoice
// for the account and returns the transaction.
func (m *MockBilling) recordPayment(code string, amountInCents int, currency string) *model.Transaction {
	m.invoiceSequence++
	invoice := &model.Invoice{
		UUID:            newUUID(),
		InvoiceNumber:   m.invoiceSequence,
		State:           model.InvoiceStateCollected,
		Currency:        currency,
		SubtotalInCents: amountInCents,
		TotalInCents:    amountInCents,
		CreatedAt:       now(),
		Account:         m.accountRef(code),
	}
	m.invoices[code] = append([]*model.Invoice{invoice}, m.invoices[code]...)

	invoiceCopy := *invoice
	transaction := &model.Transaction{
		UUID:          newUUID(),
		Action:        model.TransactionActionPurchase,
		AmountInCents: amountInCents,
		Currency:      currency,
		Status:        model.TransactionStatusSuccess,
		Test:          true,
		Voidable:      true,
		Refundable:    true,
		CreatedAt:     now(),
		Account:       m.accountRef(code),
		Invoice:       &invoiceCopy,
	}
	m.storeTransaction(code, transaction)

	return transaction
}

// storeTransaction indexes a transaction globally and per account, newest
// first.
func (m *MockBilling) storeTransaction(code string, transaction *model.Transaction) {
	m.transactions[transaction.UUID] = transaction
	m.txnOrder = append([]string{transaction.UUID}, m.txnOrder...)
	m.accountTxns[code] = append([]string{transaction.UUID}, m.accountTxns[code]...)
}

func (m *MockBilling) routeCoupons(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		switch r.Method {
		case http.MethodGet:
			items := make([]model.Coupon, 0, len(m.couponOrder))
			for _, code := range m.couponOrder {
				items = append(items, *m.coupons[code])
			}
			writePage(m, w, r, items, func(items []model.Coupon) any {
				return &model.Coupons{Coupons: items}
			})
		case http.MethodPost:
			m.createCoupon(w, r)
		default:
			m.writeNotFound(w)
		}
	case 1:
		coupon, ok := m.coupons[rest[0]]
		if !ok {
			m.writeNotFound(w)
			return
		}
		switch r.Method {
		case http.MethodGet:
			m.writeXML(w, http.StatusOK, coupon)
		case http.MethodDelete:
			delete(m.coupons, rest[0])
			for i, c := range m.couponOrder {
				if c == rest[0] {
					m.couponOrder = append(m.couponOrder[:i], m.couponOrder[i+1:]...)
					break
				}
			}
			w.WriteHeader(http.StatusNoContent)
		default:
			m.writeNotFound(w)
		}
	default:
		m.writeNotFound(w)
	}
}

func (m *MockBilling) createCoupon(w http.ResponseWriter, r *http.Request) {
	var coupon model.Coupon
	if !m.decodeBody(w, r, &coupon) {
		return
	}

	if coupon.CouponCode == "" {
		m.writeValidationError(w, "coupon_code", "can't be blank")
		return
	}
	if coupon.Name == "" {
		m.writeValidationError(w, "name", "can't be blank")
		return
	}

	coupon.State = "redeemable"
	coupon.CreatedAt = now()

	stored := coupon
	m.coupons[coupon.CouponCode] = &stored
	m.couponOrder = append(m.couponOrder, coupon.CouponCode)

	m.writeXML(w, http.StatusCreated, &stored)
}

// allInvoices flattens every account's invoices, newest first across the
// whole system.
func (m *MockBilling) allInvoices() []model.Invoice {
	var items []model.Invoice
	for _, invoices := range m.invoices {
		for _, invoice := range invoices {
			items = append(items, *invoice)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].InvoiceNumber > items[j].InvoiceNumber
	})
	return items
}

// writeInvoicePage writes one page of invoices.
func (m *MockBilling) writeInvoicePage(w http.ResponseWriter, r *http.Request, items []model.Invoice) {
	writePage(m, w, r, items, func(items []model.Invoice) any {
		return &model.Invoices{Invoices: items}
	})
}
