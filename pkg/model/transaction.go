package model

import (
	"encoding/xml"
	"time"
)

// Transaction is a single payment attempt against an account.
//
// On create, only the nested Account (carrying billing info when the account
// has none on file), AmountInCents and Currency are sent; the remote system
// fills in the rest and attaches the generated Invoice on read.
type Transaction struct {
	XMLName       xml.Name   `xml:"transaction"`
	UUID          string     `xml:"uuid,omitempty"`
	Action        string     `xml:"action,omitempty"`
	AmountInCents int        `xml:"amount_in_cents,omitempty"`
	TaxInCents    int        `xml:"tax_in_cents,omitempty"`
	Currency      string     `xml:"currency,omitempty"`
	Status        string     `xml:"status,omitempty"`
	Reference     string     `xml:"reference,omitempty"`
	Test          bool       `xml:"test,omitempty"`
	Voidable      bool       `xml:"voidable,omitempty"`
	Refundable    bool       `xml:"refundable,omitempty"`
	CreatedAt     *time.Time `xml:"created_at,omitempty"`
	Account       *Account   `xml:"account,omitempty"`
	Invoice       *Invoice   `xml:"invoice,omitempty"`
}

// Transactions is one page of transactions as returned by the list
// endpoints.
type Transactions struct {
	XMLName      xml.Name      `xml:"transactions"`
	Transactions []Transaction `xml:"transaction"`
}

// Transaction actions reported by the remote system.
const (
	TransactionActionPurchase = "purchase"
	TransactionActionVerify   = "verify"
	TransactionActionRefund   = "refund"
)

// Transaction statuses reported by the remote system.
const (
	TransactionStatusSuccess  = "success"
	TransactionStatusDeclined = "declined"
	TransactionStatusVoid     = "void"
)
