package model

import (
	"encoding/xml"
	"time"
)

// Invoice is a billing statement aggregating transactions and subscription
// charges for one account.
type Invoice struct {
	XMLName         xml.Name   `xml:"invoice"`
	UUID            string     `xml:"uuid,omitempty"`
	InvoiceNumber   int        `xml:"invoice_number,omitempty"`
	State           string     `xml:"state,omitempty"`
	Currency        string     `xml:"currency,omitempty"`
	SubtotalInCents int        `xml:"subtotal_in_cents,omitempty"`
	TaxInCents      int        `xml:"tax_in_cents,omitempty"`
	TotalInCents    int        `xml:"total_in_cents,omitempty"`
	CreatedAt       *time.Time `xml:"created_at,omitempty"`
	Account         *Account   `xml:"account,omitempty"`
}

// Invoices is one page of invoices as returned by the list endpoints,
// newest first.
type Invoices struct {
	XMLName  xml.Name  `xml:"invoices"`
	Invoices []Invoice `xml:"invoice"`
}

// Invoice states reported by the remote system.
const (
	InvoiceStateOpen      = "open"
	InvoiceStateCollected = "collected"
	InvoiceStateFailed    = "failed"
)
