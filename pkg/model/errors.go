package model

import "encoding/xml"

// FieldError is one validation failure inside an <errors> document.
type FieldError struct {
	Field   string `xml:"field,attr"`
	Symbol  string `xml:"symbol,attr"`
	Message string `xml:",chardata"`
}

// TransactionError is the three-tier error attached to a failed payment
// transaction: a machine-readable code, a message for the merchant, and a
// message safe to show the customer.
type TransactionError struct {
	XMLName         xml.Name `xml:"transaction_error"`
	ErrorCode       string   `xml:"error_code"`
	ErrorCategory   string   `xml:"error_category"`
	MerchantMessage string   `xml:"merchant_message"`
	CustomerMessage string   `xml:"customer_message"`
}

// Errors is the structured error document returned on non-2xx responses.
// TransactionError and Transaction are only present when a payment attempt
// failed.
type Errors struct {
	XMLName          xml.Name          `xml:"errors"`
	Errors           []FieldError      `xml:"error"`
	TransactionError *TransactionError `xml:"transaction_error"`
	Transaction      *Transaction      `xml:"transaction"`
}
