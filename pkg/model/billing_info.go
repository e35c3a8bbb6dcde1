package model

import (
	"encoding/xml"
	"time"
)

// BillingInfo holds the payment-instrument details attached to an account.
//
// Number and VerificationValue are write-only: the remote system never echoes
// them back and instead reports CardType, FirstSix and LastFour.
type BillingInfo struct {
	XMLName           xml.Name   `xml:"billing_info"`
	FirstName         string     `xml:"first_name,omitempty"`
	LastName          string     `xml:"last_name,omitempty"`
	Number            string     `xml:"number,omitempty"`
	VerificationValue string     `xml:"verification_value,omitempty"`
	Month             int        `xml:"month,omitempty"`
	Year              int        `xml:"year,omitempty"`
	Address1          string     `xml:"address1,omitempty"`
	Address2          string     `xml:"address2,omitempty"`
	City              string     `xml:"city,omitempty"`
	State             string     `xml:"state,omitempty"`
	Zip               string     `xml:"zip,omitempty"`
	Country           string     `xml:"country,omitempty"`
	Phone             string     `xml:"phone,omitempty"`
	CardType          string     `xml:"card_type,omitempty"`
	FirstSix          string     `xml:"first_six,omitempty"`
	LastFour          string     `xml:"last_four,omitempty"`
	UpdatedAt         *time.Time `xml:"updated_at,omitempty"`
}
