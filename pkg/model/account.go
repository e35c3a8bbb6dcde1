package model

import (
	"encoding/xml"
	"time"
)

// Account is a billing customer record in the remote system.
type Account struct {
	XMLName          xml.Name     `xml:"account"`
	AccountCode      string       `xml:"account_code,omitempty"`
	State            string       `xml:"state,omitempty"`
	Username         string       `xml:"username,omitempty"`
	Email            string       `xml:"email,omitempty"`
	FirstName        string       `xml:"first_name,omitempty"`
	LastName         string       `xml:"last_name,omitempty"`
	CompanyName      string       `xml:"company_name,omitempty"`
	AcceptLanguage   string       `xml:"accept_language,omitempty"`
	HostedLoginToken string       `xml:"hosted_login_token,omitempty"`
	CreatedAt        *time.Time   `xml:"created_at,omitempty"`
	Address          *Address     `xml:"address,omitempty"`
	BillingInfo      *BillingInfo `xml:"billing_info,omitempty"`
}

// Address is the postal address nested inside an account.
type Address struct {
	Address1 string `xml:"address1,omitempty"`
	Address2 string `xml:"address2,omitempty"`
	City     string `xml:"city,omitempty"`
	State    string `xml:"state,omitempty"`
	Zip      string `xml:"zip,omitempty"`
	Country  string `xml:"country,omitempty"`
	Phone    string `xml:"phone,omitempty"`
}

// Accounts is one page of accounts as returned by the list endpoint.
type Accounts struct {
	XMLName  xml.Name  `xml:"accounts"`
	Accounts []Account `xml:"account"`
}

// Account states reported by the remote system.
const (
	AccountStateActive = "active"
	AccountStateClosed = "closed"
)
