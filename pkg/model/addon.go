package model

import (
	"encoding/xml"
	"time"
)

// AddOn is an optional extra attached to a plan.
type AddOn struct {
	XMLName                     xml.Name       `xml:"add_on"`
	AddOnCode                   string         `xml:"add_on_code,omitempty"`
	Name                        string         `xml:"name,omitempty"`
	UnitAmountInCents           *CurrencyCents `xml:"unit_amount_in_cents,omitempty"`
	DefaultQuantity             int            `xml:"default_quantity,omitempty"`
	DisplayQuantityOnHostedPage bool           `xml:"display_quantity_on_hosted_page,omitempty"`
	CreatedAt                   *time.Time     `xml:"created_at,omitempty"`
}

// AddOns is one page of add-ons as returned by the plan add-on list endpoint.
type AddOns struct {
	XMLName xml.Name `xml:"add_ons"`
	AddOns  []AddOn  `xml:"add_on"`
}
