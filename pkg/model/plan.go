package model

import (
	"encoding/xml"
	"time"
)

// Plan is a subscribable product tier.
type Plan struct {
	XMLName             xml.Name       `xml:"plan"`
	PlanCode            string         `xml:"plan_code,omitempty"`
	Name                string         `xml:"name,omitempty"`
	Description         string         `xml:"description,omitempty"`
	PlanIntervalLength  int            `xml:"plan_interval_length,omitempty"`
	PlanIntervalUnit    string         `xml:"plan_interval_unit,omitempty"`
	TrialIntervalLength int            `xml:"trial_interval_length,omitempty"`
	TrialIntervalUnit   string         `xml:"trial_interval_unit,omitempty"`
	SetupFeeInCents     *CurrencyCents `xml:"setup_fee_in_cents,omitempty"`
	UnitAmountInCents   *CurrencyCents `xml:"unit_amount_in_cents,omitempty"`
	CreatedAt           *time.Time     `xml:"created_at,omitempty"`
}

// Plans is one page of plans as returned by the list endpoint.
type Plans struct {
	XMLName xml.Name `xml:"plans"`
	Plans   []Plan   `xml:"plan"`
}

// Interval units accepted for plan and trial lengths.
const (
	IntervalUnitDays   = "days"
	IntervalUnitMonths = "months"
)
