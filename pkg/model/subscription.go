package model

import (
	"encoding/xml"
	"time"
)

// Subscription binds an account to a plan.
//
// On create, PlanCode and the nested Account identify the binding; on read,
// the remote system echoes the resolved Plan and Account records instead.
type Subscription struct {
	XMLName                xml.Name   `xml:"subscription"`
	UUID                   string     `xml:"uuid,omitempty"`
	State                  string     `xml:"state,omitempty"`
	PlanCode               string     `xml:"plan_code,omitempty"`
	Plan                   *Plan      `xml:"plan,omitempty"`
	Account                *Account   `xml:"account,omitempty"`
	Currency               string     `xml:"currency,omitempty"`
	UnitAmountInCents      int        `xml:"unit_amount_in_cents,omitempty"`
	Quantity               int        `xml:"quantity,omitempty"`
	ActivatedAt            *time.Time `xml:"activated_at,omitempty"`
	CanceledAt             *time.Time `xml:"canceled_at,omitempty"`
	ExpiresAt              *time.Time `xml:"expires_at,omitempty"`
	CurrentPeriodStartedAt *time.Time `xml:"current_period_started_at,omitempty"`
	CurrentPeriodEndsAt    *time.Time `xml:"current_period_ends_at,omitempty"`
	TrialStartedAt         *time.Time `xml:"trial_started_at,omitempty"`
	TrialEndsAt            *time.Time `xml:"trial_ends_at,omitempty"`
}

// Subscriptions is one page of subscriptions as returned by the list
// endpoints.
type Subscriptions struct {
	XMLName       xml.Name       `xml:"subscriptions"`
	Subscriptions []Subscription `xml:"subscription"`
}

// SubscriptionUpdate describes an in-place change to an existing
// subscription. Timeframe selects when the change takes effect.
type SubscriptionUpdate struct {
	XMLName           xml.Name `xml:"subscription"`
	Timeframe         string   `xml:"timeframe,omitempty"`
	PlanCode          string   `xml:"plan_code,omitempty"`
	Quantity          int      `xml:"quantity,omitempty"`
	UnitAmountInCents int      `xml:"unit_amount_in_cents,omitempty"`
}

// Timeframes accepted by subscription updates.
const (
	TimeframeNow     = "now"
	TimeframeRenewal = "renewal"
)

// Subscription lifecycle states reported by the remote system.
const (
	SubscriptionStateActive   = "active"
	SubscriptionStateCanceled = "canceled"
	SubscriptionStateExpired  = "expired"
)
