package model

import (
	"encoding/xml"
	"time"
)

// Coupon is a discount redeemable against plans.
type Coupon struct {
	XMLName           xml.Name   `xml:"coupon"`
	CouponCode        string     `xml:"coupon_code,omitempty"`
	Name              string     `xml:"name,omitempty"`
	State             string     `xml:"state,omitempty"`
	DiscountType      string     `xml:"discount_type,omitempty"`
	DiscountPercent   string     `xml:"discount_percent,omitempty"`
	DiscountInCents   int        `xml:"discount_in_cents,omitempty"`
	SingleUse         bool       `xml:"single_use,omitempty"`
	AppliesToAllPlans bool       `xml:"applies_to_all_plans,omitempty"`
	MaxRedemptions    int        `xml:"max_redemptions,omitempty"`
	CreatedAt         *time.Time `xml:"created_at,omitempty"`
}

// Coupons is one page of coupons as returned by the list endpoint.
type Coupons struct {
	XMLName xml.Name `xml:"coupons"`
	Coupons []Coupon `xml:"coupon"`
}

// Discount types accepted on coupon creation.
const (
	DiscountTypePercent = "percent"
	DiscountTypeDollars = "dollars"
)
