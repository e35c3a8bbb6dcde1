package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreateCoupon creates a new coupon.
func (c *Client) CreateCoupon(ctx context.Context, coupon *model.Coupon) (*model.Coupon, error) {
	var created model.Coupon
	if err := c.do(ctx, http.MethodPost, c.url("/coupons"), coupon, &created); err != nil {
		return nil, err
	}

	c.logger.Info().Str("coupon_code", created.CouponCode).Msg("Created coupon")
	return &created, nil
}

// GetCoupon looks up a single coupon by its coupon code.
func (c *Client) GetCoupon(ctx context.Context, couponCode string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := c.do(ctx, http.MethodGet, c.url("/coupons/"+couponCode), nil, &coupon); err != nil {
		return nil, err
	}
	return &coupon, nil
}

// GetCoupons lists coupons, one page at a time.
func (c *Client) GetCoupons(ctx context.Context) (*pagination.Page[model.Coupon], error) {
	return pagination.Fetch(ctx, c, c.listURL("/coupons"), decodeCoupons)
}

// DeleteCoupon deactivates the coupon; it can no longer be redeemed.
func (c *Client) DeleteCoupon(ctx context.Context, couponCode string) error {
	return c.do(ctx, http.MethodDelete, c.url("/coupons/"+couponCode), nil, nil)
}

func decodeCoupons(data []byte) ([]model.Coupon, error) {
	var doc model.Coupons
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode coupons: %w", err)
	}
	return doc.Coupons, nil
}
