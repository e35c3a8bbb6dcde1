package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreateSubscription subscribes the nested account to the plan identified by
// PlanCode. The remote system activates the subscription, charges the first
// period, and generates the corresponding invoice.
func (c *Client) CreateSubscription(ctx context.Context, subscription *model.Subscription) (*model.Subscription, error) {
	var created model.Subscription
	if err := c.do(ctx, http.MethodPost, c.url("/subscriptions"), subscription, &created); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("uuid", created.UUID).
		Str("state", created.State).
		Msg("Created subscription")
	return &created, nil
}

// GetSubscription looks up a single subscription by its uuid.
func (c *Client) GetSubscription(ctx context.Context, uuid string) (*model.Subscription, error) {
	var subscription model.Subscription
	if err := c.do(ctx, http.MethodGet, c.url("/subscriptions/"+uuid), nil, &subscription); err != nil {
		return nil, err
	}
	return &subscription, nil
}

// GetSubscriptions lists all subscriptions, one page at a time.
func (c *Client) GetSubscriptions(ctx context.Context) (*pagination.Page[model.Subscription], error) {
	return pagination.Fetch(ctx, c, c.listURL("/subscriptions"), decodeSubscriptions)
}

// GetAccountSubscriptions lists the subscriptions of one account, one page
// at a time.
func (c *Client) GetAccountSubscriptions(ctx context.Context, accountCode string) (*pagination.Page[model.Subscription], error) {
	return pagination.Fetch(ctx, c, c.listURL("/accounts/"+accountCode+"/subscriptions"), decodeSubscriptions)
}

// CancelSubscription cancels the subscription: it stops renewing but stays
// in effect until the current period ends. State transitions to "canceled".
func (c *Client) CancelSubscription(ctx context.Context, uuid string) (*model.Subscription, error) {
	var canceled model.Subscription
	if err := c.do(ctx, http.MethodPut, c.url("/subscriptions/"+uuid+"/cancel"), nil, &canceled); err != nil {
		return nil, err
	}

	c.logger.Info().Str("uuid", uuid).Msg("Canceled subscription")
	return &canceled, nil
}

// ReactivateSubscription reactivates a canceled subscription. State
// transitions back to "active".
func (c *Client) ReactivateSubscription(ctx context.Context, uuid string) (*model.Subscription, error) {
	var reactivated model.Subscription
	if err := c.do(ctx, http.MethodPut, c.url("/subscriptions/"+uuid+"/reactivate"), nil, &reactivated); err != nil {
		return nil, err
	}

	c.logger.Info().Str("uuid", uuid).Msg("Reactivated subscription")
	return &reactivated, nil
}

// UpdateSubscription applies an in-place change (plan, quantity, pricing) to
// the subscription. The update's Timeframe selects whether the change takes
// effect immediately ("now") or at the next renewal ("renewal").
func (c *Client) UpdateSubscription(ctx context.Context, uuid string, update *model.SubscriptionUpdate) (*model.Subscription, error) {
	var updated model.Subscription
	if err := c.do(ctx, http.MethodPut, c.url("/subscriptions/"+uuid), update, &updated); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("uuid", uuid).
		Str("timeframe", update.Timeframe).
		Msg("Updated subscription")
	return &updated, nil
}

func decodeSubscriptions(data []byte) ([]model.Subscription, error) {
	var doc model.Subscriptions
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode subscriptions: %w", err)
	}
	return doc.Subscriptions, nil
}
