package client

import (
	"context"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
)

// UpdateBillingInfo creates or replaces the payment instrument on file for
// the account. A declined or fraud-flagged card surfaces as a
// *TransactionFailedError.
func (c *Client) UpdateBillingInfo(ctx context.Context, accountCode string, info *model.BillingInfo) (*model.BillingInfo, error) {
	var updated model.BillingInfo
	if err := c.do(ctx, http.MethodPut, c.url("/accounts/"+accountCode+"/billing_info"), info, &updated); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("account_code", accountCode).
		Str("card_type", updated.CardType).
		Msg("Updated billing info")
	return &updated, nil
}

// GetBillingInfo retrieves the payment instrument on file for the account.
func (c *Client) GetBillingInfo(ctx context.Context, accountCode string) (*model.BillingInfo, error) {
	var info model.BillingInfo
	if err := c.do(ctx, http.MethodGet, c.url("/accounts/"+accountCode+"/billing_info"), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ClearBillingInfo removes the payment instrument on file for the account.
func (c *Client) ClearBillingInfo(ctx context.Context, accountCode string) error {
	return c.do(ctx, http.MethodDelete, c.url("/accounts/"+accountCode+"/billing_info"), nil, nil)
}
