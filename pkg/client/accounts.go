package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreateAccount creates a new billing account and returns the record as
// echoed back by the remote system.
func (c *Client) CreateAccount(ctx context.Context, account *model.Account) (*model.Account, error) {
	var created model.Account
	if err := c.do(ctx, http.MethodPost, c.url("/accounts"), account, &created); err != nil {
		return nil, err
	}

	c.logger.Info().Str("account_code", created.AccountCode).Msg("Created account")
	return &created, nil
}

// GetAccount looks up a single account by its account code.
func (c *Client) GetAccount(ctx context.Context, accountCode string) (*model.Account, error) {
	var account model.Account
	if err := c.do(ctx, http.MethodGet, c.url("/accounts/"+accountCode), nil, &account); err != nil {
		return nil, err
	}
	return &account, nil
}

// GetAccounts lists accounts, one page at a time.
func (c *Client) GetAccounts(ctx context.Context) (*pagination.Page[model.Account], error) {
	return pagination.Fetch(ctx, c, c.listURL("/accounts"), decodeAccounts)
}

// UpdateAccount updates an existing account in place.
func (c *Client) UpdateAccount(ctx context.Context, accountCode string, account *model.Account) (*model.Account, error) {
	var updated model.Account
	if err := c.do(ctx, http.MethodPut, c.url("/accounts/"+accountCode), account, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CloseAccount closes the account. The record remains retrievable with
// state "closed".
func (c *Client) CloseAccount(ctx context.Context, accountCode string) error {
	if err := c.do(ctx, http.MethodDelete, c.url("/accounts/"+accountCode), nil, nil); err != nil {
		return err
	}

	c.logger.Info().Str("account_code", accountCode).Msg("Closed account")
	return nil
}

func decodeAccounts(data []byte) ([]model.Account, error) {
	var doc model.Accounts
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return doc.Accounts, nil
}
