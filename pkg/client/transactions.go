package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreateTransaction submits a one-off payment attempt against the nested
// account. A gateway decline surfaces as a *TransactionFailedError carrying
// the provider's error code, merchant message and customer message.
func (c *Client) CreateTransaction(ctx context.Context, transaction *model.Transaction) (*model.Transaction, error) {
	var created model.Transaction
	if err := c.do(ctx, http.MethodPost, c.url("/transactions"), transaction, &created); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("uuid", created.UUID).
		Int("amount_in_cents", created.AmountInCents).
		Str("currency", created.Currency).
		Msg("Created transaction")
	return &created, nil
}

// GetTransaction looks up a single transaction by its uuid.
func (c *Client) GetTransaction(ctx context.Context, uuid string) (*model.Transaction, error) {
	var transaction model.Transaction
	if err := c.do(ctx, http.MethodGet, c.url("/transactions/"+uuid), nil, &transaction); err != nil {
		return nil, err
	}
	return &transaction, nil
}

// GetTransactions lists all transactions, one page at a time.
func (c *Client) GetTransactions(ctx context.Context) (*pagination.Page[model.Transaction], error) {
	return pagination.Fetch(ctx, c, c.listURL("/transactions"), decodeTransactions)
}

// GetAccountTransactions lists the transactions of one account, one page at
// a time. This includes card verification transactions the remote system
// performs when billing info is stored.
func (c *Client) GetAccountTransactions(ctx context.Context, accountCode string) (*pagination.Page[model.Transaction], error) {
	return pagination.Fetch(ctx, c, c.listURL("/accounts/"+accountCode+"/transactions"), decodeTransactions)
}

func decodeTransactions(data []byte) ([]model.Transaction, error) {
	var doc model.Transactions
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}
	return doc.Transactions, nil
}
