package client

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// GetInvoices lists all invoices, one page at a time, newest first.
func (c *Client) GetInvoices(ctx context.Context) (*pagination.Page[model.Invoice], error) {
	return pagination.Fetch(ctx, c, c.listURL("/invoices"), decodeInvoices)
}

// GetAccountInvoices lists the invoices of one account, one page at a time,
// newest first.
func (c *Client) GetAccountInvoices(ctx context.Context, accountCode string) (*pagination.Page[model.Invoice], error) {
	return pagination.Fetch(ctx, c, c.listURL("/accounts/"+accountCode+"/invoices"), decodeInvoices)
}

func decodeInvoices(data []byte) ([]model.Invoice, error) {
	var doc model.Invoices
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return doc.Invoices, nil
}
