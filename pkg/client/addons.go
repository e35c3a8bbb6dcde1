package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreatePlanAddOn attaches a new add-on to the plan.
func (c *Client) CreatePlanAddOn(ctx context.Context, planCode string, addOn *model.AddOn) (*model.AddOn, error) {
	var created model.AddOn
	if err := c.do(ctx, http.MethodPost, c.url("/plans/"+planCode+"/add_ons"), addOn, &created); err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("plan_code", planCode).
		Str("add_on_code", created.AddOnCode).
		Msg("Created plan add-on")
	return &created, nil
}

// GetAddOn looks up a single add-on of the plan.
func (c *Client) GetAddOn(ctx context.Context, planCode, addOnCode string) (*model.AddOn, error) {
	var addOn model.AddOn
	if err := c.do(ctx, http.MethodGet, c.url("/plans/"+planCode+"/add_ons/"+addOnCode), nil, &addOn); err != nil {
		return nil, err
	}
	return &addOn, nil
}

// GetAddOns lists the add-ons of the plan, one page at a time.
func (c *Client) GetAddOns(ctx context.Context, planCode string) (*pagination.Page[model.AddOn], error) {
	return pagination.Fetch(ctx, c, c.listURL("/plans/"+planCode+"/add_ons"), decodeAddOns)
}

// DeleteAddOn removes the add-on from the plan.
func (c *Client) DeleteAddOn(ctx context.Context, planCode, addOnCode string) error {
	return c.do(ctx, http.MethodDelete, c.url("/plans/"+planCode+"/add_ons/"+addOnCode), nil, nil)
}

func decodeAddOns(data []byte) ([]model.AddOn, error) {
	var doc model.AddOns
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode add-ons: %w", err)
	}
	return doc.AddOns, nil
}
