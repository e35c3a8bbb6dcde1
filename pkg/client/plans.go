package client

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"

	"github.com/Sternrassler/recurly-billing-client/pkg/model"
	"github.com/Sternrassler/recurly-billing-client/pkg/pagination"
)

// CreatePlan creates a new subscribable plan.
func (c *Client) CreatePlan(ctx context.Context, plan *model.Plan) (*model.Plan, error) {
	var created model.Plan
	if err := c.do(ctx, http.MethodPost, c.url("/plans"), plan, &created); err != nil {
		return nil, err
	}

	c.logger.Info().Str("plan_code", created.PlanCode).Msg("Created plan")
	return &created, nil
}

// GetPlan looks up a single plan by its plan code. A deleted plan yields
// ErrNotFound.
func (c *Client) GetPlan(ctx context.Context, planCode string) (*model.Plan, error) {
	var plan model.Plan
	if err := c.do(ctx, http.MethodGet, c.url("/plans/"+planCode), nil, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

// GetPlans lists plans, one page at a time.
func (c *Client) GetPlans(ctx context.Context) (*pagination.Page[model.Plan], error) {
	return pagination.Fetch(ctx, c, c.listURL("/plans"), decodePlans)
}

// DeletePlan removes the plan. Existing subscriptions keep their plan terms
// remotely; new subscriptions can no longer reference it.
func (c *Client) DeletePlan(ctx context.Context, planCode string) error {
	if err := c.do(ctx, http.MethodDelete, c.url("/plans/"+planCode), nil, nil); err != nil {
		return err
	}

	c.logger.Info().Str("plan_code", planCode).Msg("Deleted plan")
	return nil
}

func decodePlans(data []byte) ([]model.Plan, error) {
	var doc model.Plans
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return doc.Plans, nil
}
