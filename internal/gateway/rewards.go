package gateway

import (
	"context"
	"net/http"

	"swmra-client/internal/domain/reward"
)

// RewardSummary fetches the aggregate points view for the current user.
func (c *Client) RewardSummary(ctx context.Context) (*reward.Summary, error) {
	var out reward.Summary
	if err := c.do(ctx, http.MethodGet, "/rewards/summary", nil, nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
