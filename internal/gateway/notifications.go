package gateway

import (
	"context"
	"net/http"

	"swmra-client/internal/domain/notification"
)

// ListNotifications fetches the current user's notification backlog,
// newest first.
func (c *Client) ListNotifications(ctx context.Context) ([]notification.Notification, error) {
	var out []notification.Notification
	if err := c.do(ctx, http.MethodGet, "/notifications", nil, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}
