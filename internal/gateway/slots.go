package gateway

import (
	"context"
	"net/http"
	"net/url"

	"swmra-client/internal/domain/request"
)

// AvailableSlots fetches the bookable windows for a (date, category) pair.
// Date is the server's expected YYYY-MM-DD form.
func (c *Client) AvailableSlots(ctx context.Context, date, category string) ([]request.SlotWindow, error) {
	query := url.Values{}
	query.Set("date", date)
	query.Set("category", category)

	var out []request.SlotWindow
	if err := c.do(ctx, http.MethodGet, "/slots/available", query, nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}
