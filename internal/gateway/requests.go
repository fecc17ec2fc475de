package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"swmra-client/internal/domain/request"
	appErrors "swmra-client/pkg/errors"
	"swmra-client/pkg/utils"
)

// pageSize matches the server's fixed request-list page length.
const pageSize = 20

type cancelPayload struct {
	Reason string `json:"reason,omitempty"`
}

type confirmSlotPayload struct {
	SlotStart string `json:"slot_start"`
	SlotEnd   string `json:"slot_end"`
}

func (c *Client) ListRequests(ctx context.Context, filters request.Filters) (*request.Page, error) {
	query := url.Values{}
	if filters.Status != "" {
		query.Set("status", filters.Status)
	}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}
	query.Set("skip", strconv.Itoa((page-1)*pageSize))

	var out request.Page
	if err := c.do(ctx, http.MethodGet, "/requests", query, nil, &out); err != nil {
		return nil, err
	}
	for i := range out.Items {
		if !out.Items[i].Status.Known() {
			return nil, appErrors.NewAppError("DECODE_ERROR",
				fmt.Sprintf("unknown request status %q", out.Items[i].Status), nil)
		}
	}

	return &out, nil
}

func (c *Client) CreateRequest(ctx context.Context, payload request.Payload) (*request.PickupRequest, error) {
	return c.requestCall(ctx, http.MethodPost, "/requests", payload)
}

func (c *Client) GetRequest(ctx context.Context, id int64) (*request.PickupRequest, error) {
	return c.requestCall(ctx, http.MethodGet, fmt.Sprintf("/requests/%d", id), nil)
}

func (c *Client) CancelRequest(ctx context.Context, id int64, reason string) (*request.PickupRequest, error) {
	return c.requestCall(ctx, http.MethodPost, fmt.Sprintf("/requests/%d/cancel", id), cancelPayload{Reason: reason})
}

func (c *Client) ConfirmSlot(ctx context.Context, id int64, slot request.SlotWindow) (*request.PickupRequest, error) {
	payload := confirmSlotPayload{SlotStart: slot.Start, SlotEnd: slot.End}
	return c.requestCall(ctx, http.MethodPost, fmt.Sprintf("/requests/%d/confirm-slot", id), payload)
}

func (c *Client) requestCall(ctx context.Context, method, path string, body any) (*request.PickupRequest, error) {
	var out request.PickupRequest
	if err := c.do(ctx, method, path, nil, body, &out); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&out); err != nil {
		return nil, appErrors.NewAppError("DECODE_ERROR", "malformed request record", err)
	}
	if !out.Status.Known() {
		return nil, appErrors.NewAppError("DECODE_ERROR",
			fmt.Sprintf("unknown request status %q", out.Status), nil)
	}

	return &out, nil
}
