package gateway

import (
	"context"
	"net/http"

	"swmra-client/internal/domain/user"
	appErrors "swmra-client/pkg/errors"
	"swmra-client/pkg/utils"
)

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*user.TokenResponse, error) {
	var out user.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, LoginPayload{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&out); err != nil {
		return nil, appErrors.NewAppError("DECODE_ERROR", "malformed token response", err)
	}

	return &out, nil
}

func (c *Client) Signup(ctx context.Context, payload SignupPayload) (*user.TokenResponse, error) {
	var out user.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, payload, &out); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&out); err != nil {
		return nil, appErrors.NewAppError("DECODE_ERROR", "malformed token response", err)
	}

	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*user.User, error) {
	var out user.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(&out); err != nil {
		return nil, appErrors.NewAppError("DECODE_ERROR", "malformed profile response", err)
	}

	return &out, nil
}
