// Package gateway holds the typed wrappers around the SWMRA REST API. All
// I/O the stores perform goes through a single Client, which injects the
// bearer token and raises the process-wide unauthorized signal on any 401.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"swmra-client/internal/logger"
	appErrors "swmra-client/pkg/errors"
)

// TokenSource yields the current session token, or "" when unauthenticated.
type TokenSource func() string

type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokenSource    TokenSource
	onUnauthorized func()
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// SetTokenSource wires the token read on every call. The gateway only reads
// the token; it never mutates session state itself.
func (c *Client) SetTokenSource(source TokenSource) {
	c.tokenSource = source
}

// SetUnauthorizedHandler registers the callback fired on any 401 response,
// regardless of which operation triggered it.
func (c *Client) SetUnauthorizedHandler(handler func()) {
	c.onUnauthorized = handler
}

// errorBody is the server's error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	callID := uuid.NewString()
	req.Header.Set("X-Request-ID", callID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.WithCallID(callID).Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return appErrors.NewAppError("NETWORK_ERROR", "request failed", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, method, path, callID); err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return appErrors.NewAppError("DECODE_ERROR", "malformed server response", err)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.tokenSource == nil {
		return
	}
	if token := c.tokenSource(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func (c *Client) checkStatus(resp *http.Response, method, path, callID string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var envelope errorBody
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode == http.StatusUnauthorized {
		logger.WithCallID(callID).Warn("unauthorized response",
			zap.String("method", method),
			zap.String("path", path),
		)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return appErrors.NewAppError("UNAUTHORIZED", "session expired", appErrors.ErrUnauthorized)
	}

	message := envelope.Detail
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	logger.WithCallID(callID).Warn("error response",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	return appErrors.NewAppError(fmt.Sprintf("HTTP_%d", resp.StatusCode), message, nil)
}
