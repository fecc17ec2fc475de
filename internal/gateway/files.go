package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/google/uuid"

	appErrors "swmra-client/pkg/errors"
)

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadFile posts one file as multipart form data and returns the stored
// URL. Each upload is independent so callers can retry failures by
// re-selecting files.
func (c *Client) UploadFile(ctx context.Context, name string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", name)
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", name, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", appErrors.NewAppError("NETWORK_ERROR", "upload failed", err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp, http.MethodPost, "/files/upload", ""); err != nil {
		return "", err
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", appErrors.NewAppError("DECODE_ERROR", "malformed upload response", err)
	}
	if out.URL == "" {
		return "", appErrors.NewAppError("DECODE_ERROR", "upload response missing url", nil)
	}

	return out.URL, nil
}
