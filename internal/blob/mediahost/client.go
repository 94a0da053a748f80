// Package mediahost implements blob.Store against the HTTP media host's
// upload API.
package mediahost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/campushub/backend/internal/blob"
)

// Client uploads artifacts to the media host over its multipart API.
type Client struct {
	client *resty.Client
}

// New creates a media host client. baseURL must point at the host's API
// root; apiKey is sent on every request.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	c := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	if apiKey != "" {
		c.SetHeader("Authorization", "Bearer "+apiKey)
	}
	return &Client{client: c}
}

// uploadResponse matches the host's upload payload.
type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends content as a multipart form and returns the durable URL
// and public id chosen by the host.
func (c *Client) Upload(ctx context.Context, content []byte, filename, namespace string) (blob.UploadResult, error) {
	if len(content) == 0 {
		return blob.UploadResult{}, fmt.Errorf("empty content")
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetFileReader("file", filename, bytes.NewReader(content)).
		SetFormData(map[string]string{
			"folder":        namespace,
			"resource_type": "auto",
		}).
		Post("/upload")
	if err != nil {
		return blob.UploadResult{}, fmt.Errorf("media host request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		var ur uploadResponse
		if json.Unmarshal(resp.Body(), &ur) == nil && ur.Error.Message != "" {
			return blob.UploadResult{}, fmt.Errorf("media host status %d: %s", resp.StatusCode(), ur.Error.Message)
		}
		return blob.UploadResult{}, fmt.Errorf("media host status %d: %s", resp.StatusCode(), resp.String())
	}

	var ur uploadResponse
	if err := json.Unmarshal(resp.Body(), &ur); err != nil {
		return blob.UploadResult{}, fmt.Errorf("decode response: %w", err)
	}
	if ur.SecureURL == "" || ur.PublicID == "" {
		return blob.UploadResult{}, fmt.Errorf("media host returned incomplete reference")
	}
	return blob.UploadResult{URL: ur.SecureURL, PublicID: ur.PublicID}, nil
}
