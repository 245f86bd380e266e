// Package provider holds clients for external image-generation services.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/promptpix/promptpix/internal/domain"
)

const defaultClipdropURL = "https://clipdrop-api.co/text-to-image/v1"

// ClipdropClient implements domain.ImageProvider against the Clipdrop
// text-to-image API.
type ClipdropClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClipdropClient creates a Clipdrop provider client with a bounded
// request timeout.
func NewClipdropClient(apiKey string) *ClipdropClient {
	return &ClipdropClient{
		apiKey:  apiKey,
		baseURL: defaultClipdropURL,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClipdropClientWithURL creates a client against a custom endpoint.
// Used by tests to point at a local server.
func NewClipdropClientWithURL(apiKey, baseURL string) *ClipdropClient {
	c := NewClipdropClient(apiKey)
	c.baseURL = baseURL
	return c
}

// TextToImage submits the prompt and returns the generated image bytes.
// Any transport or non-200 response surfaces as ErrProviderUnavailable.
func (c *ClipdropClient) TextToImage(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("prompt", prompt); err != nil {
		return nil, fmt.Errorf("write prompt field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProviderUnavailable, err)
	}
	return image, nil
}
