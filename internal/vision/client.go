// Package vision is an HTTP client for the image-classifier sidecar that
// detects plant diseases and pests in field photos.
package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const defaultTimeout = 5 * time.Second

var (
	// ErrUnavailable indicates the sidecar is unreachable.
	ErrUnavailable = errors.New("vision service unavailable")
	// ErrDisabled indicates no sidecar URL is configured.
	ErrDisabled = errors.New("vision service not configured")
)

// Detection is one ranked label from the classifier.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"score"`
}

type classifyResponse struct {
	Predictions []Detection `json:"predictions"`
}

// Client calls POST /classify and GET /health on the sidecar.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a vision client. An empty baseURL yields a client whose
// calls return ErrDisabled.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a sidecar URL is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Classify uploads image as multipart field "image" and returns detections
// ordered by descending confidence.
func (c *Client) Classify(ctx context.Context, filename string, image io.Reader) ([]Detection, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, fmt.Errorf("copy image: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("vision service returned %d", resp.StatusCode)
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return result.Predictions, nil
}

// Health checks whether the sidecar is serving.
func (c *Client) Health(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", http.NoBody)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vision service unhealthy: %d", resp.StatusCode)
	}
	return nil
}
