package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/MurphyLo/flux"
)

// Client talks to a generation service endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new [Client] for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Stream sends a generation request and returns the stream of decoded
// updates. A non-2xx status is a hard failure detected here, before any
// stream processing begins; the returned stream owns the response body
// and releases it on Close or when ctx is cancelled.
func (c *Client) Stream(ctx context.Context, req flux.Request) (flux.Stream, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}

	body, err := c.buildRequestBody(req)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/x-ndjson")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("remote: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil, fmt.Errorf("remote: %w", flux.ErrMissingBody)
	}

	return newStream(ctx, resp.Body), nil
}

func (c *Client) buildRequestBody(req flux.Request) ([]byte, error) {
	model := req.Model
	if model == "" {
		model = defaultModel
	}

	apiReq := apiRequest{
		Model:    model,
		Stream:   true,
		Messages: make([]apiMessage, 0, len(req.Messages)),
	}
	for _, m := range req.Messages {
		apiReq.Messages = append(apiReq.Messages, apiMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	return json.Marshal(apiReq)
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("remote: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
		return fmt.Errorf("remote: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return fmt.Errorf("remote: %s: %s", apiErr.Error.Type, apiErr.Error.Message)
}
