// Package square implements the REST client for the Square commerce API:
// catalog search, locations, orders, payments, and hosted payment links.
package square

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Endpoint paths consumed by the proxy. Catalog reads go through the generic
// object-type search endpoint.
const (
	EndpointLocations     = "/v2/locations"
	EndpointCatalogSearch = "/v2/catalog/search"
	EndpointOrders        = "/v2/orders"
	EndpointPayments      = "/v2/payments"
	EndpointPaymentLinks  = "/v2/online-checkout/payment-links"
)

const defaultTimeout = 30 * time.Second

// Logger defines the logging contract for client operations.
type Logger func(ctx context.Context, event string, fields map[string]any)

// ClientConfig configures the Client.
type ClientConfig struct {
	AccessToken string
	BaseURL     string
	Version     string
	Timeout     time.Duration
	HTTPClient  *http.Client
	Logger      Logger
}

// Client talks to the Square REST API with bearer auth, a pinned API
// version header, and JSON bodies.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
	logger     Logger
}

// NewClient constructs a Client, validating required credentials.
func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.AccessToken)
	if token == "" {
		return nil, errors.New("square: access token is required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("square: base url is required")
	}
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		return nil, errors.New("square: api version is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		token:      token,
		version:    version,
		logger:     logger,
	}, nil
}

// Do issues one upstream call and returns the raw response body. Non-2xx
// statuses surface as *UpstreamError; no retry is attempted here.
func (c *Client) Do(ctx context.Context, method, endpoint string, body []byte) (json.RawMessage, error) {
	if c == nil {
		return nil, errors.New("square: client is nil")
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("square: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Square-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger(ctx, "square.request_failed", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("square: %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("square: read response: %w", err)
	}

	c.logger(ctx, "square.request", map[string]any{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"latency":  time.Since(start).String(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamErrorFromResponse(resp.StatusCode, payload)
	}

	return payload, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any) (json.RawMessage, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("square: encode request: %w", err)
	}
	return c.Do(ctx, http.MethodPost, endpoint, encoded)
}

// ListLocations fetches the merchant's locations.
func (c *Client) ListLocations(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, EndpointLocations, nil)
}

// SearchCatalog runs the generic catalog search with the given body. The
// body is passed through as-is so the caller controls cache keying.
func (c *Client) SearchCatalog(ctx context.Context, body []byte) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, EndpointCatalogSearch, body)
}

// CreateOrder creates an order. The request must carry a per-attempt
// idempotency key.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return nil, errors.New("square: idempotency key is required")
	}
	return c.post(ctx, EndpointOrders, req)
}

// CreatePayment charges a tokenised payment source.
func (c *Client) CreatePayment(ctx context.Context, req CreatePaymentRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return nil, errors.New("square: idempotency key is required")
	}
	return c.post(ctx, EndpointPayments, req)
}

// CreatePaymentLink builds a hosted checkout link for an order.
func (c *Client) CreatePaymentLink(ctx context.Context, req CreatePaymentLinkRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.IdempotencyKey) == "" {
		return nil, errors.New("square: idempotency key is required")
	}
	return c.post(ctx, EndpointPaymentLinks, req)
}

type upstreamErrorBody struct {
	Errors []struct {
		Category string `json:"category"`
		Code     string `json:"code"`
		Detail   string `json:"detail"`
	} `json:"errors"`
}

func upstreamErrorFromResponse(status int, payload []byte) *UpstreamError {
	var decoded upstreamErrorBody
	if err := json.Unmarshal(payload, &decoded); err == nil && len(decoded.Errors) > 0 {
		first := decoded.Errors[0]
		return &UpstreamError{
			StatusCode: status,
			Code:       first.Code,
			Detail:     first.Detail,
		}
	}
	return &UpstreamError{StatusCode: status, Detail: http.StatusText(status)}
}
