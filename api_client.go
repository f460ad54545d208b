package seaswap

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
	"golang.org/x/time/rate"
)

// DefaultRequestTimeout bounds every request to the record store
const DefaultRequestTimeout = 30 * time.Second

// APIClient handles HTTP requests to the order record store
type APIClient struct {
	host    string
	client  *http.Client
	limiter *rate.Limiter
}

// NewAPIClient creates a new API client. A non-positive requestsPerSecond
// disables rate limiting.
func NewAPIClient(host string, timeout time.Duration, requestsPerSecond float64) *APIClient {
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &APIClient{
		host:    strings.TrimRight(host, "/"),
		client:  &http.Client{Timeout: timeout},
		limiter: limiter,
	}
}

// CreateOrderRecord stores record. Any non-2xx status or a body that is not
// JSON is an error.
func (c *APIClient) CreateOrderRecord(ctx context.Context, record *OrderRecord) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/orders", record)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var ack map[string]interface{}
	return c.decodeJSONResponse(resp, &ack)
}

// GetOrderRecord fetches a stored record by id
func (c *APIClient) GetOrderRecord(ctx context.Context, id string) (*OrderRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &InvalidParamError{Message: "record id is required"}
	}

	resp, err := c.doRequest(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	var record OrderRecord
	if err := c.decodeJSONResponse(resp, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// doRequest performs an HTTP request
func (c *APIClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.host+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// decodeJSONResponse reads the response body, checks HTTP status, and decodes JSON
func (c *APIClient) decodeJSONResponse(resp *http.Response, result interface{}) error {
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyStr := strings.TrimSpace(string(bodyBytes))
		if bodyStr == "" {
			bodyStr = resp.Status
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, bodyStr)
	}

	if err := json.Unmarshal(bodyBytes, result); err != nil {
		bodyStr := string(bodyBytes)
		if len(bodyStr) > 200 {
			bodyStr = bodyStr[:200] + "..."
		}
		return fmt.Errorf("failed to decode JSON response: %w (body: %s)", err, bodyStr)
	}

	return nil
}
