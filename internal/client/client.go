package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kjstillabower/weather-dashboard/internal/models"
	"github.com/kjstillabower/weather-dashboard/internal/observability"
)

// DefaultAPIURL is the weatherapi.com current-conditions endpoint.
const DefaultAPIURL = "http://api.weatherapi.com/v1/current.json"

// maxBodyBytes bounds how much of a provider response is read.
const maxBodyBytes = 1 << 20

type WeatherClient interface {
	// GetCurrent issues one lookup. A non-nil error means the transport failed;
	// provider-reported failures come back as a Response with Body.Error or a 4xx status.
	GetCurrent(ctx context.Context, city string) (Response, error)
	ValidateAPIKey(ctx context.Context) error
}

var (
	ErrInvalidAPIKey = errors.New("invalid API key")
	ErrTransport     = errors.New("transport failure")
)

// Response is a decoded provider reply together with its HTTP status.
type Response struct {
	StatusCode int
	Body       models.ProviderResponse
}

type WeatherAPIClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewWeatherAPIClient(apiKey, apiURL string, timeout time.Duration) (*WeatherAPIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: API key is required", ErrInvalidAPIKey)
	}
	if len(apiKey) < 10 {
		return nil, fmt.Errorf("%w: API key appears invalid (too short)", ErrInvalidAPIKey)
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	return &WeatherAPIClient{
		apiKey:  apiKey,
		apiURL:  apiURL,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *WeatherAPIClient) GetCurrent(ctx context.Context, city string) (Response, error) {
	start := time.Now()

	req, err := c.buildRequest(ctx, city)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return Response{}, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}

	if corrID := CorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		return Response{}, fmt.Errorf("%w: http request failed: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	var body models.ProviderResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return Response{}, fmt.Errorf("%w: parse response (HTTP %d): %w", ErrTransport, resp.StatusCode, err)
	}

	// A 5xx without the provider's error object is an outage, not an answer.
	if resp.StatusCode >= http.StatusInternalServerError && !body.Failed() {
		return Response{}, fmt.Errorf("%w: HTTP %d", ErrTransport, resp.StatusCode)
	}

	// A non-error answer must carry both result objects; "{}" or "null" is malformed.
	if resp.StatusCode < http.StatusBadRequest && !body.Failed() && !hasResult(raw) {
		return Response{}, fmt.Errorf("%w: parse response (HTTP %d): missing location/current", ErrTransport, resp.StatusCode)
	}

	return Response{StatusCode: resp.StatusCode, Body: body}, nil
}

func hasResult(raw []byte) bool {
	var present struct {
		Location json.RawMessage `json:"location"`
		Current  json.RawMessage `json:"current"`
	}
	if err := json.Unmarshal(raw, &present); err != nil {
		return false
	}
	return isObject(present.Location) && isObject(present.Current)
}

func isObject(m json.RawMessage) bool {
	return bytes.HasPrefix(bytes.TrimSpace(m), []byte("{"))
}

func (c *WeatherAPIClient) buildRequest(ctx context.Context, city string) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := baseURL.Query()
	params.Set("key", c.apiKey)
	params.Set("q", city)
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// ValidateAPIKey performs one lookup and reports whether the provider accepted the key.
func (c *WeatherAPIClient) ValidateAPIKey(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := c.buildRequest(ctx, "London")
	if err != nil {
		return fmt.Errorf("build validation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("validation request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: API key is invalid or disabled", ErrInvalidAPIKey)
	default:
		return fmt.Errorf("validation failed: HTTP %d", resp.StatusCode)
	}
}

type correlationIDKey struct{}

// WithCorrelationID returns ctx carrying id, which is forwarded to the provider.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationID returns the id stored by WithCorrelationID, or "".
func CorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}
