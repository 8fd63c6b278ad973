package forecast

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrFetchFailed is returned once all fetch attempts are exhausted.
var ErrFetchFailed = errors.New("forecast fetch failed")

const (
	defaultBaseURL     = "https://api.openweathermap.org/data/2.5/onecall"
	defaultIconBaseURL = "https://openweathermap.org/img/wn"

	defaultMaxAttempts = 3
	defaultRetryWait   = 5 * time.Second
)

// Config controls the forecast client. Zero values fall back to the
// provider defaults above.
type Config struct {
	APIKey string

	// Lang is the display language for weather descriptions.
	Lang string

	BaseURL     string
	IconBaseURL string

	// MaxAttempts is the total number of fetch attempts per call.
	MaxAttempts int

	// RetryWait is the fixed pause between consecutive attempts.
	RetryWait time.Duration
}

// Query identifies what to fetch. Address, when set, is attached to the
// returned document for later use by the composers.
type Query struct {
	Lat     float64
	Lon     float64
	Address string
}

// Client fetches forecast documents with bounded retry and a circuit breaker.
type Client struct {
	cfg     Config
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
	log     *zap.Logger
}

// NewClient creates a forecast Client around the shared HTTP client.
func NewClient(httpClient *http.Client, cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.IconBaseURL == "" {
		cfg.IconBaseURL = defaultIconBaseURL
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = defaultRetryWait
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "forecast",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		cfg:     cfg,
		client:  httpClient,
		circuit: cb,
		log:     log,
	}
}

// Fetch retrieves the forecast document for the queried coordinates.
// Every non-success response counts one attempt regardless of its status
// class; after MaxAttempts the call fails with ErrFetchFailed.
func (c *Client) Fetch(ctx context.Context, q Query) (*Document, error) {
	result, err := c.circuit.Execute(func() (interface{}, error) {
		return c.fetchWithRetry(ctx, q)
	})
	if err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	doc, ok := result.(*Document)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type from circuit breaker", ErrFetchFailed)
	}
	return doc, nil
}

func (c *Client) fetchWithRetry(ctx context.Context, q Query) (*Document, error) {
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		doc, err := c.fetchOnce(ctx, q)
		if err == nil {
			return doc, nil
		}

		c.log.Warn("forecast request failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.MaxAttempts),
			zap.Error(err))

		if attempt < c.cfg.MaxAttempts {
			timer := time.NewTimer(c.cfg.RetryWait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrFetchFailed, c.cfg.MaxAttempts)
}

func (c *Client) fetchOnce(ctx context.Context, q Query) (*Document, error) {
	values := url.Values{}
	values.Set("lat", strconv.FormatFloat(q.Lat, 'f', -1, 64))
	values.Set("lon", strconv.FormatFloat(q.Lon, 'f', -1, 64))
	values.Set("appid", c.cfg.APIKey)
	values.Set("units", "metric")
	values.Set("lang", c.cfg.Lang)

	u := fmt.Sprintf("%s?%s", c.cfg.BaseURL, values.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode forecast payload: %w", err)
	}

	doc.Address = q.Address
	return &doc, nil
}

// FetchIcon downloads the weather icon for the given code and returns it
// base64-encoded. Icon fetches are never retried.
func (c *Client) FetchIcon(ctx context.Context, code string) (string, error) {
	u := fmt.Sprintf("%s/%s@2x.png", strings.TrimRight(c.cfg.IconBaseURL, "/"), code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("icon %s: unexpected status code %d", code, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}
