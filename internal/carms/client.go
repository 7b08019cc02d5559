package carms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kdcar/kdcar-backend/pkg/logger"
)

const (
	apiKeyHeader         = "x-api-key"
	maxAssetBytes  int64 = 25 << 20
	maxJSONBytes   int64 = 10 << 20
	defaultAccepts       = "application/json"
)

// Config locates the inventory API.
type Config struct {
	BaseURL string
	APIKey  string
}

// Normalize trims both values and strips one trailing slash from the base URL.
func (c Config) Normalize() Config {
	base := strings.TrimSpace(c.BaseURL)
	base = strings.TrimSuffix(base, "/")
	return Config{BaseURL: base, APIKey: strings.TrimSpace(c.APIKey)}
}

// Configured reports whether a base URL is set.
func (c Config) Configured() bool {
	return strings.TrimSpace(c.BaseURL) != ""
}

// Client talks to the CARMS inventory API. Every call is a single request
// with no retries and no caching.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets the logger used for best-effort warnings.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		if logg != nil {
			c.logg = logg
		}
	}
}

// NewClient builds a client for cfg. The client is usable even when cfg is
// not configured; every call then fails with ErrNotConfigured.
func NewClient(cfg Config, opts ...Option) *Client {
	client := &Client{
		cfg:        cfg.Normalize(),
		httpClient: http.DefaultClient,
		logg:       logger.Nop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client
}

// BaseURL returns the normalized base URL, empty when not configured.
func (c *Client) BaseURL() string {
	if c == nil {
		return ""
	}
	return c.cfg.BaseURL
}

// Configured reports whether the client has somewhere to send requests.
func (c *Client) Configured() bool {
	return c != nil && c.cfg.Configured()
}

// ListCars fetches one page of vehicles. query is forwarded as is.
func (c *Client) ListCars(ctx context.Context, query url.Values) (*ListResponse, error) {
	endpoint := "/cars"
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var payload ListResponse
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, newAPIError(payload.Error, payload.Code)
	}
	return &payload, nil
}

// GetCar fetches a single vehicle by slug. A 404 surfaces as a *RequestError
// for which IsNotFound is true.
func (c *Client) GetCar(ctx context.Context, slug string) (*RawCar, error) {
	var payload SingleResponse
	if err := c.getJSON(ctx, "/cars/"+url.PathEscape(slug), &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, newAPIError(payload.Error, payload.Code)
	}
	if payload.Data == nil {
		return nil, &APIError{Message: "CARMS response did not contain a car"}
	}
	return payload.Data, nil
}

// Asset is a binary resource fetched from the inventory host.
type Asset struct {
	URL         string
	ContentType string
	Body        []byte
}

// AssetURL joins path onto the origin (scheme and host) of the base URL.
func (c *Client) AssetURL(path string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse carms base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("carms base url %q is not absolute", c.cfg.BaseURL)
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base.Scheme + "://" + base.Host + path, nil
}

// FetchAsset downloads path from the inventory host's origin.
func (c *Client) FetchAsset(ctx context.Context, path string) (*Asset, error) {
	assetURL, err := c.AssetURL(path)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, assetURL, "")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.requestError(ctx, resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read carms asset: %w", err)
	}
	if int64(len(body)) > maxAssetBytes {
		return nil, fmt.Errorf("carms asset exceeds %d bytes", maxAssetBytes)
	}

	return &Asset{
		URL:         assetURL,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dest any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	resp, err := c.do(ctx, c.cfg.BaseURL+endpoint, defaultAccepts)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.requestError(ctx, resp)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONBytes)).Decode(dest); err != nil {
		return fmt.Errorf("decode CARMS response: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, target, accept string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build CARMS request: %w", err)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("CARMS request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) requestError(ctx context.Context, resp *http.Response) *RequestError {
	reqErr := &RequestError{
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJSONBytes))
	if err != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "carms.read_error_body_failed")
		return reqErr
	}
	reqErr.Body = string(body)
	return reqErr
}
