// Package cms provides read-only access to the Contentful content APIs.
package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"folio/app/models"
)

// Mode selects between the delivery and preview APIs.
type Mode string

const (
	ModeDelivery Mode = "delivery"
	ModePreview  Mode = "preview"
)

// Default API hosts.
const (
	DeliveryHost = "cdn.contentful.com"
	PreviewHost  = "preview.contentful.com"

	maxResponseBytes = 10 * 1024 * 1024
	userAgent        = "folio/1.0"
)

// Client defines read access to CMS entries.
type Client interface {
	Entries(ctx context.Context, q Query) (*EntryCollection, error)
	Mode() Mode
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the Contentful REST API.
type HTTPClient struct {
	httpClient  *http.Client
	baseURL     string
	spaceID     string
	environment string
	accessToken string
	mode        Mode
}

// Options configures an HTTPClient.
type Options struct {
	SpaceID     string
	Environment string
	AccessToken string
	// Host is a bare host name or a full base URL.
	Host       string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Query describes an entries request.
type Query struct {
	ContentType string
	Limit       int
	Order       []string
	Exists      []string
	Equals      map[string]string
}

// EntryCollection is a page of entries.
type EntryCollection struct {
	Total int            `json:"total"`
	Skip  int            `json:"skip"`
	Limit int            `json:"limit"`
	Items []models.Entry `json:"items"`
}

// apiError is the error envelope returned by Contentful.
type apiError struct {
	Sys struct {
		Type string `json:"type"`
		ID   string `json:"id"`
	} `json:"sys"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

// NewHTTPClient creates a client for the given mode. A missing space or
// access token yields a config-missing error.
func NewHTTPClient(mode Mode, opts Options) (*HTTPClient, error) {
	op := fmt.Sprintf("cms.new_%s_client", mode)
	if strings.TrimSpace(opts.SpaceID) == "" {
		return nil, NewError(KindConfigMissing, op, fmt.Errorf("space id is not set"))
	}
	if strings.TrimSpace(opts.AccessToken) == "" {
		return nil, NewError(KindConfigMissing, op, fmt.Errorf("%s access token is not set", mode))
	}

	host := opts.Host
	if host == "" {
		host = DeliveryHost
		if mode == ModePreview {
			host = PreviewHost
		}
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	environment := opts.Environment
	if environment == "" {
		environment = "master"
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}

	return &HTTPClient{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(host, "/"),
		spaceID:     opts.SpaceID,
		environment: environment,
		accessToken: opts.AccessToken,
		mode:        mode,
	}, nil
}

// Mode returns the API this client reads from.
func (c *HTTPClient) Mode() Mode {
	return c.mode
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ContentType != "" {
		v.Set("content_type", q.ContentType)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if len(q.Order) > 0 {
		v.Set("order", strings.Join(q.Order, ","))
	}
	for _, field := range q.Exists {
		v.Set(field+"[exists]", "true")
	}
	for field, value := range q.Equals {
		v.Set(field, value)
	}
	return v
}

// Entries fetches entries matching q.
func (c *HTTPClient) Entries(ctx context.Context, q Query) (*EntryCollection, error) {
	const op = "cms.entries"

	endpoint := fmt.Sprintf("%s/spaces/%s/environments/%s/entries?%s",
		c.baseURL, url.PathEscape(c.spaceID), url.PathEscape(c.environment), q.Values().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewError(KindTransportFailure, op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, NewError(KindTransportFailure, op, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewError(KindTransportFailure, op, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Sys.Type == "Error" {
			return nil, NewError(KindTransportFailure, op,
				fmt.Errorf("%w: %d %s: %s", ErrUnexpectedStatus, resp.StatusCode, apiErr.Sys.ID, apiErr.Message))
		}
		return nil, NewError(KindTransportFailure, op, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode))
	}

	var collection EntryCollection
	if err := json.Unmarshal(body, &collection); err != nil {
		return nil, NewError(KindTransportFailure, op, fmt.Errorf("failed to parse response: %w", err))
	}
	return &collection, nil
}
