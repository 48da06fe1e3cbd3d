package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-json-experiment/json"

	"github.com/jgoulah/energyview/pkg/models"
)

// DefaultEndpoint is the local development server for the energy dataset
const DefaultEndpoint = "http://localhost:3000/energy"

// StatusError is returned when the endpoint answers with a non-200 status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d: %s", e.StatusCode, e.Body)
}

// Client fetches the energy dataset over HTTP
type Client struct {
	endpoint string
	client   *http.Client
	timeout  time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for the fetch
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the overall request timeout. It applies to a copy of
// the HTTP client, whichever order the options are given in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a client for endpoint. An empty endpoint uses DefaultEndpoint.
func New(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: 30 * time.Second}
	}
	if c.timeout > 0 {
		hc := *c.client
		hc.Timeout = c.timeout
		c.client = &hc
	}
	return c
}

// Endpoint returns the URL the client fetches from
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Fetch issues one GET against the endpoint and decodes the body as a JSON
// array of records. Fields are not validated.
func (c *Client) Fetch(ctx context.Context) (models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: preview(body)}
	}

	ds := models.Dataset{}
	if err := json.Unmarshal(body, &ds); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	if ds == nil {
		// a literal null body still counts as a completed load
		ds = models.Dataset{}
	}
	return ds, nil
}

func preview(b []byte) string {
	if len(b) > 200 {
		return string(b[:200])
	}
	return string(b)
}
