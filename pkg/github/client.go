package github

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/davecthomas/ghdeps/pkg/cache"
)

const (
	defaultBaseURL = "https://api.github.com"
	defaultPerPage = 100
	acceptHeader   = "application/vnd.github.v3+json"
	httpTimeout    = 30 * time.Second
)

// Client issues authenticated requests against the GitHub REST API.
// The zero value is not usable; construct with [NewClient].
type Client struct {
	baseURL  string
	token    string
	http     *http.Client
	backoff  Backoff
	gate     *RateGate
	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
	perPage  int
	logger   *log.Logger
	metrics  *Metrics
	sleep    func(context.Context, time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API root (tests, GHE).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithCache enables response caching for single-page content lookups.
func WithCache(store cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// WithLogger attaches a logger. By default the client is silent.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithRequestsPerSecond paces outgoing requests client-side on top of the
// server's own quota accounting. Zero or negative disables pacing.
func WithRequestsPerSecond(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithBackoff replaces the retry ladder.
func WithBackoff(b Backoff) Option {
	return func(c *Client) { c.backoff = b }
}

// WithPerPage changes the default page size injected when the caller's
// query omits one.
func WithPerPage(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.perPage = n
		}
	}
}

// NewClient creates a GitHub API client. The bearer token is supplied by
// the caller; pass "" for unauthenticated requests (much lower quota).
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: httpTimeout},
		backoff: NewBackoff(),
		cache:   cache.NewNullCache(),
		perPage: defaultPerPage,
		logger:  log.New(io.Discard),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.gate = NewRateGate(c.logger)
	c.gate.metrics = c.metrics
	c.gate.sleep = c.sleep
	return c
}

// Gate returns the client's rate-limit gate. Callers running several
// clients in one process should share a single gate; see [Client.ShareGate].
func (c *Client) Gate() *RateGate { return c.gate }

// ShareGate makes this client respect another client's cooldown clock.
func (c *Client) ShareGate(g *RateGate) {
	if g != nil {
		c.gate = g
	}
}

// get performs one HTTP GET with the fixed API headers. It is the only
// place requests leave the process, so pacing and instrumentation live here.
func (c *Client) get(ctx context.Context, rawURL string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", acceptHeader)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		c.metrics.IncRequest("error")
		return nil, err
	}
	c.metrics.IncRequest(statusClass(resp.StatusCode))
	return resp, nil
}
