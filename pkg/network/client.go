package network

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/lcalzada-xor/auditlens/pkg/config"
)

// Options configures a Client.
type Options struct {
	Timeout     time.Duration
	Proxy       string
	Concurrency int
	RateLimit   float64 // requests per second, 0 = unlimited
	UserAgent   string
}

// DefaultOptions returns the options used for page retrieval.
func DefaultOptions() Options {
	return Options{
		Timeout:     config.DefaultTimeout,
		Concurrency: config.DefaultConcurrency,
		UserAgent:   config.DefaultUserAgent,
	}
}

// Client wraps http.Client with rate limiting. It is safe for concurrent
// use; every request made through it draws from the same token bucket.
type Client struct {
	HTTPClient  *http.Client
	RateLimiter *RateLimiter
	UserAgent   string
}

// NewClient creates a new Client instance with connection pooling sized to
// the configured concurrency and optional rate limiting.
func NewClient(opts Options) *Client {
	concurrency := max(opts.Concurrency, 1)
	maxIdleConns := concurrency * 2
	maxIdleConnsPerHost := max(concurrency/2, 10)

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,

		MaxIdleConns:        maxIdleConns,
		MaxIdleConnsPerHost: maxIdleConnsPerHost,
		MaxConnsPerHost:     concurrency * 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	if opts.Proxy != "" {
		if pURL, err := url.Parse(opts.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(pURL)
		}
	}

	return &Client{
		HTTPClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		RateLimiter: NewRateLimiter(opts.RateLimit),
		UserAgent:   opts.UserAgent,
	}
}

// Do waits for the rate limiter, sets the User-Agent and sends req once.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	return c.HTTPClient.Do(req)
}
