// Package fetch performs the bounded HTTP GETs the resolver and the name
// resolver depend on. Redirects are followed manually so the hop count can
// be capped against misconfigured or malicious redirect chains.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/subwatch/subwatch/internal/domain"
)

const (
	// DefaultTimeout bounds one fetch including all redirect hops.
	DefaultTimeout = 5 * time.Second
	// DefaultMaxRedirects caps 301/302 hops per fetch.
	DefaultMaxRedirects = 10

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 4 << 20
)

// Config holds fetch client settings.
type Config struct {
	UserAgent    string
	Timeout      time.Duration
	MaxRedirects int
}

// Request describes one GET. Zero-value fields fall back to client defaults.
type Request struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// Response is the final (post-redirect) response of a fetch.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	FinalURL   string
}

// Userinfo returns the subscription-userinfo header value, empty when absent.
func (r *Response) Userinfo() string {
	return r.Header.Get("Subscription-Userinfo")
}

// Client is a reusable fetch client over a shared connection pool. Safe for
// concurrent use.
type Client struct {
	http         *http.Client
	userAgent    string
	timeout      time.Duration
	maxRedirects int
	logger       *zap.Logger
}

// New creates a fetch client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	return &Client{
		http: &http.Client{
			// Hops are followed manually in Do so the cap applies.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:    cfg.UserAgent,
		timeout:      cfg.Timeout,
		maxRedirects: cfg.MaxRedirects,
		logger:       logger,
	}
}

// Get fetches a URL with the client defaults.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.Do(ctx, Request{URL: rawURL})
}

// Do fetches a URL, following up to the configured number of 301/302 hops.
// Network, timeout and TLS failures come back wrapped in domain.ErrNetwork.
// Never retries.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ua := req.UserAgent
	if ua == "" {
		ua = c.userAgent
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := req.URL
	for hop := 0; ; hop++ {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: build request for %s: %v", domain.ErrNetwork, target, err)
		}
		if ua != "" {
			httpReq.Header.Set("User-Agent", ua)
		}

		res, err := c.http.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}

		if res.StatusCode == http.StatusMovedPermanently || res.StatusCode == http.StatusFound {
			loc := res.Header.Get("Location")
			_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxBodyBytes))
			_ = res.Body.Close()
			if loc == "" {
				return nil, fmt.Errorf("%w: redirect from %s without location", domain.ErrNetwork, target)
			}
			if hop >= c.maxRedirects {
				return nil, fmt.Errorf("%w: redirect limit %d exceeded at %s", domain.ErrNetwork, c.maxRedirects, target)
			}
			next, err := resolveLocation(target, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: bad redirect target %q: %v", domain.ErrNetwork, loc, err)
			}
			c.logger.Debug("following redirect",
				zap.String("from", target),
				zap.String("to", next),
				zap.Int("hop", hop+1),
			)
			target = next
			continue
		}

		body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
		_ = res.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: read body from %s: %v", domain.ErrNetwork, target, err)
		}
		return &Response{
			StatusCode: res.StatusCode,
			Header:     res.Header,
			Body:       body,
			FinalURL:   target,
		}, nil
	}
}

// resolveLocation resolves a possibly relative Location header against the
// request URL.
func resolveLocation(base, loc string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	locURL, err := url.Parse(loc)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(locURL).String(), nil
}
