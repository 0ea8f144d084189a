package api

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	clientTimeout  = time.Minute
	defaultBaseURL = "https://www.reddit.com"
	// permalinkBase prefixes relative permalinks and subreddit urls.
	permalinkBase = "https://reddit.com"
)

// Client issues read-only requests against reddit's public JSON API.
// It holds no mutable state between calls and is safe for concurrent use.
type Client struct {
	client  *http.Client
	base    *url.URL
	agents  UserAgentPicker
	limiter *rate.Limiter
	log     zerolog.Logger
}

func DefaultClient() *Client {
	baseURL, _ := url.Parse(defaultBaseURL)
	return &Client{
		client: &http.Client{
			Transport: &http.Transport{
				TLSNextProto: map[string]func(authority string, c *tls.Conn) http.RoundTripper{},
			},
			Timeout: clientTimeout,
		},
		base:   baseURL,
		agents: RandomUserAgent,
		log:    zerolog.Nop(),
	}
}

func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.client.Timeout = timeout
	return c
}

func (c *Client) WithBaseURL(u *url.URL) *Client {
	c.base = u
	return c
}

// WithHTTPClient replaces the underlying transport client entirely.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.client = hc
	return c
}

func (c *Client) WithLogger(log zerolog.Logger) *Client {
	c.log = log
	return c
}

// WithUserAgents replaces the user-agent selection, e.g. with a deterministic
// rotation in tests.
func (c *Client) WithUserAgents(p UserAgentPicker) *Client {
	c.agents = p
	return c
}

// WithRateLimit throttles outgoing requests. A non-positive limit disables throttling.
func (c *Client) WithRateLimit(limit rate.Limit, burst int) *Client {
	if limit <= 0 {
		c.limiter = nil
		return c
	}
	if burst < 1 {
		burst = 1
	}
	c.limiter = rate.NewLimiter(limit, burst)
	return c
}

func (c *Client) BaseURL() *url.URL {
	return c.base
}

// endpoint joins the path segments onto the base url and attaches the query,
// always including raw_json=1.
func (c *Client) endpoint(values url.Values, segments ...string) string {
	u := c.base.JoinPath(segments...)
	if values == nil {
		values = url.Values{}
	}
	values.Set("raw_json", "1")
	u.RawQuery = values.Encode()
	return u.String()
}

// getJSON performs a GET request and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, surl string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: %s", err, "rate limiter wait failed")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, surl, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrCreateRequest, err)
	}
	req.Header.Set("User-Agent", c.agents())
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", err, "error fetching from reddit")
	}
	defer res.Body.Close()

	c.log.Debug().
		Str("method", req.Method).
		Str("url", surl).
		Int("status", res.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("reddit request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &StatusError{StatusCode: res.StatusCode, Status: http.StatusText(res.StatusCode), URL: surl}
	}

	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: couldn't decode response: %s", ErrInvalidResponse, err)
	}

	return nil
}

// Reader is the read-only surface front-ends depend on.
type Reader interface {
	SubredditPosts(ctx context.Context, opts ListingOptions) (*PostCollection, error)
	AllPosts(ctx context.Context, opts FeedOptions) (*PostCollection, error)
	PopularPosts(ctx context.Context, opts PopularOptions) (*PostCollection, error)
	SearchPosts(ctx context.Context, opts SearchOptions) (*PostCollection, error)
	SearchSubreddits(ctx context.Context, opts SubredditSearchOptions) (*SubredditCollection, error)
	SubredditAbout(ctx context.Context, subreddit string) (*Subreddit, error)
	PostByID(ctx context.Context, subreddit, postID string) (*Post, error)
	PostWithComments(ctx context.Context, opts CommentsOptions) (*PostWithComments, error)
}

var _ Reader = (*Client)(nil)
