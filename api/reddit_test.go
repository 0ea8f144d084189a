package api

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/handsomefox/redditmcp/internal/reddittest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestClient(t *testing.T) (*Client, *reddittest.Upstream) {
	t.Helper()
	upstream := reddittest.New(t)
	return DefaultClient().WithBaseURL(upstream.BaseURL()), upstream
}

func TestBaseURL(t *testing.T) {
	t.Parallel()
	_, err := url.Parse(defaultBaseURL)
	assert.NoError(t, err)
	assert.Equal(t, defaultBaseURL, DefaultClient().BaseURL().String())
}

func TestURLFormatting(t *testing.T) {
	t.Parallel()
	const correct = "https://www.reddit.com/r/example/top.json?limit=10&raw_json=1&t=all"
	var (
		opts = FeedOptions{Sort: "top", Time: "all", Limit: 10}
		c    = DefaultClient()
		res  = c.endpoint(feedValues(opts), "r", "example", "top.json")
	)
	assert.Equal(t, correct, res, "incorrect url format")
}

func TestClampLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{name: "zero uses default", limit: 0, want: DefaultLimit},
		{name: "negative", limit: -5, want: 1},
		{name: "one", limit: 1, want: 1},
		{name: "max", limit: 100, want: 100},
		{name: "over max", limit: 101, want: 100},
		{name: "far over max", limit: 10000, want: 100},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, clampLimit(tt.limit, DefaultLimit))
		})
	}
}

func TestLimitIsClampedOnTheWire(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	for limit, want := range map[int]string{0: "25", 1: "1", 100: "100", 101: "100"} {
		_, err := client.SubredditPosts(context.TODO(), ListingOptions{
			Subreddit:   "golang",
			FeedOptions: FeedOptions{Limit: limit},
		})
		require.NoError(t, err)
		assert.Equal(t, want, upstream.Last().Query.Get("limit"), "limit %d", limit)
	}
}

func TestEveryRequestSendsRawJSONAndUserAgent(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	ctx := context.TODO()

	_, err := client.SubredditPosts(ctx, ListingOptions{Subreddit: "golang"})
	require.NoError(t, err)
	_, err = client.SubredditAbout(ctx, "golang")
	require.NoError(t, err)
	_, err = client.PostByID(ctx, "golang", "1c0aaa")
	require.NoError(t, err)

	pool := UserAgents()
	for _, req := range upstream.Requests() {
		assert.Equal(t, "1", req.Query.Get("raw_json"), req.Path)
		assert.Contains(t, pool, req.UserAgent, req.Path)
		assert.Contains(t, req.UserAgent, "Mozilla/5.0 (")
	}
}

func TestRotatingUserAgent(t *testing.T) {
	t.Parallel()
	next := RotatingUserAgent()
	pool := UserAgents()
	for i := 0; i < 2*len(pool); i++ {
		assert.Equal(t, pool[i%len(pool)], next())
	}
}

func TestWithUserAgents(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	client.WithUserAgents(func() string { return "test-agent" })

	_, err := client.SubredditAbout(context.TODO(), "golang")
	require.NoError(t, err)
	assert.Equal(t, "test-agent", upstream.Last().UserAgent)
}

func TestStatusErrorIsPropagated(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	upstream.Handle("/r/golang/hot.json", http.StatusTooManyRequests, `{"message": "Too Many Requests"}`)

	_, err := client.SubredditPosts(context.TODO(), ListingOptions{Subreddit: "golang"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatusCode)
	assert.NotErrorIs(t, err, ErrNotFound)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Len(t, upstream.Requests(), 1, "failed requests must not be retried")
}

func TestMalformedBody(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	upstream.Handle("/r/golang/hot.json", http.StatusOK, `<html>blocked</html>`)

	_, err := client.SubredditPosts(context.TODO(), ListingOptions{Subreddit: "golang"})
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestTransportError(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	upstream.Close()

	_, err := client.SubredditAbout(context.TODO(), "golang")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidStatusCode)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	client.WithRateLimit(rate.Every(time.Hour), 1)

	_, err := client.SubredditAbout(context.TODO(), "golang")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = client.SubredditAbout(ctx, "golang")
	assert.Error(t, err)
	assert.Len(t, upstream.Requests(), 1)

	client.WithRateLimit(0, 0)
	_, err = client.SubredditAbout(context.TODO(), "golang")
	assert.NoError(t, err)
}
