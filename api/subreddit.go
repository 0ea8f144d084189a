package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchSubreddits searches subreddits by name and description.
func (c *Client) SearchSubreddits(ctx context.Context, opts SubredditSearchOptions) (*SubredditCollection, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("q", opts.Query)
	values.Set("limit", strconv.Itoa(clampLimit(opts.Limit, DefaultLimit)))

	var l listing
	if err := c.getJSON(ctx, c.endpoint(values, "subreddits", "search.json"), &l); err != nil {
		return nil, err
	}
	return parseSubreddits(&l)
}

// SubredditAbout returns the metadata of a single subreddit.
func (c *Client) SubredditAbout(ctx context.Context, subreddit string) (*Subreddit, error) {
	if err := validateOptions(struct {
		Subreddit string `validate:"required,subreddit"`
	}{subreddit}); err != nil {
		return nil, err
	}

	var t thing
	if err := c.getJSON(ctx, c.endpoint(nil, "r", subreddit, "about.json"), &t); err != nil {
		return nil, err
	}
	// Unknown names are redirected to a search Listing instead of a t5.
	if t.Kind != kindSubreddit || len(t.Data) == 0 {
		return nil, fmt.Errorf("%w: subreddit %s", ErrNotFound, subreddit)
	}

	s, err := parseSubreddit(t)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
