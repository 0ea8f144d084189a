package api

import (
	"context"
	"net/url"
	"strconv"
)

// SubredditPosts returns a page of posts from /r/{subreddit}/{sort}.
func (c *Client) SubredditPosts(ctx context.Context, opts ListingOptions) (*PostCollection, error) {
	opts.FeedOptions = opts.FeedOptions.withDefaults()
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return c.getPosts(ctx, feedValues(opts.FeedOptions), "r", opts.Subreddit, opts.Sort+".json")
}

// AllPosts returns a page of posts from the network-wide r/all feed.
func (c *Client) AllPosts(ctx context.Context, opts FeedOptions) (*PostCollection, error) {
	opts = opts.withDefaults()
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return c.getPosts(ctx, feedValues(opts), "r", "all", opts.Sort+".json")
}

// PopularPosts returns a page of posts from r/popular, optionally for a single region.
func (c *Client) PopularPosts(ctx context.Context, opts PopularOptions) (*PostCollection, error) {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(clampLimit(opts.Limit, DefaultLimit)))
	if opts.GeoFilter != "" {
		values.Set("geo_filter", opts.GeoFilter)
	}
	return c.getPosts(ctx, values, "r", "popular.json")
}

// SearchPosts searches posts across reddit, or inside one subreddit when opts.Subreddit is set.
func (c *Client) SearchPosts(ctx context.Context, opts SearchOptions) (*PostCollection, error) {
	opts = opts.withDefaults()
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("q", opts.Query)
	values.Set("sort", opts.Sort)
	values.Set("limit", strconv.Itoa(opts.Limit))
	values.Set("t", opts.Time)

	if opts.Subreddit == "" {
		return c.getPosts(ctx, values, "search.json")
	}
	values.Set("restrict_sr", "true")
	return c.getPosts(ctx, values, "r", opts.Subreddit, "search.json")
}

func (c *Client) getPosts(ctx context.Context, values url.Values, segments ...string) (*PostCollection, error) {
	var l listing
	if err := c.getJSON(ctx, c.endpoint(values, segments...), &l); err != nil {
		return nil, err
	}
	return parsePosts(&l)
}

func feedValues(opts FeedOptions) url.Values {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(opts.Limit))
	if opts.Sort == "top" {
		values.Set("t", opts.Time)
	}
	if opts.After != "" {
		values.Set("after", opts.After)
	}
	return values
}
