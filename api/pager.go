package api

import (
	"context"
	"errors"
)

var ErrPagerDone = errors.New("pager reached the end of the listing")

// Pager walks a listing page by page, following the after cursor.
// It is not safe for concurrent use.
type Pager struct {
	fetch func(ctx context.Context, after string) (*PostCollection, error)
	after string
	done  bool
}

// NewSubredditPager pages through /r/{subreddit}/{sort} starting at opts.After.
func NewSubredditPager(client *Client, opts ListingOptions) *Pager {
	return &Pager{
		after: opts.After,
		fetch: func(ctx context.Context, after string) (*PostCollection, error) {
			opts.After = after
			return client.SubredditPosts(ctx, opts)
		},
	}
}

// NewAllPager pages through r/all starting at opts.After.
func NewAllPager(client *Client, opts FeedOptions) *Pager {
	return &Pager{
		after: opts.After,
		fetch: func(ctx context.Context, after string) (*PostCollection, error) {
			opts.After = after
			return client.AllPosts(ctx, opts)
		},
	}
}

// Next returns the next page. Once the listing has no further cursor,
// it returns ErrPagerDone.
func (p *Pager) Next(ctx context.Context) (*PostCollection, error) {
	if p.done {
		return nil, ErrPagerDone
	}

	page, err := p.fetch(ctx, p.after)
	if err != nil {
		return nil, err
	}

	if page.After == nil || len(page.Posts) == 0 {
		p.done = true
	} else {
		p.after = *page.After
	}
	return page, nil
}

// Collect fetches up to pages pages and concatenates their posts.
// The result carries the before cursor of the first page and the after cursor of the last.
func (p *Pager) Collect(ctx context.Context, pages int) (*PostCollection, error) {
	all := &PostCollection{Posts: []Post{}}
	for i := 0; i < pages; i++ {
		page, err := p.Next(ctx)
		if errors.Is(err, ErrPagerDone) {
			break
		}
		if err != nil {
			return nil, err
		}
		all.Posts = append(all.Posts, page.Posts...)
		all.After = page.After
		if i == 0 {
			all.Before = page.Before
		}
	}
	all.Count = len(all.Posts)
	return all, nil
}
