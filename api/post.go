package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// PostByID fetches a single post. It returns ErrNotFound when reddit sends no post node.
func (c *Client) PostByID(ctx context.Context, subreddit, postID string) (*Post, error) {
	opts := CommentsOptions{Subreddit: subreddit, PostID: postID, Sort: "best"}
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	var things []listing
	if err := c.getJSON(ctx, c.endpoint(nil, "r", subreddit, "comments", postID+".json"), &things); err != nil {
		return nil, err
	}
	if len(things) == 0 {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}

	return firstPost(&things[0], postID)
}

// PostWithComments fetches a post together with its comment tree.
// Fewer than two elements in the response yields ErrInvalidResponse.
func (c *Client) PostWithComments(ctx context.Context, opts CommentsOptions) (*PostWithComments, error) {
	opts = opts.withDefaults()
	if err := validateOptions(opts); err != nil {
		return nil, err
	}

	values := url.Values{}
	values.Set("sort", opts.Sort)
	values.Set("limit", strconv.Itoa(opts.Limit))

	var things []listing
	if err := c.getJSON(ctx, c.endpoint(values, "r", opts.Subreddit, "comments", opts.PostID+".json"), &things); err != nil {
		return nil, err
	}
	if len(things) < 2 {
		return nil, fmt.Errorf("%w: post %s: expected post and comment listings, got %d element(s)",
			ErrInvalidResponse, opts.PostID, len(things))
	}

	post, err := firstPost(&things[0], opts.PostID)
	if err != nil {
		return nil, err
	}

	comments, err := parseComments(things[1].Data.Children, 0, opts.Depth)
	if err != nil {
		return nil, err
	}
	if len(comments) > opts.Limit {
		comments = comments[:opts.Limit]
	}

	return &PostWithComments{
		Post:         *post,
		Comments:     comments,
		CommentCount: len(comments),
	}, nil
}

func firstPost(l *listing, postID string) (*Post, error) {
	if len(l.Data.Children) == 0 {
		return nil, fmt.Errorf("%w: post %s", ErrNotFound, postID)
	}
	if kind := l.Data.Children[0].Kind; kind != kindPost {
		return nil, fmt.Errorf("%w: post %s: expected %s node, got %q", ErrInvalidResponse, postID, kindPost, kind)
	}
	p, err := parsePost(l.Data.Children[0])
	if err != nil {
		return nil, err
	}
	return &p, nil
}
