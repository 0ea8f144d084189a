package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubredditPosts(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	posts, err := client.SubredditPosts(context.TODO(), ListingOptions{Subreddit: "golang"})
	require.NoError(t, err)

	req := upstream.Last()
	assert.Equal(t, "/r/golang/hot.json", req.Path)
	assert.False(t, req.Query.Has("t"), "time window is only sent for top")
	assert.False(t, req.Query.Has("after"))

	require.Equal(t, 3, posts.Count)
	require.Len(t, posts.Posts, 3)
	require.NotNil(t, posts.After)
	assert.Equal(t, "t3_1c0ccc", *posts.After)
	assert.Nil(t, posts.Before)

	first := posts.Posts[0]
	assert.Equal(t, "1c0aaa", first.ID)
	assert.Equal(t, "Go 1.22 is released", first.Title)
	assert.Equal(t, "gopher", first.Author)
	assert.Equal(t, 1234, first.Score)
	assert.Equal(t, 87, first.NumComments)
	assert.Equal(t, "https://reddit.com/r/golang/comments/1c0aaa/go_122_is_released/", first.Permalink)
	assert.Nil(t, first.SelfText, "empty selftext is absent")
	require.NotNil(t, first.Thumbnail)
	assert.Equal(t, "https://b.thumbs.redditmedia.com/abc.jpg", *first.Thumbnail)
	assert.Equal(t, time.Date(2024, time.February, 8, 13, 46, 40, 0, time.UTC), first.Created())

	second := posts.Posts[1]
	assert.Equal(t, DeletedAuthor, second.Author, "missing author defaults to the deleted sentinel")
	assert.Nil(t, second.Thumbnail, "self is not a thumbnail url")
	require.NotNil(t, second.SelfText)
	assert.Equal(t, "Share your projects here.", *second.SelfText)
	assert.True(t, second.IsSelf)

	third := posts.Posts[2]
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/1c0ccc/plush/", third.Permalink, "absolute permalinks are kept")
	assert.Nil(t, third.Thumbnail)
	assert.True(t, third.IsVideo)
	assert.False(t, third.IsSelf, "missing booleans default to false")
}

func TestSubredditPostsTopSendsTimeAndCursor(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	_, err := client.SubredditPosts(context.TODO(), ListingOptions{
		Subreddit:   "golang",
		FeedOptions: FeedOptions{Sort: "top", Time: "week", After: "t3_zzz", Limit: 50},
	})
	require.NoError(t, err)

	req := upstream.Last()
	assert.Equal(t, "/r/golang/top.json", req.Path)
	assert.Equal(t, "week", req.Query.Get("t"))
	assert.Equal(t, "t3_zzz", req.Query.Get("after"))
	assert.Equal(t, "50", req.Query.Get("limit"))
}

func TestListingPreservesOrder(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	const n = 7
	children := make([]map[string]any, 0, n)
	for i := 0; i < n; i++ {
		children = append(children, map[string]any{
			"kind": "t3",
			"data": map[string]any{"id": fmt.Sprintf("p%d", i), "score": n - i},
		})
	}
	b, err := json.Marshal(map[string]any{"kind": "Listing", "data": map[string]any{"children": children}})
	require.NoError(t, err)
	upstream.Handle("/r/all/new.json", http.StatusOK, string(b))

	posts, err := client.AllPosts(context.TODO(), FeedOptions{Sort: "new"})
	require.NoError(t, err)
	require.Equal(t, n, posts.Count)
	for i, p := range posts.Posts {
		assert.Equal(t, fmt.Sprintf("p%d", i), p.ID)
		assert.Equal(t, "https://reddit.com", p.Permalink)
	}
	assert.Nil(t, posts.After)
}

func TestAllPosts(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	posts, err := client.AllPosts(context.TODO(), FeedOptions{Sort: "top"})
	require.NoError(t, err)
	assert.Equal(t, 3, posts.Count)

	req := upstream.Last()
	assert.Equal(t, "/r/all/top.json", req.Path)
	assert.Equal(t, "day", req.Query.Get("t"))
}

func TestPopularPosts(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	_, err := client.PopularPosts(context.TODO(), PopularOptions{GeoFilter: "GB", Limit: 5})
	require.NoError(t, err)

	req := upstream.Last()
	assert.Equal(t, "/r/popular.json", req.Path)
	assert.Equal(t, "GB", req.Query.Get("geo_filter"))
	assert.Equal(t, "5", req.Query.Get("limit"))

	_, err = client.PopularPosts(context.TODO(), PopularOptions{})
	require.NoError(t, err)
	assert.False(t, upstream.Last().Query.Has("geo_filter"))
}

func TestSearchPosts(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	posts, err := client.SearchPosts(context.TODO(), SearchOptions{Query: "generics"})
	require.NoError(t, err)
	assert.Equal(t, 3, posts.Count)

	req := upstream.Last()
	assert.Equal(t, "/search.json", req.Path)
	assert.Equal(t, "generics", req.Query.Get("q"))
	assert.Equal(t, "relevance", req.Query.Get("sort"))
	assert.Equal(t, "all", req.Query.Get("t"))
	assert.False(t, req.Query.Has("restrict_sr"))
}

func TestSearchPostsInSubreddit(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)

	_, err := client.SearchPosts(context.TODO(), SearchOptions{
		Query: "iterators", Subreddit: "golang", Sort: "new", Time: "month", Limit: 101,
	})
	require.NoError(t, err)

	req := upstream.Last()
	assert.Equal(t, "/r/golang/search.json", req.Path)
	assert.Equal(t, "true", req.Query.Get("restrict_sr"))
	assert.Equal(t, "new", req.Query.Get("sort"))
	assert.Equal(t, "month", req.Query.Get("t"))
	assert.Equal(t, "100", req.Query.Get("limit"))
}

func TestInvalidOptionsAreRejectedBeforeRequest(t *testing.T) {
	t.Parallel()
	client, upstream := newTestClient(t)
	ctx := context.TODO()

	_, err := client.SubredditPosts(ctx, ListingOptions{Subreddit: "golang", FeedOptions: FeedOptions{Sort: "best"}})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SubredditPosts(ctx, ListingOptions{})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SubredditPosts(ctx, ListingOptions{Subreddit: "golang/../all"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.AllPosts(ctx, FeedOptions{Sort: "top", Time: "decade"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SearchPosts(ctx, SearchOptions{Query: ""})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SearchPosts(ctx, SearchOptions{Query: "go", Sort: "rising"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SubredditPosts(ctx, ListingOptions{Subreddit: ".."})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SearchPosts(ctx, SearchOptions{Query: "go", Subreddit: ".."})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.SubredditAbout(ctx, "..")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.PostByID(ctx, "..", "..")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.PostByID(ctx, "golang", ".")
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = client.PostWithComments(ctx, CommentsOptions{Subreddit: "golang", PostID: "../about"})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	assert.Empty(t, upstream.Requests())
}

func TestNameValidation(t *testing.T) {
	t.Parallel()
	tests := []struct {
		subreddit string
		postID    string
		valid     bool
	}{
		{subreddit: "golang", postID: "1c0aaa", valid: true},
		{subreddit: "golang_jobs", postID: "abc123", valid: true},
		{subreddit: "AskReddit", postID: "z", valid: true},
		{subreddit: "..", postID: "1c0aaa"},
		{subreddit: ".", postID: "1c0aaa"},
		{subreddit: "golang", postID: ".."},
		{subreddit: "r/golang", postID: "1c0aaa"},
		{subreddit: "_golang", postID: "1c0aaa"},
		{subreddit: "go lang", postID: "1c0aaa"},
		{subreddit: "a", postID: "1c0aaa"},
		{subreddit: "abcdefghijklmnopqrstuv", postID: "1c0aaa"},
		{subreddit: "golang", postID: "t3_1c0aaa"},
		{subreddit: "golang", postID: "1C0AAA"},
		{subreddit: "golang", postID: "1c0aaa?x=1"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.subreddit+"/"+tt.postID, func(t *testing.T) {
			t.Parallel()
			err := validateOptions(CommentsOptions{Subreddit: tt.subreddit, PostID: tt.postID, Sort: "best"})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidOptions)
			}
		})
	}
}
