// package api contains the code required to query reddit's public JSON endpoints and
// turn the responses into plain records.
package api

import (
	"time"
)

// DeletedAuthor is used when reddit omits the author of a post or comment.
const DeletedAuthor = "[deleted]"

// RemovedBody is used when reddit omits the body of a comment.
const RemovedBody = "[removed]"

type Post struct {
	SelfText    *string `json:"selftext"`
	Thumbnail   *string `json:"thumbnail"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	IsVideo     bool    `json:"is_video"`
	IsSelf      bool    `json:"is_self"`
}

// Created converts CreatedUTC to a time.Time.
func (p *Post) Created() time.Time {
	return unixTime(p.CreatedUTC)
}

// PostCollection is a page of posts in upstream ranking order.
type PostCollection struct {
	After  *string `json:"after"`
	Before *string `json:"before"`
	Posts  []Post  `json:"posts"`
	Count  int     `json:"count"`
}

type Subreddit struct {
	ActiveUserCount   *int    `json:"active_user_count"`
	IconImg           *string `json:"icon_img"`
	BannerImg         *string `json:"banner_img"`
	Name              string  `json:"name"`
	DisplayName       string  `json:"display_name"`
	Title             string  `json:"title"`
	PublicDescription string  `json:"public_description"`
	URL               string  `json:"url"`
	CreatedUTC        float64 `json:"created_utc"`
	Subscribers       int64   `json:"subscribers"`
	Over18            bool    `json:"over18"`
}

func (s *Subreddit) Created() time.Time {
	return unixTime(s.CreatedUTC)
}

type SubredditCollection struct {
	After      *string     `json:"after"`
	Before     *string     `json:"before"`
	Subreddits []Subreddit `json:"subreddits"`
}

// Comment is a single node of a reconstructed comment tree.
type Comment struct {
	ParentID   *string   `json:"parent_id"`
	ID         string    `json:"id"`
	Author     string    `json:"author"`
	Body       string    `json:"body"`
	Replies    []Comment `json:"replies"`
	CreatedUTC float64   `json:"created_utc"`
	Score      int       `json:"score"`
	Edited     bool      `json:"edited"`
}

func (c *Comment) Created() time.Time {
	return unixTime(c.CreatedUTC)
}

type PostWithComments struct {
	Comments     []Comment `json:"comments"`
	Post         Post      `json:"post"`
	CommentCount int       `json:"comment_count"`
}

// Walk calls fn for every comment in the tree, parents before their replies.
func (pc *PostWithComments) Walk(fn func(c *Comment, depth int)) {
	walk(pc.Comments, 0, fn)
}

func walk(comments []Comment, depth int, fn func(c *Comment, depth int)) {
	for i := range comments {
		fn(&comments[i], depth)
		walk(comments[i].Replies, depth+1, fn)
	}
}

// Flatten returns every comment in the tree in depth-first order.
func (pc *PostWithComments) Flatten() []*Comment {
	var result []*Comment
	pc.Walk(func(c *Comment, _ int) {
		result = append(result, c)
	})
	return result
}

// Count returns the total number of comments including replies.
func (pc *PostWithComments) Count() int {
	n := 0
	pc.Walk(func(*Comment, int) { n++ })
	return n
}

// Depth returns the number of reply levels below the top-level comments.
// A tree with only top-level comments has depth 0; an empty tree has depth -1.
func (pc *PostWithComments) Depth() int {
	deepest := -1
	pc.Walk(func(_ *Comment, depth int) {
		if depth > deepest {
			deepest = depth
		}
	})
	return deepest
}

func unixTime(secs float64) time.Time {
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*float64(time.Second))).UTC()
}
