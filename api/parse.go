package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

const (
	kindComment   = "t1"
	kindPost      = "t3"
	kindSubreddit = "t5"
)

// Everything below mimics reddit's responses. Fields missing upstream keep their zero value.

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listing struct {
	Data struct {
		After    *string `json:"after"`
		Before   *string `json:"before"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	Author      *string `json:"author"`
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Subreddit   string  `json:"subreddit"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	SelfText    string  `json:"selftext"`
	Thumbnail   string  `json:"thumbnail"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	IsVideo     bool    `json:"is_video"`
	IsSelf      bool    `json:"is_self"`
}

type rawSubreddit struct {
	ActiveUserCount       *int    `json:"active_user_count"`
	Name                  string  `json:"name"`
	DisplayName           string  `json:"display_name"`
	Title                 string  `json:"title"`
	PublicDescription     string  `json:"public_description"`
	URL                   string  `json:"url"`
	IconImg               string  `json:"icon_img"`
	BannerBackgroundImage string  `json:"banner_background_image"`
	CreatedUTC            float64 `json:"created_utc"`
	Subscribers           int64   `json:"subscribers"`
	Over18                bool    `json:"over18"`
}

type rawComment struct {
	Author     *string         `json:"author"`
	Body       *string         `json:"body"`
	ParentID   *string         `json:"parent_id"`
	ID         string          `json:"id"`
	Replies    json.RawMessage `json:"replies"`
	CreatedUTC float64         `json:"created_utc"`
	Score      int             `json:"score"`
	Edited     edited          `json:"edited"`
}

// edited is either false, true (very old edits) or the unix time of the edit.
type edited bool

func (e *edited) UnmarshalJSON(b []byte) error {
	switch s := strings.TrimSpace(string(b)); s {
	case "false", "null", "0":
		*e = false
	case "true":
		*e = true
	default:
		var ts float64
		if err := json.Unmarshal(b, &ts); err != nil {
			return fmt.Errorf("unrecognized edited value %s", s)
		}
		*e = ts != 0
	}
	return nil
}

// thumbnailSentinels are values reddit puts in "thumbnail" instead of a url.
var thumbnailSentinels = []string{"", "self", "default", "nsfw", "spoiler", "image"}

var deletedAuthors = []string{"[deleted]", "[removed]"}

func decodeData(t thing, v any) error {
	data := bytes.TrimSpace(t.Data)
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: couldn't decode %q data: %s", ErrInvalidResponse, t.Kind, err)
	}
	return nil
}

func parsePost(t thing) (Post, error) {
	var raw rawPost
	if err := decodeData(t, &raw); err != nil {
		return Post{}, err
	}

	p := Post{
		ID:          raw.ID,
		Title:       raw.Title,
		Author:      lo.FromPtrOr(raw.Author, DeletedAuthor),
		Subreddit:   raw.Subreddit,
		Score:       raw.Score,
		NumComments: raw.NumComments,
		CreatedUTC:  raw.CreatedUTC,
		URL:         raw.URL,
		Permalink:   absoluteURL(raw.Permalink),
		SelfText:    lo.EmptyableToPtr(raw.SelfText),
		IsVideo:     raw.IsVideo,
		IsSelf:      raw.IsSelf,
	}
	if !lo.Contains(thumbnailSentinels, raw.Thumbnail) {
		p.Thumbnail = lo.ToPtr(raw.Thumbnail)
	}
	return p, nil
}

func parseSubreddit(t thing) (Subreddit, error) {
	var raw rawSubreddit
	if err := decodeData(t, &raw); err != nil {
		return Subreddit{}, err
	}

	return Subreddit{
		Name:              raw.Name,
		DisplayName:       raw.DisplayName,
		Title:             raw.Title,
		PublicDescription: raw.PublicDescription,
		Subscribers:       raw.Subscribers,
		ActiveUserCount:   raw.ActiveUserCount,
		CreatedUTC:        raw.CreatedUTC,
		Over18:            raw.Over18,
		URL:               absoluteURL(raw.URL),
		IconImg:           lo.EmptyableToPtr(raw.IconImg),
		BannerImg:         lo.EmptyableToPtr(raw.BannerBackgroundImage),
	}, nil
}

func parsePosts(l *listing) (*PostCollection, error) {
	posts := make([]Post, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		p, err := parsePost(child)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}

	return &PostCollection{
		Posts:  posts,
		After:  emptyToNil(l.Data.After),
		Before: emptyToNil(l.Data.Before),
		Count:  len(posts),
	}, nil
}

func parseSubreddits(l *listing) (*SubredditCollection, error) {
	subs := make([]Subreddit, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		s, err := parseSubreddit(child)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return &SubredditCollection{
		Subreddits: subs,
		After:      emptyToNil(l.Data.After),
		Before:     emptyToNil(l.Data.Before),
	}, nil
}

// absoluteURL prefixes relative reddit paths with the canonical origin.
func absoluteURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return permalinkBase + path
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
