package api

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	MaxLimit             = 100
	DefaultLimit         = 25
	DefaultCommentsLimit = 10
)

var (
	// subredditPattern is reddit's charset for community names.
	subredditPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_]{1,20}$`)
	// postIDPattern is a base36 id without the t3_ prefix.
	postIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)

	validate = newValidator()
)

// newValidator registers the "subreddit" and "postid" tags.
func newValidator() *validator.Validate {
	v := validator.New()
	for tag, re := range map[string]*regexp.Regexp{"subreddit": subredditPattern, "postid": postIDPattern} {
		if err := v.RegisterValidation(tag, matches(re)); err != nil {
			panic(err)
		}
	}
	return v
}

func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

// FeedOptions describe a ranked feed that is not tied to a subreddit (r/all).
type FeedOptions struct {
	// Sort is one of hot, new, top, rising. Defaults to hot.
	Sort string `validate:"oneof=hot new top rising"`
	// Time is only sent when Sort is top. Defaults to day.
	Time string `validate:"oneof=hour day week month year all"`
	// After is the pagination cursor returned by a previous page.
	After string
	// Limit of 0 means DefaultLimit; other values are clamped to [1, MaxLimit].
	Limit int
}

type ListingOptions struct {
	Subreddit string `validate:"required,subreddit"`
	FeedOptions
}

type SearchOptions struct {
	Query string `validate:"required"`
	// Subreddit restricts the search when set.
	Subreddit string `validate:"omitempty,subreddit"`
	// Sort is one of relevance, hot, top, new, comments. Defaults to relevance.
	Sort string `validate:"oneof=relevance hot top new comments"`
	// Time defaults to all and is always sent.
	Time  string `validate:"oneof=hour day week month year all"`
	Limit int
}

type SubredditSearchOptions struct {
	Query string `validate:"required"`
	Limit int
}

type PopularOptions struct {
	// GeoFilter is a region code like US or GB.
	GeoFilter string
	Limit     int
}

type CommentsOptions struct {
	Subreddit string `validate:"required,subreddit"`
	PostID    string `validate:"required,postid"`
	// Sort is one of best, top, new, controversial, old, qa. Defaults to best.
	Sort string `validate:"oneof=best top new controversial old qa"`
	// Limit caps the number of top-level comments. Defaults to DefaultCommentsLimit.
	Limit int
	// Depth bounds reply recursion. Defaults to DefaultReplyDepth.
	Depth int `validate:"gte=0"`
}

func (o FeedOptions) withDefaults() FeedOptions {
	if o.Sort == "" {
		o.Sort = "hot"
	}
	if o.Time == "" {
		o.Time = "day"
	}
	o.Limit = clampLimit(o.Limit, DefaultLimit)
	return o
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.Sort == "" {
		o.Sort = "relevance"
	}
	if o.Time == "" {
		o.Time = "all"
	}
	o.Limit = clampLimit(o.Limit, DefaultLimit)
	return o
}

func (o CommentsOptions) withDefaults() CommentsOptions {
	if o.Sort == "" {
		o.Sort = "best"
	}
	if o.Depth == 0 {
		o.Depth = DefaultReplyDepth
	}
	o.Limit = clampLimit(o.Limit, DefaultCommentsLimit)
	return o
}

// clampLimit keeps limit within [1, MaxLimit], using def for 0.
func clampLimit(limit, def int) int {
	switch {
	case limit == 0:
		return def
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

func validateOptions(opts any) error {
	if err := validate.Struct(opts); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, err)
	}
	return nil
}
