// Package config holds the command-line and environment configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/handsomefox/redditmcp/api"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Version is overridden at build time.
var Version = "dev"

type AppArguments struct {
	Posts      *PostsCmd      `arg:"subcommand:posts" help:"list posts of a subreddit"`
	All        *AllCmd        `arg:"subcommand:all" help:"list posts of r/all"`
	Popular    *PopularCmd    `arg:"subcommand:popular" help:"list posts of r/popular"`
	Search     *SearchCmd     `arg:"subcommand:search" help:"search posts"`
	Subreddits *SubredditsCmd `arg:"subcommand:subreddits" help:"search subreddits"`
	About      *AboutCmd      `arg:"subcommand:about" help:"show subreddit metadata"`
	Post       *PostCmd       `arg:"subcommand:post" help:"show a single post"`
	Comments   *CommentsCmd   `arg:"subcommand:comments" help:"show a post with its comment tree"`
	MCP        *MCPCmd        `arg:"subcommand:mcp" help:"serve the tools over MCP on stdin/stdout"`
	Serve      *ServeCmd      `arg:"subcommand:serve" help:"serve the HTTP JSON gateway"`

	BaseURL string        `arg:"--base-url,env:REDDIT_BASE_URL" default:"https://www.reddit.com" help:"reddit origin"`
	Timeout time.Duration `arg:"--timeout,env:REDDIT_TIMEOUT" default:"1m" help:"per-request timeout"`
	Rate    float64       `arg:"--rate,env:REDDIT_RATE" help:"max requests per second, 0 disables throttling"`
	Burst   int           `arg:"--burst,env:REDDIT_BURST" default:"1" help:"request burst when throttling"`
	Out     string        `arg:"-o,--out" help:"write results to this file instead of stdout"`
	Verbose bool          `arg:"-v,--verbose" help:"enable debug logging"`
}

type PostsCmd struct {
	Subreddit string `arg:"positional,required"`
	Sort      string `arg:"-s,--sort" default:"hot" help:"hot, new, top or rising"`
	Time      string `arg:"-t,--time" default:"day" help:"hour, day, week, month, year or all (top only)"`
	After     string `arg:"--after" help:"pagination cursor"`
	Limit     int    `arg:"-n,--limit" default:"25" help:"posts per page, at most 100"`
	Pages     int    `arg:"--pages" default:"1" help:"number of pages to follow"`
}

func (c *PostsCmd) Options() api.ListingOptions {
	return api.ListingOptions{
		Subreddit: c.Subreddit,
		FeedOptions: api.FeedOptions{
			Sort:  c.Sort,
			Time:  c.Time,
			After: c.After,
			Limit: c.Limit,
		},
	}
}

type AllCmd struct {
	Sort  string `arg:"-s,--sort" default:"hot" help:"hot, new, top or rising"`
	Time  string `arg:"-t,--time" default:"day" help:"hour, day, week, month, year or all (top only)"`
	After string `arg:"--after" help:"pagination cursor"`
	Limit int    `arg:"-n,--limit" default:"25" help:"posts per page, at most 100"`
	Pages int    `arg:"--pages" default:"1" help:"number of pages to follow"`
}

func (c *AllCmd) Options() api.FeedOptions {
	return api.FeedOptions{Sort: c.Sort, Time: c.Time, After: c.After, Limit: c.Limit}
}

type PopularCmd struct {
	GeoFilter string `arg:"-g,--geo" help:"region code such as US or GB"`
	Limit     int    `arg:"-n,--limit" default:"25"`
}

func (c *PopularCmd) Options() api.PopularOptions {
	return api.PopularOptions{GeoFilter: c.GeoFilter, Limit: c.Limit}
}

type SearchCmd struct {
	Query     string `arg:"positional,required"`
	Subreddit string `arg:"-r,--subreddit" help:"restrict the search to a subreddit"`
	Sort      string `arg:"-s,--sort" default:"relevance" help:"relevance, hot, top, new or comments"`
	Time      string `arg:"-t,--time" default:"all"`
	Limit     int    `arg:"-n,--limit" default:"25"`
}

func (c *SearchCmd) Options() api.SearchOptions {
	return api.SearchOptions{
		Query:     c.Query,
		Subreddit: c.Subreddit,
		Sort:      c.Sort,
		Time:      c.Time,
		Limit:     c.Limit,
	}
}

type SubredditsCmd struct {
	Query string `arg:"positional,required"`
	Limit int    `arg:"-n,--limit" default:"25"`
}

func (c *SubredditsCmd) Options() api.SubredditSearchOptions {
	return api.SubredditSearchOptions{Query: c.Query, Limit: c.Limit}
}

type AboutCmd struct {
	Subreddit string `arg:"positional,required"`
}

type PostCmd struct {
	Subreddit string `arg:"positional,required"`
	PostID    string `arg:"positional,required"`
}

type CommentsCmd struct {
	Subreddit string `arg:"positional,required"`
	PostID    string `arg:"positional,required"`
	Sort      string `arg:"-s,--sort" default:"best" help:"best, top, new, controversial, old or qa"`
	Limit     int    `arg:"-n,--limit" default:"10" help:"top-level comments to keep"`
	Depth     int    `arg:"-d,--depth" default:"3" help:"reply levels to keep"`
}

func (c *CommentsCmd) Options() api.CommentsOptions {
	return api.CommentsOptions{
		Subreddit: c.Subreddit,
		PostID:    c.PostID,
		Sort:      c.Sort,
		Limit:     c.Limit,
		Depth:     c.Depth,
	}
}

type MCPCmd struct{}

type ServeCmd struct {
	Addr string `arg:"--addr,env:REDDITMCP_ADDR" default:":8080" help:"listen address"`
}

func (AppArguments) Description() string {
	return "redditmcp queries reddit's public JSON API and serves it as MCP tools or HTTP endpoints."
}

func (AppArguments) Version() string {
	return "redditmcp " + Version
}

// LoadEnv loads .env style files into the environment. Missing files are skipped.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: couldn't load %s", err, p)
		}
	}
	return nil
}

// Parse parses args (without the program name) into AppArguments.
// The parser is returned even on error so the caller can print usage.
func Parse(args []string) (*AppArguments, *arg.Parser, error) {
	var a AppArguments
	p, err := arg.NewParser(arg.Config{Program: "redditmcp"}, &a)
	if err != nil {
		return nil, nil, err
	}
	if err := p.Parse(args); err != nil {
		return &a, p, err
	}
	return &a, p, nil
}

// Client builds the reddit client described by the global options.
func (a *AppArguments) Client(logger zerolog.Logger) (*api.Client, error) {
	base, err := url.Parse(a.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base url %q", err, a.BaseURL)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", a.BaseURL)
	}

	client := api.DefaultClient().
		WithBaseURL(base).
		WithLogger(logger).
		WithRateLimit(rate.Limit(a.Rate), a.Burst)
	if a.Timeout > 0 {
		client.WithTimeout(a.Timeout)
	}
	return client, nil
}
