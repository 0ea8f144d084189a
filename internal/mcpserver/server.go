// Package mcpserver exposes the reddit operations as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	stdlog "log"

	"github.com/handsomefox/redditmcp/api"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
)

const (
	Name = "reddit-mcp-server"
	// maxCommentsLimit caps top-level comments per tool call.
	maxCommentsLimit = 50
)

var (
	listingSorts = []string{"hot", "new", "top", "rising"}
	searchSorts  = []string{"relevance", "hot", "top", "new", "comments"}
	commentSorts = []string{"best", "top", "new", "controversial", "old", "qa"}
	timeWindows  = []string{"hour", "day", "week", "month", "year", "all"}
)

// New creates the MCP server with every reddit tool registered.
func New(r api.Reader, version string) *server.MCPServer {
	s := server.NewMCPServer(
		Name,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.AddTools(Tools(r)...)
	return s
}

// Serve runs the newline-delimited JSON-RPC loop on in/out until in is
// exhausted or ctx is cancelled.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(stdlog.New(logger, "", 0))
	logger.Info().Str("server", Name).Msg("serving MCP on stdio")
	return stdio.Listen(ctx, in, out)
}

// Tools returns the tool definitions together with their handlers.
func Tools(r api.Reader) []server.ServerTool {
	return []server.ServerTool{
		subredditPostsTool(r),
		searchPostsTool(r),
		searchSubredditsTool(r),
		subredditInfoTool(r),
		allPostsTool(r),
		popularPostsTool(r),
		postTool(r),
		postWithCommentsTool(r),
	}
}

func subredditPostsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_reddit_posts",
			mcp.WithDescription("Get posts from a specific subreddit"),
			mcp.WithString("subreddit", mcp.Required(), mcp.Description("Name of the subreddit")),
			mcp.WithString("sort", mcp.Enum(listingSorts...), mcp.DefaultString("hot")),
			limitArg(api.MaxLimit, api.DefaultLimit),
			mcp.WithString("time", mcp.Enum(timeWindows...), mcp.DefaultString("day"),
				mcp.Description("Time window, only used when sort is top")),
			mcp.WithString("after", mcp.Description("Pagination token")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			subreddit, err := req.RequireString("subreddit")
			if err != nil {
				return nil, err
			}
			posts, err := r.SubredditPosts(ctx, api.ListingOptions{
				Subreddit: subreddit,
				FeedOptions: api.FeedOptions{
					Sort:  req.GetString("sort", "hot"),
					Time:  req.GetString("time", "day"),
					After: req.GetString("after", ""),
					Limit: req.GetInt("limit", api.DefaultLimit),
				},
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(posts)
		},
	}
}

func searchPostsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("search_reddit_posts",
			mcp.WithDescription("Search for posts across Reddit"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("subreddit", mcp.Description("Limit to specific subreddit")),
			mcp.WithString("sort", mcp.Enum(searchSorts...), mcp.DefaultString("relevance")),
			limitArg(api.MaxLimit, api.DefaultLimit),
			mcp.WithString("time", mcp.Enum(timeWindows...), mcp.DefaultString("all")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := req.RequireString("query")
			if err != nil {
				return nil, err
			}
			posts, err := r.SearchPosts(ctx, api.SearchOptions{
				Query:     query,
				Subreddit: req.GetString("subreddit", ""),
				Sort:      req.GetString("sort", "relevance"),
				Time:      req.GetString("time", "all"),
				Limit:     req.GetInt("limit", api.DefaultLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(posts)
		},
	}
}

func searchSubredditsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("search_subreddits",
			mcp.WithDescription("Search for subreddits by name or description"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
			limitArg(api.MaxLimit, api.DefaultLimit),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			query, err := req.RequireString("query")
			if err != nil {
				return nil, err
			}
			subs, err := r.SearchSubreddits(ctx, api.SubredditSearchOptions{
				Query: query,
				Limit: req.GetInt("limit", api.DefaultLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(subs)
		},
	}
}

func subredditInfoTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_subreddit_info",
			mcp.WithDescription("Get detailed information about a subreddit"),
			mcp.WithString("subreddit", mcp.Required(), mcp.Description("Name of the subreddit")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			subreddit, err := req.RequireString("subreddit")
			if err != nil {
				return nil, err
			}
			sub, err := r.SubredditAbout(ctx, subreddit)
			if err != nil {
				return nil, err
			}
			return jsonResult(sub)
		},
	}
}

func allPostsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_all_posts",
			mcp.WithDescription("Get posts from r/all"),
			mcp.WithString("sort", mcp.Enum(listingSorts...), mcp.DefaultString("hot")),
			limitArg(api.MaxLimit, api.DefaultLimit),
			mcp.WithString("time", mcp.Enum(timeWindows...), mcp.DefaultString("day")),
			mcp.WithString("after", mcp.Description("Pagination token")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			posts, err := r.AllPosts(ctx, api.FeedOptions{
				Sort:  req.GetString("sort", "hot"),
				Time:  req.GetString("time", "day"),
				After: req.GetString("after", ""),
				Limit: req.GetInt("limit", api.DefaultLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(posts)
		},
	}
}

func popularPostsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_popular_posts",
			mcp.WithDescription("Get popular posts from all of Reddit"),
			limitArg(api.MaxLimit, api.DefaultLimit),
			mcp.WithString("geo_filter", mcp.Description("Geographic filter, e.g. US or GB")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			posts, err := r.PopularPosts(ctx, api.PopularOptions{
				GeoFilter: req.GetString("geo_filter", ""),
				Limit:     req.GetInt("limit", api.DefaultLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(posts)
		},
	}
}

func postTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_post",
			mcp.WithDescription("Get a specific Reddit post by its ID"),
			mcp.WithString("subreddit", mcp.Required(), mcp.Description("Name of the subreddit")),
			mcp.WithString("post_id", mcp.Required(), mcp.Description("ID of the post")),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			subreddit, err := req.RequireString("subreddit")
			if err != nil {
				return nil, err
			}
			postID, err := req.RequireString("post_id")
			if err != nil {
				return nil, err
			}
			post, err := r.PostByID(ctx, subreddit, postID)
			if err != nil {
				return nil, err
			}
			return jsonResult(post)
		},
	}
}

func postWithCommentsTool(r api.Reader) server.ServerTool {
	return server.ServerTool{
		Tool: mcp.NewTool("get_post_with_comments",
			mcp.WithDescription("Get a specific Reddit post with its comments"),
			mcp.WithString("subreddit", mcp.Required(), mcp.Description("Name of the subreddit")),
			mcp.WithString("post_id", mcp.Required(), mcp.Description("ID of the post")),
			mcp.WithString("sort", mcp.Enum(commentSorts...), mcp.DefaultString("best")),
			limitArg(maxCommentsLimit, api.DefaultCommentsLimit),
		),
		Handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			subreddit, err := req.RequireString("subreddit")
			if err != nil {
				return nil, err
			}
			postID, err := req.RequireString("post_id")
			if err != nil {
				return nil, err
			}
			pwc, err := r.PostWithComments(ctx, api.CommentsOptions{
				Subreddit: subreddit,
				PostID:    postID,
				Sort:      req.GetString("sort", "best"),
				Limit:     min(req.GetInt("limit", api.DefaultCommentsLimit), maxCommentsLimit),
			})
			if err != nil {
				return nil, err
			}
			return jsonResult(pwc)
		},
	}
}

func limitArg(maxLimit, def int) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description(fmt.Sprintf("Number of items to retrieve (1-%d)", maxLimit)),
		mcp.Min(1),
		mcp.Max(float64(maxLimit)),
		mcp.DefaultNumber(float64(def)),
	)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: couldn't encode result", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}
