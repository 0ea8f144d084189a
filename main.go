package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"
	"github.com/handsomefox/redditmcp/api"
	"github.com/handsomefox/redditmcp/internal/config"
	"github.com/handsomefox/redditmcp/internal/httpapi"
	"github.com/handsomefox/redditmcp/internal/logging"
	"github.com/handsomefox/redditmcp/internal/mcpserver"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	args, p, err := config.Parse(os.Args[1:])
	switch {
	case p == nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	case errors.Is(err, arg.ErrHelp):
		p.WriteHelp(os.Stdout)
		os.Exit(0)
	case errors.Is(err, arg.ErrVersion):
		fmt.Println(args.Version())
		os.Exit(0)
	case err != nil:
		p.Fail(err.Error())
	case p.Subcommand() == nil:
		p.Fail("missing subcommand")
	}

	logger := logging.Setup(args.Verbose, os.Stderr)
	logger.Debug().Any("app_arguments", args).Send()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, args, logger); err != nil {
		stop()
		log.Fatal().Err(err).Msg("error running the app")
	}
}

func run(ctx context.Context, args *config.AppArguments, logger zerolog.Logger) error {
	client, err := args.Client(logger)
	if err != nil {
		return err
	}

	var result any
	switch {
	case args.MCP != nil:
		return mcpserver.Serve(ctx, mcpserver.New(client, config.Version), os.Stdin, os.Stdout, logger)
	case args.Serve != nil:
		return httpapi.New(client, logger).ListenAndServe(ctx, args.Serve.Addr)
	case args.Posts != nil:
		if args.Posts.Pages > 1 {
			result, err = api.NewSubredditPager(client, args.Posts.Options()).Collect(ctx, args.Posts.Pages)
		} else {
			result, err = client.SubredditPosts(ctx, args.Posts.Options())
		}
	case args.All != nil:
		if args.All.Pages > 1 {
			result, err = api.NewAllPager(client, args.All.Options()).Collect(ctx, args.All.Pages)
		} else {
			result, err = client.AllPosts(ctx, args.All.Options())
		}
	case args.Popular != nil:
		result, err = client.PopularPosts(ctx, args.Popular.Options())
	case args.Search != nil:
		result, err = client.SearchPosts(ctx, args.Search.Options())
	case args.Subreddits != nil:
		result, err = client.SearchSubreddits(ctx, args.Subreddits.Options())
	case args.About != nil:
		result, err = client.SubredditAbout(ctx, args.About.Subreddit)
	case args.Post != nil:
		result, err = client.PostByID(ctx, args.Post.Subreddit, args.Post.PostID)
	case args.Comments != nil:
		result, err = client.PostWithComments(ctx, args.Comments.Options())
	default:
		return errors.New("no subcommand selected")
	}
	if err != nil {
		return err
	}

	return WriteResult(args.Out, result)
}
