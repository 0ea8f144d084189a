// Package httpapi serves the reddit operations as a small JSON gateway.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/handsomefox/redditmcp/api"
	"github.com/rs/zerolog"
)

// Server routes /api requests to an api.Reader.
type Server struct {
	reddit api.Reader
	router chi.Router
	log    zerolog.Logger
}

func New(reddit api.Reader, logger zerolog.Logger) *Server {
	s := &Server{reddit: reddit, log: logger}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/all", s.handleAll)
		r.Get("/popular", s.handlePopular)
		r.Get("/search", s.handleSearch)
		r.Get("/subreddits/search", s.handleSearchSubreddits)
		r.Route("/r/{subreddit}", func(r chi.Router) {
			r.Get("/about", s.handleAbout)
			r.Get("/posts", s.handlePosts)
			r.Get("/posts/{postID}", s.handlePost)
			r.Get("/comments/{postID}", s.handleComments)
		})
	})

	s.router = r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("http gateway listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%w: shutdown failed", err)
	}
	return nil
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}

func (s *Server) handlePosts(w http.ResponseWriter, r *http.Request) {
	feed, err := feedOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	posts, err := s.reddit.SubredditPosts(r.Context(), api.ListingOptions{
		Subreddit:   chi.URLParam(r, "subreddit"),
		FeedOptions: feed,
	})
	s.respond(w, r, posts, err)
}

func (s *Server) handleAll(w http.ResponseWriter, r *http.Request) {
	feed, err := feedOptions(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	posts, err := s.reddit.AllPosts(r.Context(), feed)
	s.respond(w, r, posts, err)
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	posts, err := s.reddit.PopularPosts(r.Context(), api.PopularOptions{
		GeoFilter: r.URL.Query().Get("geo_filter"),
		Limit:     limit,
	})
	s.respond(w, r, posts, err)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	posts, err := s.reddit.SearchPosts(r.Context(), api.SearchOptions{
		Query:     q.Get("q"),
		Subreddit: q.Get("subreddit"),
		Sort:      q.Get("sort"),
		Time:      q.Get("t"),
		Limit:     limit,
	})
	s.respond(w, r, posts, err)
}

func (s *Server) handleSearchSubreddits(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	subs, err := s.reddit.SearchSubreddits(r.Context(), api.SubredditSearchOptions{
		Query: r.URL.Query().Get("q"),
		Limit: limit,
	})
	s.respond(w, r, subs, err)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	sub, err := s.reddit.SubredditAbout(r.Context(), chi.URLParam(r, "subreddit"))
	s.respond(w, r, sub, err)
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	post, err := s.reddit.PostByID(r.Context(), chi.URLParam(r, "subreddit"), chi.URLParam(r, "postID"))
	s.respond(w, r, post, err)
}

func (s *Server) handleComments(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	depth, err := queryInt(r, "depth")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	pwc, err := s.reddit.PostWithComments(r.Context(), api.CommentsOptions{
		Subreddit: chi.URLParam(r, "subreddit"),
		PostID:    chi.URLParam(r, "postID"),
		Sort:      r.URL.Query().Get("sort"),
		Limit:     limit,
		Depth:     depth,
	})
	s.respond(w, r, pwc, err)
}

func feedOptions(r *http.Request) (api.FeedOptions, error) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		return api.FeedOptions{}, err
	}
	q := r.URL.Query()
	return api.FeedOptions{
		Sort:  q.Get("sort"),
		Time:  q.Get("t"),
		After: q.Get("after"),
		Limit: limit,
	}, nil
}

// queryInt reads an optional integer parameter; absent means 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", api.ErrInvalidOptions, key)
	}
	return n, nil
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Status: status})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, api.ErrInvalidOptions):
		return http.StatusBadRequest
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, api.ErrInvalidStatusCode), errors.Is(err, api.ErrInvalidResponse):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
