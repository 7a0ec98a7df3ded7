// Package server exposes a Mapper over HTTP as JSON.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/amonks/genremap/artistcache"
	"github.com/amonks/genremap/mapper"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxDistance is the threshold used when a request doesn't give one.
const DefaultMaxDistance = 0.5

type server struct {
	m    *mapper.Mapper
	pace artistcache.Pacer
	log  zerolog.Logger
}

// New returns the HTTP handler. pace is waited on before each external
// lookup a request causes; it may be nil.
func New(m *mapper.Mapper, pace artistcache.Pacer, log zerolog.Logger) http.Handler {
	s := &server{m: m, pace: pace, log: log.With().Str("component", "server").Logger()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/distance", s.distance)
	r.Get("/genres/{genre}/related", s.related)
	r.Get("/artists/{artist}/genres", s.artistGenres)
	r.Get("/artists/{artist}/match", s.match)
	r.Post("/cooccurrence", s.cooccurrence)
	r.Get("/coverage", s.coverage)
	return r
}

// Run serves handler on addr until ctx is done, then shuts down.
func Run(ctx context.Context, addr string, handler http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}
