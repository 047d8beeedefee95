// Package server exposes the converter over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jpfielding/img2dcm/pkg/config"
	"github.com/jpfielding/img2dcm/pkg/convert"
)

const shutdownTimeout = 10 * time.Second

// Server serves conversion requests
type Server struct {
	cfg  config.Server
	conv *convert.Converter
	log  *slog.Logger
	now  func() time.Time
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger used for request and error logs
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source for health timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a server over conv
func New(cfg config.Server, conv *convert.Converter, opts ...Option) *Server {
	s := &Server{
		cfg:  cfg,
		conv: conv,
		log:  slog.Default(),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "listening", "addr", s.cfg.Addr, "origins", s.cfg.AllowedOrigins)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.InfoContext(ctx, "shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
