package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/justinas/alice"
)

// statusRecorder captures what a handler wrote
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.log.InfoContext(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
		)
	})
}

// panicLog adapts the server's slog logger to handlers.RecoveryHandlerLogger
type panicLog struct {
	log *slog.Logger
}

func (p panicLog) Println(v ...interface{}) {
	p.log.Error("panic serving request", "panic", fmt.Sprint(v...))
}

func (s *Server) recoverer() alice.Constructor {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(panicLog{log: s.log}))
}

// cors allows the listed origins ("*" allows any) and answers preflight requests
func cors(origins []string) alice.Constructor {
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
		handlers.MaxAge(600),
		handlers.OptionStatusCode(http.StatusNoContent),
	)
}
