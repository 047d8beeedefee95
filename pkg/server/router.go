package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/justinas/alice"
)

// Handler returns the routed handler wrapped in the middleware chain
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	POST := router.Methods("POST").Subrouter()
	GET := router.Methods("GET", "HEAD").Subrouter()

	GET.HandleFunc("/health", s.Health).Name("health")

	POST.HandleFunc("/convert-to-dicom", s.ConvertToDICOM).Name("convert")
	POST.HandleFunc("/test-convert", s.TestConvert).Name("test-convert")

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	standard := alice.New(
		s.recoverer(),
		s.requestLog,
		cors(s.cfg.AllowedOrigins),
	)
	return standard.Then(router)
}
