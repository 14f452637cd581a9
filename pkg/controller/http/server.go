package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/medrec-lab/asclepius/pkg/usecase"
	"github.com/medrec-lab/asclepius/pkg/utils/errutil"
	"github.com/medrec-lab/asclepius/pkg/utils/logging"
)

type Server struct {
	router  *chi.Mux
	uc      *usecase.UseCases
	version string
}

type Options func(*Server)

// WithVersion sets the version string reported by /health
func WithVersion(version string) Options {
	return func(s *Server) {
		s.version = version
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router:  r,
		uc:      uc,
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/summarize", s.handleSummarize)
		r.Post("/extract", s.handleExtract)
		r.Post("/assess-risk", s.handleAssessRisk)
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/batch-analyze", s.handleBatchAnalyze)

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/{id}", s.handleGetAnalysis)
			r.Get("/{id}/similar", s.handleFindSimilar)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errutil.HandleHTTP(r.Context(), w, goerr.New("not found", goerr.V("path", r.URL.Path)), http.StatusNotFound)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// respond writes the JSON success envelope: {"success": true, "data": ...}
func respond(w http.ResponseWriter, r *http.Request, data any) {
	resp := struct {
		Success bool `json:"success"`
		Data    any  `json:"data"`
	}{Success: true, Data: data}

	body, err := json.Marshal(resp)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(body) //nolint:errcheck // header already committed
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
