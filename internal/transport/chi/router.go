package chi

import (
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kailas-cloud/vibecheck/internal/metrics"
)

// RouterConfig holds the cross-origin settings.
type RouterConfig struct {
	AllowedOrigins []string
	MaxAgeSec      int
}

// NewRouter mounts the server handlers behind CORS, recovery, request ID, logging and metrics middleware.
func NewRouter(s *Server, cfg RouterConfig, logger *zap.Logger) http.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := gochi.NewRouter()
	// CORS goes first so preflights are answered before routing and never reach 405.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         cfg.MaxAgeSec,
	}))
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "method not allowed")
	})

	r.Get("/", s.Home)
	r.Post("/analyze", s.Analyze)
	r.Post("/analyze-amazon", s.AnalyzeReviews)
	r.Post("/spam", s.Spam)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}
