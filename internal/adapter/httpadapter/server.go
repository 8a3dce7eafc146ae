package httpadapter

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/storm-spi-service/internal/observability"
	"github.com/couchcryptid/storm-spi-service/internal/scoring"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scorer is the request handler core the server fronts.
type Scorer interface {
	sharedobs.ReadinessChecker
	Score(ctx context.Context, values map[string]string) (scoring.Outcome, error)
}

// Server exposes the scoring form, the JSON API, and health, readiness, and
// metrics endpoints.
type Server struct {
	httpServer *http.Server
	scorer     Scorer
	logger     *slog.Logger
	metrics    *observability.Metrics
	page       *template.Template
	limiter    *clientLimiter
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits submissions per client IP. A non-positive rps disables
// the limit.
func WithRateLimit(rps float64, burst int, clock clockwork.Clock) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newClientLimiter(rps, burst, clock)
	}
}

// NewServer creates an HTTP server with the form at /, POST /api/v1/predict,
// /healthz, /readyz, and /metrics.
func NewServer(addr string, scorer Scorer, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		scorer:  scorer,
		logger:  logger,
		metrics: metrics,
		page:    pageTemplate,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("GET /{$}", s.handleForm)
	mux.Handle("POST /{$}", s.limit(http.HandlerFunc(s.handleSubmit)))
	mux.Handle("POST /api/v1/predict", s.limit(http.HandlerFunc(s.handlePredict)))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(scorer))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) limit(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !s.limiter.allow(key) {
			s.metrics.RateLimited.Inc()
			s.logger.Warn("submission rate limited", "client", key)
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
