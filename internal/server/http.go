package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vefur-dev/quiz-web/internal/config"
	"github.com/vefur-dev/quiz-web/internal/db"
	"github.com/vefur-dev/quiz-web/internal/logging"
	"github.com/vefur-dev/quiz-web/internal/web"
)

// NewHTTPServer wires the page routes plus health and metrics endpoints.
// database may be nil when storage is not configured; /healthz then reports
// degraded instead of failing.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, database *db.Database, pages *web.Handlers) *http.Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(countRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if database == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded","database":"not configured"}`))
			return
		}
		if err := database.Ping(req.Context()); err != nil {
			logger.Error().Err(err).Msg("health ping failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	pages.Routes(r)

	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}
}

// requestLogger attaches a request-scoped logger to the context and logs
// each completed request.
func requestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLogger := logger.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))

			reqLogger.Info().Int("status", ww.Status()).Msg("request served")
		})
	}
}
