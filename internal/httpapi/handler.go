// Package httpapi serves the volunteer self-service API: browsing a
// ministry's events and announcements, self-assignment and cancellation by
// CPF, schedule lookup and CPF formatting.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/agendaccp/agenda-ccp/pkg/db"
)

// Handler serves the self-service routes over a store
type Handler struct {
	store    db.Database
	logger   *zap.Logger
	metrics  *Metrics
	validate *validator.Validate
	location *time.Location
	now      func() time.Time
}

// New creates a Handler. loc decides which month and day "now" falls in.
func New(store db.Database, logger *zap.Logger, metrics *Metrics, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		store:    store,
		logger:   logger,
		metrics:  metrics,
		validate: validator.New(),
		location: loc,
		now:      time.Now,
	}
}

// Register registers the self-service routes with the chi router
func (h *Handler) Register(r chi.Router) {
	r.Get("/ministries/{ministryID}/events", h.handleListEvents)
	r.Get("/ministries/{ministryID}/announcements", h.handleListAnnouncements)
	r.Post("/events/{eventID}/assignments", h.handleSelfAssign)
	r.Delete("/assignments/{assignmentID}", h.handleCancelAssignment)
	r.Post("/schedule/lookup", h.handleLookupSchedule)
	r.Get("/cpf/format", h.handleFormatCPF)
}

// NewRouter builds the full API: middleware, health, metrics and the
// self-service routes. gatherer backs /metrics.
func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	h.Register(r)
	return r
}

// observe logs each request and records its duration by route pattern
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		h.metrics.ObserveRequest(route, r.Method, status, elapsed)
		h.logger.Info("HTTP request",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed))
	})
}

func requestFields(r *http.Request, err error) []zap.Field {
	return []zap.Field{
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
}
