// Package api exposes the chapter management operations over HTTP.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/metrics"
)

// Store aggregates the per-concern store interfaces the handlers need.
// *postgres.DB satisfies it.
type Store interface {
	db.MemberStore
	db.EventStore
	db.RSVPStore
	db.CheckInStore
	db.FeedbackStore
	db.AssignmentStore
	db.SuccessionStore
	db.HealthCardStore
	db.RequestStore
}

// NewRouter builds the HTTP router. publisher may be nil when no calendar
// credentials are configured; publish requests then skip the calendar push.
func NewRouter(store Store, publisher services.CalendarPublisher, logger *zap.Logger, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(metricsMiddleware)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api", func(ar chi.Router) {
		ar.Get("/events", ListEventsHandler(store))
		ar.Post("/events", CreateEventHandler(store, logger))
		ar.Get("/events/{eventID}", GetEventHandler(store))
		ar.Post("/events/{eventID}/publish", PublishEventHandler(store, publisher, logger))
		ar.Post("/events/{eventID}/rsvp", RSVPHandler(store, logger))
		ar.Post("/events/{eventID}/checkin", CheckInHandler(store, logger))
		ar.Post("/events/{eventID}/feedback", FeedbackHandler(store, logger))
		ar.Post("/events/{eventID}/report", SessionReportHandler(store, logger))
		ar.Get("/events/{eventID}/volunteers", MatchHandler(store, logger, db.AssignmentRoleVolunteer))
		ar.Get("/events/{eventID}/trainers", MatchHandler(store, logger, db.AssignmentRoleTrainer))

		ar.Get("/cycles/{cycleID}/leaderboard", LeaderboardHandler(store, logger))

		ar.Get("/requests", ListRequestsHandler(store, logger))
		ar.Post("/requests", SubmitRequestHandler(store, logger))
		ar.Post("/requests/{requestID}/resolve", ResolveRequestHandler(store, logger))

		ar.Get("/health-cards/stats", HealthCardStatsHandler(store, logger))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})

	return r
}

// metricsMiddleware records request counts and latency per route pattern
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		pattern := chi.RouteContext(r.Context()).RoutePattern()
		if pattern == "" {
			pattern = r.URL.Path
		}
		metrics.RecordHTTPRequest(
			pattern,
			r.Method,
			strconv.Itoa(ww.Status()),
			float64(time.Since(start).Milliseconds()),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
