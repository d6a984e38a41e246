/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. RealIP:     Client address from X-Forwarded-For / X-Real-IP
  3. Logger:     Request logging through logrus
  4. Recoverer:  Panic recovery (500 instead of crash)
  5. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/users/{userID}/*  Per-user records and derived values
  /api/holidays          Public holidays of a year
  /api/rollover          Year-end carryover for every user
  /api/scenarios/*       Demo scenarios
  /healthz               Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// NewRouter creates a new router with all routes configured.
// An empty allowedOrigins allows any origin.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/users", h.ListUsers)
		r.Get("/holidays", h.ListHolidays)
		r.Post("/rollover", h.TriggerRollover)

		r.Route("/users/{userID}", func(r chi.Router) {
			// Derived values
			r.Get("/dashboard", h.GetDashboard)
			r.Get("/balance", h.GetBalance)
			r.Get("/series", h.GetSeries)
			r.Get("/months", h.GetMonths)
			r.Get("/holidays", h.ListHolidays)

			r.Route("/work-entries", func(r chi.Router) {
				r.Get("/", h.ListWorkEntries)
				r.Post("/", h.CreateWorkEntry)
				r.Get("/{id}", h.GetWorkEntry)
				r.Put("/{id}", h.UpdateWorkEntry)
				r.Delete("/{id}", h.DeleteWorkEntry)
			})

			r.Route("/leave-entries", func(r chi.Router) {
				r.Get("/", h.ListLeaveEntries)
				r.Post("/", h.CreateLeaveEntry)
				r.Delete("/{id}", h.DeleteLeaveEntry)
			})

			r.Get("/base-schedule", h.GetBaseSchedule)
			r.Put("/base-schedule", h.PutBaseSchedule)

			r.Route("/closures", func(r chi.Router) {
				r.Get("/", h.ListClosures)
				r.Post("/", h.CreateClosure)
				r.Delete("/{id}", h.DeleteClosure)
			})

			r.Route("/vacations", func(r chi.Router) {
				r.Get("/", h.ListVacations)
				r.Post("/", h.CreateVacation)
				r.Delete("/{id}", h.DeleteVacation)
			})

			// Settings
			r.Get("/profile", h.GetProfile)
			r.Put("/profile", h.PutProfile)
			r.Route("/years/{year}", func(r chi.Router) {
				r.Get("/settings", h.GetYearSettings)
				r.Put("/settings", h.PutYearSettings)
				r.Get("/leave-balances", h.GetLeaveBalances)
				r.Put("/leave-balances", h.PutLeaveBalances)
			})

			// Templates
			r.Route("/templates", func(r chi.Router) {
				r.Get("/", h.ListTemplates)
				r.Post("/", h.CreateTemplate)
				r.Get("/{id}", h.GetTemplate)
				r.Delete("/{id}", h.DeleteTemplate)
			})
			r.Post("/generate", h.Generate)
			r.Post("/rollover", h.TriggerUserRollover)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}

// requestLogger logs one line per request with status and duration.
func requestLogger(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			defer func() {
				log.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"method":     r.Method,
					"path":       r.URL.Path,
					"status":     ww.Status(),
					"bytes":      ww.BytesWritten(),
					"duration":   time.Since(start).String(),
					"remote":     r.RemoteAddr,
				}).Info("request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
