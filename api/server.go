/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend dev server

ROUTE GROUPS:
  /api/records/*        Day records, breaks, bulk clears
  /api/checkin          Punch in
  /api/checkout         Punch out
  /api/periods/*        Pay periods, summaries, exports
  /api/import/*         Tabular import preview and commit
  /api/export/*         Template export
  /api/settings         Leave allotments and preferences
  /api/health           Liveness probe

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/timesheet/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		// Record routes
		r.Route("/records", func(r chi.Router) {
			r.Get("/", h.ListRecords)
			r.Delete("/", h.ClearRecords)
			r.Put("/{date}", h.PutRecord)
			r.Delete("/{date}", h.DeleteRecord)
			r.Post("/{date}/breaks", h.AddBreak)
		})

		// Punch routes
		r.Post("/checkin", h.CheckIn)
		r.Post("/checkout", h.CheckOut)

		// Period routes
		r.Route("/periods", func(r chi.Router) {
			r.Get("/", h.ListPeriods)
			r.Post("/", h.CreatePeriod)
			r.Put("/{id}", h.UpdatePeriod)
			r.Delete("/{id}", h.DeletePeriod)
			r.Post("/{id}/activate", h.ActivatePeriod)
			r.Get("/{id}/summary", h.PeriodSummary)
			r.Get("/{id}/export", h.ExportPeriod)
			r.Delete("/{id}/records", h.ClearPeriodRecords)
		})

		// Import routes
		r.Route("/import", func(r chi.Router) {
			r.Post("/", h.ImportCommit)
			r.Post("/preview", h.ImportPreview)
		})

		// Export routes
		r.Get("/export/template", h.ExportTemplate)

		// Settings routes
		r.Get("/settings", h.GetSettings)
		r.Put("/settings", h.PutSettings)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	return r
}
