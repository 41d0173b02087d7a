/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
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

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Staff routes
		r.Route("/staff", func(r chi.Router) {
			r.Get("/", h.ListStaff)
			r.Post("/", h.CreateStaff)
			r.Get("/{id}/payroll", h.ComputePayroll)
			r.Get("/{id}/payslip", h.InitialPayslip)
			r.Get("/{id}/payslips", h.ListPayslips)
			r.Post("/{id}/payslips", h.SavePayslip)
		})

		// Attendance routes
		r.Post("/events", h.RecordEvent)
		r.Get("/attendance/summary", h.AttendanceSummary)

		// Overtime routes
		r.Route("/overtime", func(r chi.Router) {
			r.Post("/", h.SubmitOvertime)
			r.Post("/{id}/approve", h.ApproveOvertime)
			r.Post("/{id}/reject", h.RejectOvertime)
		})

		// Financial request routes
		r.Route("/finance", func(r chi.Router) {
			r.Post("/", h.SubmitFinancial)
			r.Post("/{id}/approve", h.ApproveFinancial)
			r.Post("/{id}/reject", h.RejectFinancial)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/reconcile", h.RunReconciliation)
			r.Get("/reconcile/runs", h.ListReconciliationRuns)
			r.Post("/adjustments", h.AdjustShift)
		})
	})

	return r
}
