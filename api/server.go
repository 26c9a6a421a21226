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

ROUTE GROUPS:
  /api/expenses/*          Expense CRUD
  /api/credits/*           Credit CRUD
  /api/budget-goals/*      Budget goals
  /api/recurring/*         Recurring rules
  /api/expected-income/*   Expected incomes
  /api/report-schedules/*  Report schedules
  /api/reports/*           One-off export
  /api/upload              Statement import
  /api/admin/*             Admin operations

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/expenses", func(r chi.Router) {
			r.Get("/", h.ListExpenses)
			r.Post("/", h.CreateExpense)
			r.Put("/{id}", h.UpdateExpense)
			r.Delete("/{id}", h.DeleteExpense)
		})

		r.Route("/credits", func(r chi.Router) {
			r.Get("/", h.ListCredits)
			r.Post("/", h.CreateCredit)
			r.Put("/{id}", h.UpdateCredit)
			r.Delete("/{id}", h.DeleteCredit)
		})

		r.Route("/budget-goals", func(r chi.Router) {
			r.Get("/", h.ListBudgetGoals)
			r.Post("/", h.CreateBudgetGoal)
			r.Delete("/{id}", h.DeleteBudgetGoal)
		})
		r.Get("/budget-progress", h.GetBudgetProgress)

		r.Route("/recurring", func(r chi.Router) {
			r.Get("/", h.ListRecurring)
			r.Post("/", h.CreateRecurring)
			r.Put("/{id}", h.UpdateRecurring)
			r.Delete("/{id}", h.DeleteRecurring)
		})

		r.Route("/expected-income", func(r chi.Router) {
			r.Get("/", h.ListExpectedIncome)
			r.Post("/", h.CreateExpectedIncome)
			r.Put("/{id}", h.UpdateExpectedIncome)
			r.Delete("/{id}", h.DeleteExpectedIncome)
		})
		r.Get("/income-reconciliation", h.GetIncomeReconciliation)

		r.Route("/report-schedules", func(r chi.Router) {
			r.Get("/", h.ListReportSchedules)
			r.Post("/", h.CreateReportSchedule)
			r.Put("/{id}", h.UpdateReportSchedule)
			r.Delete("/{id}", h.DeleteReportSchedule)
		})
		r.Get("/reports/export", h.ExportReport)
		r.Get("/trends", h.GetTrends)

		r.Post("/upload", h.UploadStatement)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/jobs/run", h.RunJobsNow)
		})
	})

	return r
}
