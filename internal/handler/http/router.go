package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/salary-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterOptions struct {
	Logger         *slog.Logger
	LogLevel       slog.Level
	AllowedOrigins []string
	// Idempotency wraps the money-moving POST endpoints. Nil disables it.
	Idempotency func(http.Handler) http.Handler
	// RateLimit throttles authenticated requests per user. Nil disables it.
	RateLimit func(http.Handler) http.Handler
}

func NewRouter(
	opts RouterOptions,
	JWTService jwt.Service,
	departmentHandler DepartmentHandler,
	employeeHandler EmployeeHandler,
	salaryHandler SalaryHandler,
	reportHandler ReportHandler,
) *chi.Mux {
	r := chi.NewRouter()

	idempotent := opts.Idempotency
	if idempotent == nil {
		idempotent = func(next http.Handler) http.Handler { return next }
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.IdempotencyKeyHeader, middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader, middleware.IdempotentReplayHeader},
		MaxAge:           300,
	}))

	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.RequestID)

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
		r.Use(middleware.AuthRequired)
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}

		r.Route("/departments", func(r chi.Router) {
			r.With(middleware.RequirePermission(user.PermissionDepartmentView)).Get("/", departmentHandler.ListDepartments)
			r.With(middleware.RequirePermission(user.PermissionDepartmentManage)).Post("/", departmentHandler.CreateDepartment)
			r.With(middleware.RequirePermission(user.PermissionDepartmentView)).Get("/{id}", departmentHandler.GetDepartment)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeView))
				r.Get("/", employeeHandler.ListEmployees)
				r.Get("/code", employeeHandler.GenerateCode)
				r.Get("/{id}", employeeHandler.GetEmployee)
				r.Get("/{id}/salary-structures", employeeHandler.GetStructureHistory)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionEmployeeManage))
				r.Post("/", employeeHandler.CreateEmployee)
				r.Put("/{id}", employeeHandler.UpdateEmployee)
				r.Patch("/{id}/status", employeeHandler.UpdateStatus)
				r.Delete("/{id}", employeeHandler.DeleteEmployee)
			})
		})

		r.Route("/salaries", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSalaryView))
				r.Get("/", salaryHandler.ListTransactions)
				r.Get("/stats", salaryHandler.Stats)
				r.Get("/{id}", salaryHandler.GetTransaction)
				r.Get("/{id}/payslip", salaryHandler.DownloadPayslip)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequirePermission(user.PermissionSalaryGenerate))
				r.Post("/preview", salaryHandler.Preview)
				r.With(idempotent).Post("/generate", salaryHandler.Generate)
			})

			r.With(middleware.RequirePermission(user.PermissionSalaryApprove)).Post("/{id}/approve", salaryHandler.Approve)
			r.With(middleware.RequirePermission(user.PermissionSalaryPay), idempotent).Post("/{id}/mark-paid", salaryHandler.MarkPaid)
			r.With(middleware.RequirePermission(user.PermissionPayslipSend)).Post("/{id}/send-slip", salaryHandler.SendPayslip)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Use(middleware.RequirePermission(user.PermissionReportsView))
			r.Get("/monthly", reportHandler.GetMonthlyReport)
			r.Get("/yearly", reportHandler.GetYearlyReport)
		})
	})

	return r
}
