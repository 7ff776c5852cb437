package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/salary-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/salary-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/salary-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/salary-backend-go/internal/pkg/payslip"
	"github.com/cmlabs-hris/salary-backend-go/internal/repository/postgresql"
	departmentService "github.com/cmlabs-hris/salary-backend-go/internal/service/department"
	employeeService "github.com/cmlabs-hris/salary-backend-go/internal/service/employee"
	reportService "github.com/cmlabs-hris/salary-backend-go/internal/service/report"
	salaryService "github.com/cmlabs-hris/salary-backend-go/internal/service/salary"
	"github.com/cmlabs-hris/salary-backend-go/migrations"
	"github.com/go-chi/httplog/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
}

// newRedis returns nil when Redis is not configured or unreachable, which
// turns idempotency keys off.
func newRedis(ctx context.Context, cfg config.RedisConfig) *redis.Client {
	if cfg.Addr == "" {
		slog.Info("redis not configured, idempotency keys disabled")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		slog.Warn("redis unreachable, idempotency keys disabled", "addr", cfg.Addr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	if cfg.App.RunMigrations {
		if err := database.Migrate(ctx, db, migrations.FS); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	var idempotency func(http.Handler) http.Handler
	if rdb := newRedis(ctx, cfg.Redis); rdb != nil {
		defer rdb.Close()
		idempotency = middleware.Idempotency(rdb, cfg.Redis.IdempotencyTTL)
	}

	var rateLimit func(http.Handler) http.Handler
	if cfg.RateLimit.RequestsPerSecond > 0 {
		rateLimit = middleware.RateLimitByUser(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("init email service: %w", err)
	}

	transactor := postgresql.NewTransactor(db)
	departmentRepo := postgresql.NewDepartmentRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	structureRepo := postgresql.NewSalaryStructureRepository(db)
	transactionRepo := postgresql.NewSalaryTransactionRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	reportRepo := postgresql.NewReportRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	renderer := payslip.NewRenderer(cfg.Payroll.CompanyName, cfg.Payroll.CurrencySymbol)

	departmentSvc := departmentService.NewDepartmentService(transactor, departmentRepo, auditRepo)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, structureRepo, departmentRepo, auditRepo)
	salarySvc := salaryService.NewSalaryService(transactor, transactionRepo, paymentRepo, employeeRepo, auditRepo, renderer, emailService)
	reportSvc := reportService.NewReportService(reportRepo)

	router := appHTTP.NewRouter(
		appHTTP.RouterOptions{
			Logger:         logger,
			LogLevel:       cfg.LogLevel(),
			AllowedOrigins: cfg.App.AllowedOrigins,
			Idempotency:    idempotency,
			RateLimit:      rateLimit,
		},
		JWTService,
		appHTTP.NewDepartmentHandler(departmentSvc),
		appHTTP.NewEmployeeHandler(employeeSvc),
		appHTTP.NewSalaryHandler(salarySvc),
		appHTTP.NewReportHandler(reportSvc),
	)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
