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

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/config"
	appHTTP "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/handler/http"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/authz"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/jwt"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/logging"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/storage"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/repository/postgresql"
	serviceAuth "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/auth"
	employeeService "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/employee"
	payrollService "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/payroll"
	timesheetService "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/timesheet"
	userService "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.ValidateAPI(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.App.LogLevel,
		slog.String("app", "bak-timesheet-api"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolSize{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if cfg.App.AutoMigrate {
		if err := postgresql.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	loanRepo := postgresql.NewLoanRepository(db)
	challanRepo := postgresql.NewChallanRepository(db)
	timesheetRepo := postgresql.NewTimesheetRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	transactor := postgresql.NewTransactor(db)

	uploads, err := storage.NewLocalStorage(cfg.App.UploadDir)
	if err != nil {
		return fmt.Errorf("initializing upload storage: %w", err)
	}

	authorizer, err := authz.NewAuthorizer()
	if err != nil {
		return err
	}
	users, err := userRepo.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("loading users: %w", err)
	}
	if err := authorizer.Load(users); err != nil {
		return fmt.Errorf("loading privileges: %w", err)
	}

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	authSvc := serviceAuth.NewAuthService(userRepo, JWTService, logger)
	userSvc := userService.NewUserService(userRepo, authorizer, logger)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, loanRepo, challanRepo)
	timesheetSvc := timesheetService.NewTimesheetService(timesheetRepo, employeeRepo, uploads, logger)
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, logger)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:           logger,
		AllowedOrigins:   cfg.App.CORSAllowedOrigins,
		JWTService:       JWTService,
		Enforcer:         authorizer,
		AuthHandler:      appHTTP.NewAuthHandler(authSvc),
		EmployeeHandler:  appHTTP.NewEmployeeHandler(employeeSvc),
		TimesheetHandler: appHTTP.NewTimesheetHandler(timesheetSvc),
		PayrollHandler:   appHTTP.NewPayrollHandler(payrollSvc),
		UserHandler:      appHTTP.NewUserHandler(userSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
