package http

import (
	"log/slog"
	"net/http"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/handler/http/middleware"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterConfig struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	JWTService     jwt.Service
	Enforcer       middleware.Enforcer

	AuthHandler      AuthHandler
	EmployeeHandler  EmployeeHandler
	TimesheetHandler TimesheetHandler
	PayrollHandler   PayrollHandler
	UserHandler      UserHandler
}

func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(cfg.Logger, &httplog.Options{
		Level:  slog.LevelInfo,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	can := func(m user.Module, a user.Action) func(http.Handler) http.Handler {
		return middleware.RequirePrivilege(cfg.Enforcer, m, a)
	}

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", cfg.AuthHandler.Login)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(cfg.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(cfg.JWTService))

			r.Post("/auth/logout", cfg.AuthHandler.Logout)

			r.Route("/employees", func(r chi.Router) {
				r.With(can(user.ModuleEmployees, user.ActionView)).Get("/", cfg.EmployeeHandler.ListEmployees)
				r.Route("/{id}", func(r chi.Router) {
					r.With(can(user.ModuleEmployees, user.ActionView)).Get("/", cfg.EmployeeHandler.GetEmployee)
					r.With(can(user.ModuleLoans, user.ActionView)).Get("/loans", cfg.EmployeeHandler.ListLoans)
					r.With(can(user.ModuleTrafficChallans, user.ActionView)).Get("/challans", cfg.EmployeeHandler.ListChallans)
				})
			})

			r.Route("/timesheets", func(r chi.Router) {
				r.With(can(user.ModuleTimesheets, user.ActionView)).Get("/", cfg.TimesheetHandler.ListTimesheets)
				r.With(can(user.ModuleTimesheets, user.ActionAdd)).Post("/upload", cfg.TimesheetHandler.Upload)
			})

			r.Route("/payrolls", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(can(user.ModulePayrolls, user.ActionView))
					r.Get("/", cfg.PayrollHandler.ListSummaries)
					r.Get("/{id}", cfg.PayrollHandler.GetSummary)
					r.Get("/{id}/details", cfg.PayrollHandler.ListDetails)
				})
				r.With(can(user.ModulePayrolls, user.ActionEdit)).Post("/recompute", cfg.PayrollHandler.Recompute)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(can(user.ModuleUsers, user.ActionView)).Get("/", cfg.UserHandler.ListUsers)
				r.With(can(user.ModuleUsers, user.ActionAdd)).Post("/", cfg.UserHandler.CreateUser)
				r.With(can(user.ModuleUsers, user.ActionEdit)).Put("/{id}/privileges", cfg.UserHandler.UpdatePrivileges)
			})

			r.With(can(user.ModuleUsers, user.ActionView)).Get("/roles", cfg.UserHandler.ListRoles)
		})
	})
	return r
}
