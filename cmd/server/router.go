package main

import (
	"database/sql"
	"net/http"

	"github.com/crucial707/dessert-menu/internal/config"
	"github.com/crucial707/dessert-menu/internal/handlers"
	"github.com/crucial707/dessert-menu/internal/middleware"
	"github.com/crucial707/dessert-menu/internal/repo"
	"github.com/crucial707/dessert-menu/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter wires repositories, services, and handlers into the route table.
// Kept separate from main so integration tests can build the full app over a
// mock database.
func newRouter(database *sql.DB, cfg config.Config) chi.Router {
	userRepo := repo.NewUserRepo(database)
	dessertRepo := repo.NewDessertRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	authHandler := &handlers.AuthHandler{
		Auth:   service.NewAuthService(userRepo),
		Users:  userRepo,
		Secret: []byte(cfg.SessionSecret),
	}
	dessertHandler := &handlers.DessertHandler{
		Service: service.NewDessertService(dessertRepo, auditRepo),
		Repo:    dessertRepo,
		Users:   userRepo,
	}

	loginLimiter := middleware.LoginRateLimiter()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders(false))
	r.Use(middleware.Prometheus)
	r.Use(middleware.Session([]byte(cfg.SessionSecret)))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	r.Get("/", dessertHandler.Index)
	r.With(loginLimiter.Middleware, middleware.MaxBytes(0)).Post("/", authHandler.Login)
	r.Get("/login", authHandler.LoginForm)
	r.Get("/logout", authHandler.Logout)
	r.Get("/register", authHandler.RegisterForm)
	r.With(loginLimiter.Middleware, middleware.MaxBytes(0)).Post("/register", authHandler.Register)

	r.Get("/menu", dessertHandler.Menu)
	r.Get("/add", dessertHandler.AddForm)
	r.With(middleware.MaxBytes(0)).Post("/add", dessertHandler.Add)
	r.Get("/edit/{id}", dessertHandler.EditForm)
	r.With(middleware.MaxBytes(0)).Post("/edit/{id}", dessertHandler.Edit)
	r.Get("/desserts/{id}", dessertHandler.Detail)
	r.Get("/delete/{id}", dessertHandler.Delete)

	return r
}
