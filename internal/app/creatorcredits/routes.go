// Package creatorcredits предоставляет маршруты для основного приложения.
package creatorcredits

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/billing/subscribe"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/billing/webhook"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/generation/create"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/generation/list"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/generation/read"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/health"
	"github.com/magabrotheeeer/creator-credits/internal/http/handlers/user/current"
	"github.com/magabrotheeeer/creator-credits/internal/http/middlewarectx"
	"github.com/magabrotheeeer/creator-credits/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/creator-credits/internal/services/auth"
	billingservice "github.com/magabrotheeeer/creator-credits/internal/services/billing"
	generationservice "github.com/magabrotheeeer/creator-credits/internal/services/generation"
	"github.com/magabrotheeeer/creator-credits/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, db *repository.Storage,
	authService *authservice.Service, generationService *generationservice.Service,
	billingService *billingservice.Service, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/users/current", current.New(logger, authService).ServeHTTP)
			r.Post("/generations", create.New(logger, generationService).ServeHTTP)
			r.Get("/generations/list", list.New(logger, generationService).ServeHTTP)
			r.Get("/generations/{id}", read.New(logger, generationService).ServeHTTP)
			r.Post("/billing/subscribe", subscribe.New(logger, billingService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/billing/webhook", webhook.New(logger, billingService, webhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
