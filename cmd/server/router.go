package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/velvetlab/velvet-api/internal/api"
	apiMiddleware "github.com/velvetlab/velvet-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// The SPA is the only intended consumer.
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   app.config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	metrics := apiMiddleware.NewMetrics()
	r.Use(metrics.Instrument)

	rateLimiter := apiMiddleware.NewRateLimiter(
		app.config.Server.RateLimitPerSecond,
		app.config.Server.RateLimitBurst,
	)

	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.passwordVerifier,
		app.ssoClient,
	)
	contentHandler := api.NewContentHandler(app.contentService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		if app.ssoClient != nil {
			r.Get("/auth/sso/login", authHandler.SSOLoginURL)
			r.Get("/auth/sso/callback", authHandler.SSOCallback)
		}

		// The category list backs the generator form's dropdown and carries
		// nothing user-specific, so it stays public.
		r.Get("/content/categories", contentHandler.Categories)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Generation endpoints carry the rate limit; reads do not.
			r.Group(func(r chi.Router) {
				r.Use(rateLimiter.Limit)
				r.Post("/content/generate", contentHandler.Generate)
				r.Post("/content/generate/bulk", contentHandler.GenerateBulk)
			})

			r.Get("/content/history", contentHandler.History)
			r.Get("/content/history/{id}", contentHandler.HistoryItem)
			r.Get("/content/credits", contentHandler.Credits)
		})
	})

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}
