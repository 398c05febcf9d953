package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/velvetlab/velvet-api/internal/config"
	"github.com/velvetlab/velvet-api/internal/generation"
	"github.com/velvetlab/velvet-api/internal/platform/gemini"
	"github.com/velvetlab/velvet-api/internal/platform/postgres"
	"github.com/velvetlab/velvet-api/internal/platform/sso"
	"github.com/velvetlab/velvet-api/internal/service"
	"github.com/velvetlab/velvet-api/internal/service/auth"
	"github.com/velvetlab/velvet-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore       store.UserStore
	generationStore store.GenerationStore
	categoryStore   store.CategoryStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	generator        generation.ContentGenerator
	contentService   *service.ContentService

	// Optional SSO client, nil when not configured.
	ssoClient *sso.Client
}

// newApplication creates an application instance with all dependencies
// initialized. Configuration, logger, and database connection must already
// be established.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.passwordVerifier = auth.NewBcryptVerifier(0)

	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.generationStore = postgres.NewPostgresGenerationStore(db, logger)
	app.categoryStore = postgres.NewPostgresCategoryStore(db, logger)

	app.generator, err = gemini.NewGeminiGenerator(
		ctx,
		logger.With("component", "content_generator"),
		cfg.LLM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content generator: %w", err)
	}
	logger.Info("content generator initialized", "model", cfg.LLM.ModelName)

	app.contentService, err = service.NewContentService(
		db,
		app.userStore,
		app.generationStore,
		app.categoryStore,
		app.generator,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize content service: %w", err)
	}

	if cfg.SSO.Enabled() {
		app.ssoClient = sso.NewClient(cfg.SSO, logger)
		logger.Info("SSO client initialized", "issuer", cfg.SSO.Issuer)
	}

	return app, nil
}
