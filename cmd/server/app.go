package main

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/matthewaubert/horizons-api/internal/config"
	"github.com/matthewaubert/horizons-api/internal/platform/logger"
	"github.com/matthewaubert/horizons-api/internal/platform/mongodb"
	"github.com/matthewaubert/horizons-api/internal/service/auth"
	"github.com/matthewaubert/horizons-api/internal/service/mail"
	"github.com/matthewaubert/horizons-api/internal/service/slugger"
)

// application holds the assembled dependency graph. Everything downstream of
// config is constructed once here and injected; no package-level state.
type application struct {
	config *config.Config
	logger *slog.Logger

	db *mongo.Database

	users      *mongodb.UserStore
	posts      *mongodb.PostStore
	comments   *mongodb.CommentStore
	categories *mongodb.CategoryStore

	tokens auth.TokenService
	hasher *auth.BcryptHasher
	slugs  *slugger.Generator
	mailer mail.Mailer
}

// newApplication loads configuration, connects to the database and wires the
// service layer. Construction errors are fatal to startup; a server with a
// missing JWT secret or unreachable database must not come up.
func newApplication(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	db, err := mongodb.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	var mailer mail.Mailer
	if cfg.Email.SendGridKey != "" {
		mailer, err = mail.NewSendGridMailer(cfg.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to create mailer: %w", err)
		}
	} else {
		log.Warn("no SendGrid key configured, verification emails will be logged only")
		mailer = mail.LogMailer{}
	}

	return &application{
		config:     cfg,
		logger:     log,
		db:         db,
		users:      mongodb.NewUserStore(db, log),
		posts:      mongodb.NewPostStore(db, log),
		comments:   mongodb.NewCommentStore(db, log),
		categories: mongodb.NewCategoryStore(db, log),
		tokens:     tokens,
		hasher:     auth.NewBcryptHasher(),
		slugs:      slugger.New(),
		mailer:     mailer,
	}, nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup(ctx context.Context) {
	if err := app.db.Client().Disconnect(ctx); err != nil {
		app.logger.Error("failed to disconnect from database", "error", err)
	}
}
