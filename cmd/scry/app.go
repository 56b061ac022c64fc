package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/domain/srs"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/phrazzld/scry-decks/internal/service/deck_stats"
)

const pingTimeout = 5 * time.Second

// application holds the services a command may use.
type application struct {
	logger *slog.Logger
	db     *sql.DB

	deckService       service.DeckService
	cardReviewService card_review.CardReviewService
	deckStatsService  deck_stats.DeckStatsService

	// migrate is swapped out in tests
	migrate func(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error
}

// newApplication wires the postgres stores into the services.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	deckStore := postgres.NewPostgresDeckStore(db, logger)
	cardStore := postgres.NewPostgresCardStore(db, logger)
	progressStore := postgres.NewPostgresProgressStore(db, logger)

	scheduler := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:  cfg.SRS.MinEaseFactor,
		PassingQuality: cfg.SRS.PassingQuality,
		FirstInterval:  cfg.SRS.FirstInterval,
		SecondInterval: cfg.SRS.SecondInterval,
		LapseInterval:  cfg.SRS.LapseInterval,
	}))

	deckService, err := service.NewDeckService(
		deckStore,
		service.NewCardRepositoryAdapter(cardStore, db),
		service.NewProgressRepositoryAdapter(progressStore),
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize deck service: %w", err)
	}

	return &application{
		logger:      logger,
		db:          db,
		deckService: deckService,
		cardReviewService: card_review.NewCardReviewService(
			card_review.NewCardRepositoryAdapter(cardStore),
			card_review.NewProgressRepositoryAdapter(progressStore),
			scheduler,
			logger,
		),
		deckStatsService: deck_stats.NewDeckStatsService(
			deck_stats.NewRepositories(deckStore, cardStore, progressStore),
			logger,
			deck_stats.WithConcurrency(cfg.Stats.Concurrency),
		),
		migrate: postgres.Migrate,
	}, nil
}

// openDatabase establishes a connection pool and verifies it with a ping.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", maskDatabaseURL(cfg.URL), err)
	}

	logger.Info("database connection established",
		"database_url", maskDatabaseURL(cfg.URL),
		"max_open_conns", cfg.MaxOpenConns)
	return db, nil
}

// maskDatabaseURL hides the password in a connection URL for logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		if _, hasPassword := parsedURL.User.Password(); hasPassword {
			parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		}
		return parsedURL.String()
	}

	return dbURL
}
