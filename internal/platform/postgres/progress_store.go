package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

var progressColumns = []string{
	"id", "card_id", "deck_id", "repetitions", "interval_days", "ease_factor",
	"next_review", "last_reviewed", "created_at", "updated_at",
}

const progressSelect = `
	SELECT id, card_id, deck_id, repetitions, interval_days, ease_factor,
		next_review, last_reviewed, created_at, updated_at
	FROM progress`

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend. The
// progress_card_deck_unique constraint guarantees at most one record per
// (card, deck) pair.
type PostgresProgressStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the ProgressStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresProgressStore(db store.DBTX, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "progress_store")),
	}
}

var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// FindByCardAndDeck implements store.ProgressStore.FindByCardAndDeck.
// Returns store.ErrProgressNotFound if no record exists.
func (s *PostgresProgressStore) FindByCardAndDeck(
	ctx context.Context,
	cardID, deckID uuid.UUID,
) (*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	row := s.db.QueryRowContext(ctx, progressSelect+` WHERE card_id = $1 AND deck_id = $2`, cardID, deckID)
	progress, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("progress not found",
				slog.String("card_id", cardID.String()),
				slog.String("deck_id", deckID.String()))
			return nil, store.ErrProgressNotFound
		}
		log.Error("failed to get progress",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()),
			slog.String("deck_id", deckID.String()))
		return nil, MapError(err)
	}
	return progress, nil
}

// FindDueCards implements store.ProgressStore.FindDueCards.
// Records are returned oldest next_review first.
func (s *PostgresProgressStore) FindDueCards(
	ctx context.Context,
	before time.Time,
	deckID *uuid.UUID,
) ([]*domain.Progress, error) {
	var deckArg any
	if deckID != nil {
		deckArg = *deckID
	}

	return s.queryProgress(ctx, "find due progress",
		progressSelect+`
	WHERE next_review <= $1 AND ($2::uuid IS NULL OR deck_id = $2::uuid)
	ORDER BY next_review, id`,
		before.UTC(), deckArg)
}

// Save implements store.ProgressStore.Save.
// Returns store.ErrProgressExists (an ErrDuplicate) when the pair already has progress.
func (s *PostgresProgressStore) Save(ctx context.Context, progress *domain.Progress) error {
	return s.SaveBatch(ctx, []*domain.Progress{progress})
}

// SaveBatch implements store.ProgressStore.SaveBatch.
// The records are inserted with one statement; a duplicate anywhere in the
// batch rejects the whole batch.
func (s *PostgresProgressStore) SaveBatch(ctx context.Context, records []*domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(records) == 0 {
		return nil
	}

	args := make([]any, 0, len(records)*len(progressColumns))
	for _, p := range records {
		if err := p.Validate(); err != nil {
			log.Warn("progress validation failed during save",
				slog.String("error", err.Error()),
				slog.String("card_id", p.CardID.String()),
				slog.String("deck_id", p.DeckID.String()))
			return err
		}
		args = append(args,
			p.ID,
			p.CardID,
			p.DeckID,
			p.Repetitions,
			p.Interval,
			p.EaseFactor,
			p.NextReview,
			p.LastReviewed,
			p.CreatedAt,
			p.UpdatedAt,
		)
	}

	query := bulkInsert("progress", progressColumns, len(records))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		if IsUniqueViolation(err) {
			log.Debug("progress already exists", slog.String("error", err.Error()))
		} else {
			log.Error("failed to save progress",
				slog.String("error", err.Error()),
				slog.Int("count", len(records)))
		}
		return MapUniqueViolation(err, store.ErrProgressExists)
	}

	log.Debug("progress saved", slog.Int("count", len(records)))
	return nil
}

// Update implements store.ProgressStore.Update.
// Only the scheduling fields and timestamps change.
// Returns store.ErrProgressNotFound if the record does not exist.
func (s *PostgresProgressStore) Update(ctx context.Context, progress *domain.Progress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("progress validation failed during update",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	query := `
		UPDATE progress
		SET repetitions = $1, interval_days = $2, ease_factor = $3,
			next_review = $4, last_reviewed = $5, updated_at = $6
		WHERE card_id = $7 AND deck_id = $8
	`
	result, err := s.db.ExecContext(ctx, query,
		progress.Repetitions,
		progress.Interval,
		progress.EaseFactor,
		progress.NextReview,
		progress.LastReviewed,
		progress.UpdatedAt,
		progress.CardID,
		progress.DeckID,
	)
	if err != nil {
		log.Error("failed to update progress",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return store.NewStoreError("progress", "update", "failed to update progress",
			fmt.Errorf("%w: %w", store.ErrUpdateFailed, MapError(err)))
	}

	if err := CheckRowsAffected(result, store.ErrProgressNotFound); err != nil {
		log.Debug("progress update affected no rows",
			slog.String("card_id", progress.CardID.String()),
			slog.String("deck_id", progress.DeckID.String()),
			slog.String("error", err.Error()))
		return err
	}

	log.Debug("progress updated",
		slog.String("card_id", progress.CardID.String()),
		slog.Int("interval", progress.Interval),
		slog.Time("next_review", progress.NextReview))
	return nil
}

// DeleteByDeckID implements store.ProgressStore.DeleteByDeckID.
func (s *PostgresProgressStore) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM progress WHERE deck_id = $1`, deckID)
	if err != nil {
		log.Error("failed to delete progress by deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to count deleted progress",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, store.NewStoreError("progress", "delete", "failed to count deleted rows",
			fmt.Errorf("%w: %w", store.ErrDeleteFailed, err))
	}

	log.Debug("progress deleted",
		slog.String("deck_id", deckID.String()),
		slog.Int64("count", n))
	return n, nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{db: tx, logger: s.logger}
}

func (s *PostgresProgressStore) queryProgress(
	ctx context.Context,
	op, query string,
	args ...any,
) ([]*domain.Progress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to "+op, slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	records := []*domain.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			log.Error("failed to scan progress row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("progress", op, "failed to scan row", err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning progress rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("progress", op, "failed to iterate rows", err)
	}

	log.Debug(op, slog.Int("count", len(records)))
	return records, nil
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var p domain.Progress
	if err := row.Scan(
		&p.ID,
		&p.CardID,
		&p.DeckID,
		&p.Repetitions,
		&p.Interval,
		&p.EaseFactor,
		&p.NextReview,
		&p.LastReviewed,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.NextReview = p.NextReview.UTC()
	p.LastReviewed = p.LastReviewed.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return &p, nil
}
