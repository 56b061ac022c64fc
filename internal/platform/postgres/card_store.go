package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

var cardColumns = []string{"id", "deck_id", "user_id", "front", "back", "created_at", "updated_at"}

const cardSelect = `SELECT id, deck_id, user_id, front, back, created_at, updated_at FROM cards`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*PostgresCardStore)(nil)

// CreateMultiple implements store.CardStore.CreateMultiple.
// All cards are inserted with a single statement, so the insert is atomic
// even outside a transaction. Every card is validated before anything is written.
func (s *PostgresCardStore) CreateMultiple(ctx context.Context, cards []*domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(cards) == 0 {
		return nil
	}

	args := make([]any, 0, len(cards)*len(cardColumns))
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			log.Warn("card validation failed during create",
				slog.String("error", err.Error()),
				slog.String("card_id", card.ID.String()))
			return err
		}
		args = append(args,
			card.ID,
			card.DeckID,
			card.UserID,
			card.Front,
			card.Back,
			card.CreatedAt,
			card.UpdatedAt,
		)
	}

	query := bulkInsert("cards", cardColumns, len(cards))
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to create cards",
			slog.String("error", err.Error()),
			slog.Int("count", len(cards)))
		return MapError(err)
	}

	log.Debug("cards created", slog.Int("count", len(cards)))
	return nil
}

// GetByID implements store.CardStore.GetByID.
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := scanCard(s.db.QueryRowContext(ctx, cardSelect+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// GetByIDs implements store.CardStore.GetByIDs.
// Missing ids are omitted; the result order is unspecified.
func (s *PostgresCardStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	if len(ids) == 0 {
		return []*domain.Card{}, nil
	}
	return s.queryCards(ctx, "get cards by IDs", cardSelect+` WHERE id = ANY($1::uuid[])`, uuidArray(ids))
}

// ListByDeck implements store.CardStore.ListByDeck.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	return s.queryCards(ctx, "list cards by deck",
		cardSelect+` WHERE deck_id = $1 ORDER BY created_at, id`, deckID)
}

// DeleteByDeckID implements store.CardStore.DeleteByDeckID.
func (s *PostgresCardStore) DeleteByDeckID(ctx context.Context, deckID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE deck_id = $1`, deckID)
	if err != nil {
		log.Error("failed to delete cards by deck",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, MapError(err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to count deleted cards",
			slog.String("error", err.Error()),
			slog.String("deck_id", deckID.String()))
		return 0, store.NewStoreError("card", "delete", "failed to count deleted rows",
			fmt.Errorf("%w: %w", store.ErrDeleteFailed, err))
	}

	log.Debug("cards deleted",
		slog.String("deck_id", deckID.String()),
		slog.Int64("count", n))
	return n, nil
}

// WithTxCardStore implements store.CardStore.WithTxCardStore.
func (s *PostgresCardStore) WithTxCardStore(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}

func (s *PostgresCardStore) queryCards(ctx context.Context, op, query string, args ...any) ([]*domain.Card, error) {
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

	cards := []*domain.Card{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, store.NewStoreError("card", op, "failed to scan row", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error after scanning card rows", slog.String("error", err.Error()))
		return nil, store.NewStoreError("card", op, "failed to iterate rows", err)
	}

	log.Debug(op, slog.Int("count", len(cards)))
	return cards, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	if err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.UserID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	); err != nil {
		return nil, err
	}
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}
