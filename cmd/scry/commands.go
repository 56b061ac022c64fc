package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/postgres"
	"github.com/phrazzld/scry-decks/internal/service"
	"github.com/phrazzld/scry-decks/internal/service/card_review"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("invalid usage")

var validate = validator.New()

type commandFunc func(ctx context.Context, args []string, out io.Writer) error

// dispatch runs the command named by args[0] (and args[1] for grouped
// commands such as "deck create").
func (a *application) dispatch(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	commands := map[string]commandFunc{
		"migrate":       a.runMigrate,
		"deck create":   a.runDeckCreate,
		"deck stats":    a.runDeckStats,
		"deck delete":   a.runDeckDelete,
		"card add":      a.runCardAdd,
		"progress init": a.runProgressInit,
		"review":        a.runReview,
		"due":           a.runDue,
	}

	if cmd, ok := commands[args[0]]; ok {
		return cmd(ctx, args[1:], out)
	}
	if len(args) > 1 {
		if cmd, ok := commands[args[0]+" "+args[1]]; ok {
			return cmd(ctx, args[2:], out)
		}
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
}

func (a *application) runMigrate(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 1 || !slices.Contains(postgres.MigrationCommands, args[0]) {
		return fmt.Errorf("%w: migrate expects one of %v", errUsage, postgres.MigrationCommands)
	}
	return a.migrate(ctx, a.db, args[0], a.logger)
}

func (a *application) runDeckCreate(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("deck create")
	userID := uuidFlag(flags, "user", "owner of the deck")
	name := flags.String("name", "", "deck name")
	description := flags.String("description", "", "deck description")
	if err := parse(flags, args, "user"); err != nil {
		return err
	}

	deck, err := a.deckService.CreateDeck(ctx, userID.id, *name, *description)
	if err != nil {
		return err
	}
	return writeJSON(out, deck)
}

func (a *application) runDeckStats(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("deck stats")
	userID := uuidFlag(flags, "user", "requesting user")
	deckID := uuidFlag(flags, "deck", "deck to summarise")
	if err := parse(flags, args, "user", "deck"); err != nil {
		return err
	}

	stats, err := a.deckStatsService.FindDeckStats(ctx, deckID.id, userID.id)
	if err != nil {
		return err
	}
	return writeJSON(out, stats)
}

func (a *application) runDeckDelete(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("deck delete")
	userID := uuidFlag(flags, "user", "requesting user")
	deckID := uuidFlag(flags, "deck", "deck to delete")
	if err := parse(flags, args, "user", "deck"); err != nil {
		return err
	}

	report, err := a.deckService.DeleteDeck(ctx, deckID.id, userID.id)
	if err != nil {
		return err
	}
	if err := report.Err(); err != nil {
		a.logger.WarnContext(ctx, "deck deleted with cleanup failures", "error", err)
	}
	return writeJSON(out, deletionOutput(report))
}

func (a *application) runCardAdd(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("card add")
	userID := uuidFlag(flags, "user", "owner of the deck")
	deckID := uuidFlag(flags, "deck", "deck to add cards to")
	fronts := flags.StringArray("front", nil, "card prompt (repeatable)")
	backs := flags.StringArray("back", nil, "card answer (repeatable, paired with --front)")
	if err := parse(flags, args, "user", "deck", "front", "back"); err != nil {
		return err
	}
	sides := cardSides{Fronts: *fronts, Backs: *backs}
	if err := validate.Struct(sides); err != nil {
		return fmt.Errorf("%w: card add: %v", errUsage, err)
	}

	inputs := make([]service.CardInput, len(sides.Fronts))
	for i := range inputs {
		inputs[i] = service.CardInput{Front: sides.Fronts[i], Back: sides.Backs[i]}
	}

	cards, err := a.deckService.AddCards(ctx, deckID.id, userID.id, inputs)
	if err != nil {
		return err
	}
	return writeJSON(out, cards)
}

func (a *application) runProgressInit(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("progress init")
	cardID := uuidFlag(flags, "card", "card to track")
	deckID := uuidFlag(flags, "deck", "deck the card is studied in")
	if err := parse(flags, args, "card", "deck"); err != nil {
		return err
	}

	result, err := a.cardReviewService.InitializeProgress(ctx, cardID.id, deckID.id)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func (a *application) runReview(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("review")
	cardID := uuidFlag(flags, "card", "reviewed card")
	deckID := uuidFlag(flags, "deck", "deck the card is studied in")
	rating := flags.String("difficulty", "", "again, hard, normal or easy")
	if err := parse(flags, args, "card", "deck", "difficulty"); err != nil {
		return err
	}

	difficulty, err := domain.ParseDifficulty(*rating)
	if err != nil {
		return err
	}

	result, err := a.cardReviewService.ReviewCard(ctx, cardID.id, deckID.id, difficulty)
	if err != nil {
		return err
	}
	return writeJSON(out, result)
}

func (a *application) runDue(ctx context.Context, args []string, out io.Writer) error {
	flags := newFlagSet("due")
	deckID := uuidFlag(flags, "deck", "restrict to one deck")
	at := flags.String("at", "", "cutoff time in RFC3339 (default now)")
	if err := parse(flags, args); err != nil {
		return err
	}

	var query card_review.DueCardsQuery
	if flags.Changed("deck") {
		query.DeckID = &deckID.id
	}
	if *at != "" {
		t, err := time.Parse(time.RFC3339, *at)
		if err != nil {
			return fmt.Errorf("%w: invalid --at: %v", errUsage, err)
		}
		query.At = t
	}

	due, err := a.cardReviewService.FindDueCards(ctx, query)
	if err != nil {
		return err
	}
	return writeJSON(out, due)
}

// cardSides pairs the repeated --front and --back values of "card add".
type cardSides struct {
	Fronts []string `validate:"min=1,dive,required"`
	Backs  []string `validate:"eqfield=Fronts,dive,required"`
}

type deletionStep struct {
	Resource string `json:"resource"`
	Count    int64  `json:"count"`
	Error    string `json:"error,omitempty"`
}

// deletionOutput renders a report with its errors as strings.
func deletionOutput(report *service.DeletionReport) any {
	steps := make([]deletionStep, len(report.Outcomes))
	for i, o := range report.Outcomes {
		steps[i] = deletionStep{Resource: o.Resource, Count: o.Count}
		if o.Err != nil {
			steps[i].Error = o.Err.Error()
		}
	}
	return struct {
		DeckID uuid.UUID      `json:"deck_id"`
		Steps  []deletionStep `json:"steps"`
	}{report.DeckID, steps}
}

func newFlagSet(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.SetOutput(io.Discard)
	return flags
}

// parse parses args and checks that every required flag was given.
func parse(flags *pflag.FlagSet, args []string, required ...string) error {
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %s: %v", errUsage, flags.Name(), err)
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("%w: %s: unexpected arguments %v", errUsage, flags.Name(), flags.Args())
	}
	for _, name := range required {
		if !flags.Changed(name) {
			return fmt.Errorf("%w: %s: --%s is required", errUsage, flags.Name(), name)
		}
	}
	return nil
}

// uuidValue is a pflag.Value holding a UUID.
type uuidValue struct {
	id uuid.UUID
}

func (v *uuidValue) String() string {
	if v.id == uuid.Nil {
		return ""
	}
	return v.id.String()
}

func (v *uuidValue) Set(s string) error {
	id, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	v.id = id
	return nil
}

func (v *uuidValue) Type() string { return "uuid" }

func uuidFlag(flags *pflag.FlagSet, name, usage string) *uuidValue {
	v := &uuidValue{}
	flags.Var(v, name, usage)
	return v
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
