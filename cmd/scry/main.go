// Package main implements the scry command, a front end to the spaced
// repetition services: deck and card management, SM-2 reviews, due queues,
// deck statistics and database migrations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-decks/internal/config"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/redact"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const usage = `usage: scry [global flags] <command> [flags]

commands:
  migrate up|down|reset|status|version
  deck create   --user ID --name NAME [--description TEXT]
  deck stats    --user ID --deck ID
  deck delete   --user ID --deck ID
  card add      --user ID --deck ID --front TEXT --back TEXT [--front TEXT --back TEXT ...]
  progress init --card ID --deck ID
  review        --card ID --deck ID --difficulty again|hard|normal|easy
  due           [--deck ID] [--at RFC3339]

global flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "scry: %s\n", redact.Error(err))
		stop()
		os.Exit(1)
	}
}

// run parses global flags, loads configuration, connects to the database and
// dispatches the command named in args.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := pflag.NewFlagSet("scry", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	flags.Usage = func() {
		fmt.Fprint(stderr, usage)
		flags.PrintDefaults()
	}

	configFile := flags.String("config", "", "path to a YAML config file (default ./config.yaml)")
	flags.String("database-url", "", "PostgreSQL connection URL")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-format", "", "log format: json or text")

	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errUsage
	}

	v := viper.New()
	for key, flag := range map[string]string{
		"database.url": "database-url",
		"log.level":    "log-level",
		"log.format":   "log-format",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", flag, err)
		}
	}

	opts := []config.Option{config.WithViper(v)}
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return err
	}
	log.Debug("configuration loaded",
		"database_url", maskDatabaseURL(cfg.Database.URL),
		"log_level", cfg.Log.Level,
		"stats_concurrency", cfg.Stats.Concurrency)

	db, err := openDatabase(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}()

	app, err := newApplication(cfg, log, db)
	if err != nil {
		return err
	}

	return app.dispatch(logger.WithLogger(ctx, log), flags.Args(), stdout)
}
