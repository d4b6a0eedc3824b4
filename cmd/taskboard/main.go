// Package main is the entry point for the taskboard server and CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/taskboard/internal/config"
	"github.com/gosuda/taskboard/internal/seed"
	"github.com/gosuda/taskboard/internal/store/memory"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("taskboard failed")
	}
}

// newRootCommand builds the command tree. Running without a subcommand
// serves.
func newRootCommand() *cobra.Command {
	serve := newServeCommand()

	root := &cobra.Command{
		Use:   "taskboard",
		Short: "Kanban task board server",
		Long: `taskboard keeps a kanban board of tasks in memory and serves it over
HTTP and WebSocket. Tasks move between the backlog, in-progress, paused and
completed columns by drag-and-drop or through the REST API.

Configuration comes from TASKBOARD_* environment variables, optionally read
from a .env file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newInspectCommand())
	return root
}

// setupLogging configures the global zerolog logger.
func setupLogging(cfg config.LogConfig, out io.Writer) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
	}
}

// loadConfig reads the environment and sets up logging.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	setupLogging(cfg.Log, os.Stderr)
	return cfg, nil
}

// seedSource picks the seed document: an explicit path wins over the
// configured file, which wins over the demo board. A nil file means start
// empty.
func seedSource(cfg config.SeedConfig, override string) (*seed.File, string, error) {
	path := override
	if path == "" {
		path = cfg.File
	}
	if path != "" {
		f, err := seed.Load(path)
		if err != nil {
			return nil, "", err
		}
		return f, path, nil
	}
	if cfg.Demo {
		return seed.Demo(), "demo", nil
	}
	return nil, "", nil
}

// newSeededStore builds a store holding the chosen seed.
func newSeededStore(ctx context.Context, cfg config.SeedConfig, override string, now time.Time) (*memory.Store, error) {
	st := memory.New()

	f, source, err := seedSource(cfg, override)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	if f == nil {
		log.Info().Msg("starting with an empty board")
		return st, nil
	}

	n, err := seed.Apply(ctx, st, f, now)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	log.Info().Str("source", source).Int("tasks", n).Msg("board seeded")

	return st, nil
}
