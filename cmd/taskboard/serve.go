package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/gosuda/taskboard/internal/board"
	"github.com/gosuda/taskboard/internal/config"
	"github.com/gosuda/taskboard/internal/events"
	"github.com/gosuda/taskboard/internal/server"
	redisstore "github.com/gosuda/taskboard/internal/store/redis"
)

func newServeCommand() *cobra.Command {
	var opts struct {
		Addr string
		Seed string
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Long: `Run the board server until SIGINT or SIGTERM.

Examples:
  # Serve the demo board on :8080
  taskboard serve

  # Serve a prepared board on another port
  taskboard serve --addr :9090 --seed ./board.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if opts.Addr != "" {
				cfg.Server.Addr = opts.Addr
			}
			return runServe(cmd.Context(), cfg, opts.Seed)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides TASKBOARD_SERVER_ADDR)")
	cmd.Flags().StringVar(&opts.Seed, "seed", "", "seed file (overrides TASKBOARD_SEED_FILE)")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, seedPath string) error {
	st, err := newSeededStore(ctx, cfg.Seed, seedPath, time.Now())
	if err != nil {
		return err
	}

	broker, err := newBroker(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer broker.Close()

	svc := board.NewService(st, broker, events.BoardChannel(cfg.Redis.ChannelPrefix),
		board.WithUpcomingLimit(cfg.Board.UpcomingLimit),
	)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, svc, broker)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	// Block until shutdown signal or listener failure.
	select {
	case <-ctx.Done():
	case startErr := <-errCh:
		if startErr != nil {
			return startErr
		}
	}
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

// newBroker connects to Redis when configured and falls back to the
// in-process broker otherwise.
func newBroker(ctx context.Context, cfg config.RedisConfig) (events.Broker, error) {
	if !cfg.Enabled() {
		log.Info().Msg("board events: in-process broker")
		return events.NewMemoryBroker(), nil
	}

	ps, err := redisstore.New(ctx, cfg.Addr, cfg.Password, cfg.DB)
	if err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.Addr).Msg("board events: redis broker")
	return ps, nil
}
