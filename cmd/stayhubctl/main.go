// Command stayhubctl runs operator tasks against the configured storage:
// schema migration, calendar reseeding and ad-hoc searches.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"stayhub/internal/app/registry"
	"stayhub/internal/infra/config"
	"stayhub/internal/infra/obs"
	"stayhub/internal/infra/platform"
	"stayhub/internal/infra/validation"
)

var (
	outputCompact bool
	cfg           config.Config
	logger        *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "stayhubctl",
	Short: "Operator tools for the stay search service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger = obs.NewLogger(cfg.Env)
		return nil
	},
	SilenceUsage: true,
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.PersistentFlags().BoolVar(&outputCompact, "compact", false, "Output single-line JSON")
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(searchCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withBuses opens the platform, builds the buses and closes everything
// once fn returns.
func withBuses(ctx context.Context, fn func(registry.Buses) error) error {
	p, err := platform.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := p.Close(context.Background()); cerr != nil {
			logger.Error("platform shutdown failed", "error", cerr)
		}
	}()
	buses := registry.Build(registry.Deps{
		UoW:         p.UoW,
		Outbox:      p.Outbox,
		Idempotency: p.Idempotency,
		Validator:   validation.New(),
		Uploader:    p.Uploader,
		Seeding:     registry.DefaultSeeding(cfg.Seed.AvailabilityDays, cfg.Seed.PropertyRateDays, cfg.Seed.RoomTypeRateDays, cfg.Seed.BatchDays, logger),
		Timeout:     cfg.RequestTimeout,
		Logger:      logger,
	})
	return fn(buses)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	if !outputCompact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
