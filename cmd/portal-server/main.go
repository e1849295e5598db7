package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/doctorsportal/portal/internal/config"
	"github.com/doctorsportal/portal/internal/domain/appointment"
	"github.com/doctorsportal/portal/internal/domain/payment"
	"github.com/doctorsportal/portal/internal/platform/db"
	"github.com/doctorsportal/portal/internal/platform/telemetry"
	"github.com/doctorsportal/portal/internal/platform/websocket"
	"github.com/doctorsportal/portal/migrations"
)

var logOutput io.Writer = os.Stdout

func main() {
	rootCmd := &cobra.Command{
		Use:   "portal-server",
		Short: "Doctors Portal booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the portal API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bootstrap loads config and builds the logger from it, so the log format
// follows the same ENV default the rest of the server sees.
func bootstrap() (*config.Config, zerolog.Logger, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, newLogger(false), err
	}
	return cfg, newLogger(cfg.IsDev()), nil
}

func runServer() error {
	cfg, logger, err := bootstrap()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.BookingUniqueIndex {
		if err := st.bookings.EnsureUniqueness(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to create booking unique index")
		}
		logger.Info().Msg("booking uniqueness enforced by the store")
	}

	if cfg.StripeSecretKey == "" {
		logger.Warn().Msg("STRIPE_SECRET_KEY is not set, payment intents will fail")
	}
	provider := payment.NewStripeProvider(cfg.StripeSecretKey, nil)

	e := newServer(cfg, logger, st, provider, telemetry.NewMetrics(), websocket.NewHub(logger))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("closing store failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the Postgres schema (STORE_DRIVER=postgres)",
	}

	// migrate up
	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, migrations.FS).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	cmd.AddCommand(upCmd)

	// migrate status
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, migrations.FS).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status, appliedAt := "pending", ""
				if s.Applied {
					status = "applied"
				}
				if s.AppliedAt != nil {
					appliedAt = s.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(out, "%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	cmd.AddCommand(statusCmd)

	return cmd
}

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load reference data",
	}

	optionsCmd := &cobra.Command{
		Use:   "options",
		Short: "Load appointment option templates from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("file")
			replace, _ := cmd.Flags().GetBool("replace")

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			opts, err := decodeOptions(f)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}

			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}

			ctx := context.Background()
			st, err := openStores(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.close(context.Background())

			n, err := appointment.NewService(st.options, st.booked).Seed(ctx, opts, replace)
			if err != nil {
				return fmt.Errorf("seed options: %w", err)
			}
			logger.Info().Int("count", n).Bool("replace", replace).Msg("appointment options seeded")
			return nil
		},
	}
	optionsCmd.Flags().String("file", "options.json", "JSON array of appointment options")
	optionsCmd.Flags().Bool("replace", false, "Remove existing options first")
	cmd.AddCommand(optionsCmd)

	return cmd
}

// decodeOptions reads a JSON array of option templates.
func decodeOptions(r io.Reader) ([]*appointment.Option, error) {
	var opts []*appointment.Option
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&opts); err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("no options found")
	}
	return opts, nil
}
