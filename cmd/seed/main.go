package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"locallibrary/internal/catalog"
	"locallibrary/internal/config"
	"locallibrary/internal/logger"
	"locallibrary/internal/metrics"
	"locallibrary/internal/platform/openlibrary"
	"locallibrary/internal/seed"
	"locallibrary/internal/store"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	if err := newCommand(cfg, log).Run(context.Background(), os.Args); err != nil {
		log.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func newCommand(cfg *config.Config, log *slog.Logger) *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Populate the catalog database",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dsn", Value: cfg.DatabaseDSN, Usage: "PostgreSQL connection string"},
			&cli.BoolFlag{Name: "migrate", Usage: "apply migrations before seeding"},
			&cli.BoolFlag{Name: "skip-samples", Usage: "do not create the sample library"},
			&cli.StringFlag{Name: "subject", Usage: "import books on this Open Library subject"},
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum Open Library results to import"},
			&cli.IntFlag{Name: "rps", Value: 1, Usage: "Open Library requests per second"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			pool, err := pgxpool.New(ctx, c.String("dsn"))
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			if c.Bool("migrate") {
				if err := store.Migrate(ctx, pool, "up"); err != nil {
					return err
				}
			}

			collector := metrics.NewCollector(prometheus.NewRegistry())
			cat := catalog.New(store.NewPostgres(pool, cfg.DBTimeout), catalog.WithObserver(collector))
			seeder := seed.New(cat, log, seed.WithRecorder(collector))

			if !c.Bool("skip-samples") {
				if _, err := seeder.Samples(ctx); err != nil {
					return fmt.Errorf("samples: %w", err)
				}
			}

			if subject := c.String("subject"); subject != "" {
				client := openlibrary.NewClient("locallibrary-seed/1.0", int(c.Int("rps")), 3)
				if _, err := seeder.Import(ctx, client, subject, int(c.Int("limit"))); err != nil {
					return fmt.Errorf("import: %w", err)
				}
			}
			return nil
		},
	}
}
