package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/logger"
	"github.com/urfave/cli/v3"
)

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	root := &cli.Command{
		Name:  "migrate",
		Usage: "Apply or inspect the schema migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: "migrations",
				Usage: "Directory holding the migration files.",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "Apply all pending migrations",
				Action: withMigrator(cfg, func(_ context.Context, m *migrate.Migrate, _ *cli.Command) error {
					if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("up: %w", err)
					}
					log.Info().Msg("Migrated up")
					return nil
				}),
			},
			{
				Name:  "down",
				Usage: "Revert every applied migration",
				Action: withMigrator(cfg, func(_ context.Context, m *migrate.Migrate, _ *cli.Command) error {
					if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
						return fmt.Errorf("down: %w", err)
					}
					log.Info().Msg("Migrated down")
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "Print the applied schema version",
				Action: withMigrator(cfg, func(_ context.Context, m *migrate.Migrate, _ *cli.Command) error {
					version, dirty, err := m.Version()
					if err != nil {
						return fmt.Errorf("version: %w", err)
					}
					log.Info().Uint("version", version).Bool("dirty", dirty).Msg("Schema version")
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "Mark a version as applied without running it",
				ArgsUsage: "<version>",
				Action: withMigrator(cfg, func(_ context.Context, m *migrate.Migrate, c *cli.Command) error {
					v, err := strconv.Atoi(c.Args().First())
					if err != nil {
						return fmt.Errorf("force requires a numeric version: %w", err)
					}
					if err := m.Force(v); err != nil {
						return fmt.Errorf("force: %w", err)
					}
					log.Info().Int("version", v).Msg("Forced schema version")
					return nil
				}),
			},
		},
	}

	if err := root.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}

type migrateAction func(ctx context.Context, m *migrate.Migrate, c *cli.Command) error

func withMigrator(cfg *config.Config, fn migrateAction) cli.ActionFunc {
	return func(ctx context.Context, c *cli.Command) error {
		if cfg.DatabaseURL == "" {
			return errors.New("DATABASE_URL is not set")
		}

		m, err := migrate.New("file://"+c.String("path"), cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("init migrator: %w", err)
		}
		defer m.Close()

		return fn(ctx, m, c)
	}
}
