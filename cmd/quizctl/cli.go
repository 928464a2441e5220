package main

import (
	"context"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/kakomon/kakomon-backend/internal/database"
	"github.com/kakomon/kakomon-backend/internal/importer"
	"github.com/kakomon/kakomon-backend/internal/logger"
	"github.com/kakomon/kakomon-backend/internal/repository"
	"github.com/kakomon/kakomon-backend/internal/validator"
	"github.com/rs/zerolog"
)

// deps opens the database lazily so that --help works without one.
type deps struct {
	cfg *config.Config
	log zerolog.Logger
	db  *pgxpool.Pool
}

func (d *deps) pool(ctx context.Context) (*pgxpool.Pool, error) {
	if d.db != nil {
		return d.db, nil
	}
	pool, err := database.NewPostgresPool(ctx, d.cfg, d.log)
	if err != nil {
		return nil, err
	}
	d.db = pool
	return pool, nil
}

func (d *deps) importer(ctx context.Context) (*importer.Importer, error) {
	pool, err := d.pool(ctx)
	if err != nil {
		return nil, err
	}
	return importer.New(repository.NewQuestionRepository(pool), d.log), nil
}

func (d *deps) close() {
	if d.db != nil {
		d.db.Close()
	}
}

func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	d := &deps{cfg: cfg, log: log}

	rootCommand := newRootCommand(
		newImportCommand(d),
		newSetImagesCommand(d),
		newYearsCommand(d),
		newTokenCommand(d),
	)

	err := rootCommand.Run(context.Background(), os.Args)
	d.close()
	if err != nil {
		log.Fatal().Err(err).Msg("quizctl failed")
	}
}
