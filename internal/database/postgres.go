package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kakomon/kakomon-backend/internal/config"
	"github.com/rs/zerolog"
)

const slowQueryThreshold = 200 * time.Millisecond

// NewPostgresPool creates and validates the question/score store pool.
func NewPostgresPool(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxDBConns
	poolCfg.ConnConfig.Tracer = &slowQueryTracer{log: log.With().Str("component", "pgx").Logger()}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Int32("max_conns", cfg.MaxDBConns).
		Msg("PostgreSQL connected")

	return pool, nil
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// slowQueryTracer warns about statements slower than slowQueryThreshold.
type slowQueryTracer struct {
	log zerolog.Logger
}

func (t *slowQueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

func (t *slowQueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.at)
	if data.Err != nil {
		t.log.Debug().Err(data.Err).Str("sql", start.sql).Dur("elapsed", elapsed).Msg("query failed")
		return
	}
	if elapsed > slowQueryThreshold {
		t.log.Warn().Str("sql", start.sql).Dur("elapsed", elapsed).Msg("slow query")
	}
}
