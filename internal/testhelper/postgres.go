package testhelper

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	pgUser     = "kakomon"
	pgPassword = "kakomon"
	pgDatabase = "kakomon_test"
)

// NewPostgresContainer starts a throwaway PostgreSQL. The test is skipped
// when no container runtime is available.
func NewPostgresContainer(t *testing.T) testcontainers.Container {
	t.Helper()

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     pgUser,
			"POSTGRES_PASSWORD": pgPassword,
			"POSTGRES_DB":       pgDatabase,
		},
		// The server restarts once after the init scripts run.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("failed to create PostgreSQL container: %v", err)
	}

	t.Cleanup(func() {
		_ = pgC.Terminate(context.Background())
	})

	return pgC
}

// NewMigratedPool applies the repository migrations to the container and
// returns a pool connected to it.
func NewMigratedPool(t *testing.T, container testcontainers.Container) *pgxpool.Pool {
	t.Helper()

	ctx := context.Background()
	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get PostgreSQL container endpoint: %v", err)
	}
	dsn := fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", pgUser, pgPassword, endpoint, pgDatabase)

	m, err := migrate.New("file://"+migrationsDir(), dsn)
	if err != nil {
		t.Fatalf("init migrations: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("apply migrations: %v", err)
	}
	_, _ = m.Close()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect to PostgreSQL container: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}
