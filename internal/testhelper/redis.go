package testhelper

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// NewRedisContainer starts a throwaway Redis. The test is skipped when no
// container runtime is available.
func NewRedisContainer(t *testing.T) testcontainers.Container {
	t.Helper()

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("failed to create Redis container: %v", err)
	}

	t.Cleanup(func() {
		_ = redisC.Terminate(context.Background())
	})

	return redisC
}

// NewRedisClient connects go-redis to the container.
func NewRedisClient(t *testing.T, container testcontainers.Container) *redis.Client {
	t.Helper()

	endpoint, err := container.Endpoint(context.Background(), "")
	if err != nil {
		t.Skipf("failed to get Redis container endpoint: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: endpoint})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("failed to ping Redis container: %v", err)
	}

	t.Cleanup(func() {
		_ = rdb.Close()
	})

	return rdb
}
