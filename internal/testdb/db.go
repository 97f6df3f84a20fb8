package testdb

import (
	"context"
	"fmt"
	"testing"

	"github.com/docker/go-connections/nat"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/config"
	"github.com/pageza/fitcoach/backend/internal/database"
)

// TestDB wraps a test database instance
type TestDB struct {
	DB        *database.DB
	Config    *config.Config
	Container testcontainers.Container
}

// Close cleans up the test database
func (td *TestDB) Close() error {
	if td.DB != nil {
		td.DB.Close()
	}
	if td.Container != nil {
		return td.Container.Terminate(context.Background())
	}
	return nil
}

// skipIfUnavailable skips container tests in -short mode or when no Docker
// daemon can be reached.
func skipIfUnavailable(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

func startContainer(t *testing.T, req testcontainers.ContainerRequest) (testcontainers.Container, string, string) {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, ExposedPort(req))
	require.NoError(t, err)

	return container, host, port.Port()
}

// ExposedPort returns the first port a request exposes.
func ExposedPort(req testcontainers.ContainerRequest) nat.Port {
	if len(req.ExposedPorts) == 0 {
		return ""
	}
	return nat.Port(req.ExposedPorts[0])
}

// SetupPostgres starts a PostgreSQL container and returns a migrated
// connection to it.
func SetupPostgres(t *testing.T) *TestDB {
	skipIfUnavailable(t)

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForAll(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			wait.ForListeningPort("5432/tcp"),
		),
	}
	container, host, port := startContainer(t, req)

	cfg := &config.Config{
		Environment: config.Test,
		DBDriver:    "postgres",
		DBHost:      host,
		DBPort:      port,
		DBUser:      "test",
		DBPassword:  "test",
		DBName:      "test",
		DBSSLMode:   "disable",
	}

	testDB := &TestDB{Config: cfg, Container: container}
	t.Cleanup(func() {
		if err := testDB.Close(); err != nil {
			t.Logf("Error cleaning up test database: %v", err)
		}
	})

	db, err := database.New(cfg, zap.NewNop())
	require.NoError(t, err)
	testDB.DB = db

	require.NoError(t, database.Migrate(db.DB))
	return testDB
}

// SetupRedis starts a Redis container and returns a connected client.
func SetupRedis(t *testing.T) *redis.Client {
	skipIfUnavailable(t)

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}
	container, host, port := startContainer(t, req)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Error terminating redis container: %v", err)
		}
	})

	cfg := &config.Config{RedisURL: fmt.Sprintf("redis://%s:%s/0", host, port)}
	client, err := database.NewRedisClient(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return client
}
