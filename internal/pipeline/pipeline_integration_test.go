//go:build integration

package pipeline

import (
	"context"
	"testing"

	"github.com/Sternrassler/swapi-export/internal/testutil"
	"github.com/Sternrassler/swapi-export/pkg/cache"
	"github.com/Sternrassler/swapi-export/pkg/client"
	"github.com/Sternrassler/swapi-export/pkg/export"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err, "start redis container")
	t.Cleanup(func() { container.Terminate(ctx) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	redisClient := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { redisClient.Close() })
	require.NoError(t, redisClient.Ping(ctx).Err())

	return redisClient
}

func TestRun_Integration_RedisCacheSharedAcrossRuns(t *testing.T) {
	redisClient := setupRedis(t)

	mock := testutil.NewMockSWAPI()
	defer mock.Close()
	mock.LoadFixtures()

	run := func() *Result {
		cfg := client.DefaultConfig(cache.NewRedisStore(redisClient))
		cfg.BaseURL = mock.BaseURL()
		c, err := client.New(cfg)
		require.NoError(t, err)

		exporter := export.New("output")
		exporter.FS = afero.NewMemMapFs()

		result, err := Run(context.Background(), Deps{Fetcher: c, Exporter: exporter}, Options{SkipUpload: true})
		require.NoError(t, err)
		return result
	}

	first := run()
	assert.Equal(t, expectedRows, first.Rows)
	assert.Equal(t, 5, mock.GetRequestCount())

	mock.Reset()
	second := run()
	assert.Equal(t, expectedRows, second.Rows)
	assert.Zero(t, mock.GetRequestCount(), "a fresh client should be served from redis")
}
