package cmd_test

import (
	"testing"
	"time"

	"marketplace/cmd"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := cmd.LoadConfig(envFrom(nil))

	require.NoError(t, err)
	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, 25, config.DBMaxOpenConns)
	assert.Equal(t, 5*time.Minute, config.ZoneCacheTTL)
	assert.Equal(t, 10*time.Second, config.ShutdownTimeout)
	assert.False(t, config.RedisEnabled())
	assert.Equal(t, "0 */4 * * * *", config.ZoneCacheWarmupSpec)
	assert.Equal(t, "0 0 * * * *", config.ZoneStatisticsSpec)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=postgres dbname=marketplace sslmode=disable",
		config.Postgres().DSN())
}

func TestLoadConfig_Overrides(t *testing.T) {
	config, err := cmd.LoadConfig(envFrom(map[string]string{
		"HTTP_PORT":            "9000",
		"DB_HOST":              "db",
		"DB_MAX_IDLE_CONNS":    "2",
		"DB_CONN_MAX_LIFETIME": "90s",
		"REDIS_ADDR":           "redis:6379",
		"REDIS_DB":             "3",
		"ZONE_STATS_SPEC":      "@every 30m",
		"LOG_FORMAT":           "text",
	}))

	require.NoError(t, err)
	assert.Equal(t, "9000", config.HTTPPort)
	assert.Equal(t, "db", config.Postgres().Host)
	assert.Equal(t, 2, config.Postgres().MaxIdleConns)
	assert.Equal(t, 90*time.Second, config.Postgres().ConnMaxLifetime)
	assert.True(t, config.RedisEnabled())
	assert.Equal(t, 3, config.RedisDB)
	assert.Equal(t, "@every 30m", config.ZoneStatisticsSpec)
	assert.Equal(t, "text", config.LogFormat)
}

func TestLoadConfig_ReportsEveryMalformedValue(t *testing.T) {
	_, err := cmd.LoadConfig(envFrom(map[string]string{
		"DB_MAX_OPEN_CONNS": "many",
		"ZONE_CACHE_TTL":    "-1m",
	}))

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "DB_MAX_OPEN_CONNS")
	assert.Contains(t, err.Error(), "ZONE_CACHE_TTL")
}

func TestLoadConfig_EmptyCronSpecDisablesJob(t *testing.T) {
	config, err := cmd.LoadConfig(envFrom(map[string]string{
		"ZONE_CACHE_WARMUP_SPEC": "",
		"ZONE_STATS_SPEC":        "  ",
		"HTTP_PORT":              "",
	}))

	require.NoError(t, err)
	assert.Empty(t, config.ZoneCacheWarmupSpec)
	assert.Empty(t, config.ZoneStatisticsSpec)
	assert.Equal(t, "8080", config.HTTPPort)
}
