package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/pkg/errs"
)

type Config struct {
	HTTPPort string

	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// RedisAddr empty disables the zone cache and idempotency keys.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	ZoneCacheTTL  time.Duration

	ZoneCacheWarmupSpec string
	ZoneStatisticsSpec  string

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// LoadConfig reads the configuration through lookupEnv, usually os.LookupEnv,
// applying defaults for unset or blank variables. Cron specs are the
// exception: a spec set to an empty value disables its job.
func LoadConfig(lookupEnv func(string) (string, bool)) (Config, error) {
	env := func(key, fallback string) string {
		if v, _ := lookupEnv(key); strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}
	envSpec := func(key, fallback string) string {
		if v, ok := lookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	var parseErrs []error
	envInt := func(key string, fallback int) int {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a non-negative integer", raw)))
			return fallback
		}
		return v
	}
	envDuration := func(key string, fallback time.Duration) time.Duration {
		raw := env(key, "")
		if raw == "" {
			return fallback
		}
		v, err := time.ParseDuration(raw)
		if err != nil || v <= 0 {
			parseErrs = append(parseErrs, errs.NewValueIsInvalidErrorWithCause(key, fmt.Errorf("%q is not a positive duration", raw)))
			return fallback
		}
		return v
	}

	config := Config{
		HTTPPort:            env("HTTP_PORT", "8080"),
		DBHost:              env("DB_HOST", "localhost"),
		DBPort:              env("DB_PORT", "5432"),
		DBUser:              env("DB_USER", "postgres"),
		DBPassword:          env("DB_PASSWORD", "postgres"),
		DBName:              env("DB_NAME", "marketplace"),
		DBSslMode:           env("DB_SSLMODE", "disable"),
		DBMaxOpenConns:      envInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:      envInt("DB_MAX_IDLE_CONNS", 5),
		DBConnMaxLifetime:   envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		RedisAddr:           env("REDIS_ADDR", ""),
		RedisPassword:       env("REDIS_PASSWORD", ""),
		RedisDB:             envInt("REDIS_DB", 0),
		ZoneCacheTTL:        envDuration("ZONE_CACHE_TTL", 5*time.Minute),
		ZoneCacheWarmupSpec: envSpec("ZONE_CACHE_WARMUP_SPEC", "0 */4 * * * *"),
		ZoneStatisticsSpec:  envSpec("ZONE_STATS_SPEC", "0 0 * * * *"),
		LogLevel:            env("LOG_LEVEL", "info"),
		LogFormat:           env("LOG_FORMAT", "json"),
		ShutdownTimeout:     envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if err := errors.Join(parseErrs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Postgres() postgres.Config {
	return postgres.Config{
		Host:            c.DBHost,
		Port:            c.DBPort,
		User:            c.DBUser,
		Password:        c.DBPassword,
		Database:        c.DBName,
		SSLMode:         c.DBSslMode,
		MaxOpenConns:    c.DBMaxOpenConns,
		MaxIdleConns:    c.DBMaxIdleConns,
		ConnMaxLifetime: c.DBConnMaxLifetime,
	}
}

func (c Config) RedisEnabled() bool {
	return c.RedisAddr != ""
}
