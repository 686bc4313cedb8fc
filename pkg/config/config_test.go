package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("UPLOAD_MAX_SIZE_MB", "5")
	t.Setenv("PERMISSIONS_CACHE_TTL", "30s")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("CHART_WIDTH", "не число")
	t.Setenv("PG_MAX_CONNS", "25")

	cfg := New()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, int64(5), cfg.Upload.MaxSizeMB)
	assert.Equal(t, 30*time.Second, cfg.Permissions.CacheTTL)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.Equal(t, time.Hour, cfg.Postgres.ConnMaxLifetime)
	assert.Equal(t, 1600, cfg.Chart.Width)
	assert.Equal(t, 5, cfg.Auth.MaxLoginAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LockoutDuration)
}
