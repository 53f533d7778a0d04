package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("INVENTORY_CONCURRENCY", "8")
	t.Setenv("COUNTDOWN_INTERVAL_SECONDS", "30")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 6543, cfg.DBPort)
	assert.Equal(t, 8, cfg.InventoryConcurrency)
	assert.Equal(t, 30*time.Second, cfg.CountdownInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.NotContains(t, cfg.Defaulted, "SERVER_PORT")
}

func TestLoad_BadNumbersFallBack(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")
	t.Setenv("INVENTORY_CONCURRENCY", "0")
	t.Setenv("EXPIRED_SESSION_SWEEP_SECONDS", "-5")

	cfg := Load()

	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, time.Minute, cfg.ExpiredSessionSweep)
	assert.Equal(t, 1, cfg.InventoryConcurrency, "concurrency is clamped to sequential")
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: 5432, DBUser: "u", DBPassword: "p", DBName: "n", DBSslMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.DSN())
}
