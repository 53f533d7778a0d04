package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AWSRegion            string
	ReportImagesBucket   string
	SQSSpotEventQueueURL string
	CORSAllowedOrigins   []string
	InventoryConcurrency int
	CountdownInterval    time.Duration
	ExpiredSessionSweep  time.Duration
	LogLevel             string

	JWTSecret          string
	JWTExpirationHours time.Duration

	// Keys that fell back to their default, reported once the logger exists.
	Defaulted []string
}

func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.ServerPort = cfg.getEnv("SERVER_PORT", "8080")
	cfg.DBHost = cfg.getEnv("DB_HOST", "localhost")
	cfg.DBPort = cfg.getInt("DB_PORT", 5432)
	cfg.DBUser = cfg.getEnv("DB_USER", "postgres")
	cfg.DBPassword = cfg.getEnv("DB_PASSWORD", "postgres")
	cfg.DBName = cfg.getEnv("DB_NAME", "parking_enforcement")
	cfg.DBSslMode = cfg.getEnv("DB_SSLMODE", "disable")

	cfg.AWSRegion = cfg.getEnv("AWS_REGION", "ap-southeast-1")
	cfg.ReportImagesBucket = cfg.getEnv("REPORT_IMAGES_BUCKET", "report-images")
	cfg.SQSSpotEventQueueURL = cfg.getEnv("SQS_SPOT_EVENT_QUEUE_URL", "")
	cfg.CORSAllowedOrigins = splitList(cfg.getEnv("CORS_ALLOWED_ORIGINS", "*"))

	cfg.InventoryConcurrency = cfg.getInt("INVENTORY_CONCURRENCY", 4)
	if cfg.InventoryConcurrency < 1 {
		cfg.InventoryConcurrency = 1
	}
	cfg.CountdownInterval = cfg.getSeconds("COUNTDOWN_INTERVAL_SECONDS", 60)
	cfg.ExpiredSessionSweep = cfg.getSeconds("EXPIRED_SESSION_SWEEP_SECONDS", 60)
	cfg.LogLevel = cfg.getEnv("LOG_LEVEL", "info")

	cfg.JWTSecret = cfg.getEnv("JWT_SECRET", "change-me-in-production")
	cfg.JWTExpirationHours = time.Duration(cfg.getInt("JWT_EXPIRATION_HOURS", 24)) * time.Hour

	return cfg
}

// DSN renders the key/value connection string understood by pgx.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c *Config) getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	c.Defaulted = append(c.Defaulted, key)
	return fallback
}

func (c *Config) getInt(key string, fallback int) int {
	raw := c.getEnv(key, strconv.Itoa(fallback))
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

// getSeconds reads a positive number of seconds; anything else falls back.
func (c *Config) getSeconds(key string, fallback int) time.Duration {
	v := c.getInt(key, fallback)
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
