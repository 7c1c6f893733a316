package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения
type Config struct {
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://migrations"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// Redis Config, пустой адрес отключает Redis
	RedisAddr string `env:"REDIS_ADDR"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Webhook Config
	WebhookURL        string        `env:"WEBHOOK_URL"`
	WebhookSecret     string        `env:"WEBHOOK_SECRET"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"5s"`
	WebhookMaxRetries int           `env:"WEBHOOK_MAX_RETRIES" envDefault:"3"`
	WebhookBaseDelay  time.Duration `env:"WEBHOOK_BASE_DELAY" envDefault:"1s"`

	// Stats / aggregation Config
	StatsDefaultHours int  `env:"STATS_DEFAULT_HOURS" envDefault:"24"`
	RetentionHours    int  `env:"AGGREGATION_RETENTION_HOURS" envDefault:"720"`
	SpatialCellLevel  int  `env:"SPATIAL_CELL_LEVEL" envDefault:"13"`
	SeedAreas         bool `env:"SEED_AREAS" envDefault:"true"`

	// Sync agent Config
	SyncServerURL   string        `env:"SYNC_SERVER_URL" envDefault:"http://localhost:8080/api/v1"`
	SyncClientID    string        `env:"SYNC_CLIENT_ID" envDefault:"default"`
	SyncMaxAttempts int           `env:"SYNC_MAX_ATTEMPTS" envDefault:"5"`
	SyncBaseDelay   time.Duration `env:"SYNC_BASE_DELAY" envDefault:"2s"`
	SyncInterval    time.Duration `env:"SYNC_INTERVAL" envDefault:"30s"`
}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		MigrationsPath:    getEnv("MIGRATIONS_PATH", "file://migrations"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPass:         os.Getenv("REDIS_PASSWORD"),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		WebhookSecret:     os.Getenv("WEBHOOK_SECRET"),
		WebhookTimeout:    getEnvAsDuration("WEBHOOK_TIMEOUT", 5*time.Second),
		WebhookMaxRetries: getEnvAsInt("WEBHOOK_MAX_RETRIES", 3),
		WebhookBaseDelay:  getEnvAsDuration("WEBHOOK_BASE_DELAY", time.Second),
		StatsDefaultHours: getEnvAsInt("STATS_DEFAULT_HOURS", 24),
		RetentionHours:    getEnvAsInt("AGGREGATION_RETENTION_HOURS", 720),
		SpatialCellLevel:  getEnvAsInt("SPATIAL_CELL_LEVEL", 13),
		SeedAreas:         getEnvAsBool("SEED_AREAS", true),
		SyncServerURL:     getEnv("SYNC_SERVER_URL", "http://localhost:8080/api/v1"),
		SyncClientID:      getEnv("SYNC_CLIENT_ID", "default"),
		SyncMaxAttempts:   getEnvAsInt("SYNC_MAX_ATTEMPTS", 5),
		SyncBaseDelay:     getEnvAsDuration("SYNC_BASE_DELAY", 2*time.Second),
		SyncInterval:      getEnvAsDuration("SYNC_INTERVAL", 30*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StatsDefaultHours <= 0 {
		return fmt.Errorf("STATS_DEFAULT_HOURS must be positive, got %d", c.StatsDefaultHours)
	}
	if c.RetentionHours < c.StatsDefaultHours {
		return fmt.Errorf("AGGREGATION_RETENTION_HOURS (%d) must cover STATS_DEFAULT_HOURS (%d)", c.RetentionHours, c.StatsDefaultHours)
	}
	if c.SyncMaxAttempts <= 0 {
		return fmt.Errorf("SYNC_MAX_ATTEMPTS must be positive, got %d", c.SyncMaxAttempts)
	}
	return nil
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration возвращает значение переменной окружения как time.Duration или значение по умолчанию
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if durationValue, err := time.ParseDuration(value); err == nil {
			return durationValue
		}
	}
	return defaultValue
}
