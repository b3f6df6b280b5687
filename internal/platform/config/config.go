package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Addr               string        `env:"APP_ADDR" envDefault:":8080"`
	Environment        string        `env:"APP_ENV" envDefault:"development"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	StoreDriver        string        `env:"STORE_DRIVER" envDefault:"mongo"`
	MongoURI           string        `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase      string        `env:"MONGO_DATABASE" envDefault:"employees"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	SeedFile           string        `env:"SEED_FILE" envDefault:"static/employee_database.json"`
	RunSeed            bool          `env:"RUN_SEED" envDefault:"true"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"600"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	KafkaBrokers       []string      `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic         string        `env:"KAFKA_TOPIC" envDefault:"employee-events"`
	MetricsEnabled     bool          `env:"METRICS_ENABLED" envDefault:"true"`
}

// LoadEnv loads whichever of files exist into the process environment without
// overriding variables that are already set. It returns how many were loaded.
func LoadEnv(files []string) (int, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func Load() (Config, error) {
	if _, err := LoadEnv([]string{".env", ".env.local"}); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if strings.TrimSpace(c.MongoURI) == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER is mongo")
		}
		if strings.TrimSpace(c.MongoDatabase) == "" {
			return errors.New("MONGO_DATABASE is required when STORE_DRIVER is mongo")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	case DriverMemory:
		if c.IsProduction() {
			return errors.New("STORE_DRIVER memory is not allowed in production")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if len(c.KafkaBrokers) > 0 && strings.TrimSpace(c.KafkaTopic) == "" {
		return errors.New("KAFKA_TOPIC must be set when KAFKA_BROKERS is set")
	}
	return nil
}
