package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// New loads the service configuration from the environment. A .env file is
// read first when GO_ENV=local. A missing webhook secret is an error.
func New() (*Config, error) {
	var Config Config
	if IsLocal() {
		if err := godotenv.Load(".env"); err != nil {
			logrus.Warn("Error can't get the environment variables by file")
		}
	}

	if err := env.Parse(&Config); err != nil {
		return nil, fmt.Errorf("error initializing config: %w", err)
	}

	switch Config.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", Config.Store.Driver)
	}

	return &Config, nil
}

func IsLocal() bool {
	return os.Getenv("GO_ENV") == "local"
}

type Config struct {
	APP
	Stripe
	Store
	DB
	Kafka
	Redis
	OTEL
}

type APP struct {
	PORT            string        `env:"APP_PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	ReadTimeout     time.Duration `env:"APP_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout    time.Duration `env:"APP_WRITE_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Stripe struct {
	WebhookSecret    string        `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`
	WebhookTolerance time.Duration `env:"STRIPE_WEBHOOK_TOLERANCE" envDefault:"300s"`
	MaxBodyBytes     int64         `env:"WEBHOOK_MAX_BODY_BYTES" envDefault:"1048576"`
}

type Store struct {
	Driver  string        `env:"STORE_DRIVER" envDefault:"postgres"`
	Timeout time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`
}

type DB struct {
	HOST     string `env:"DB_HOST"`
	USER     string `env:"DB_USER"`
	PASSWORD string `env:"DB_PASSWORD"`
	NAME     string `env:"DB_NAME"`
	PORT     string `env:"DB_PORT"`
	SSLMODE  string `env:"DB_SSLMODE" envDefault:"disable"`
}

type Kafka struct {
	Brokers         string        `env:"KAFKA_BROKERS"`
	OrdersPaidTopic string        `env:"KAFKA_ORDERS_PAID_TOPIC" envDefault:"orders.paid"`
	NotifyTimeout   time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"3s"`

	RetryMaxAttempts int           `env:"KAFKA_RETRY_MAX_ATTEMPTS" envDefault:"5"`
	RetryBaseDelay   time.Duration `env:"KAFKA_RETRY_BASE_DELAY" envDefault:"100ms"`
	RetryMaxDelay    time.Duration `env:"KAFKA_RETRY_MAX_DELAY" envDefault:"2s"`
	RetryJitter      bool          `env:"KAFKA_RETRY_JITTER" envDefault:"true"`
}

type Redis struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	DedupTTL time.Duration `env:"NOTIFY_DEDUPE_TTL" envDefault:"168h"`
}

type OTEL struct {
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"storefront-webhooks"`
}

type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

func (k Kafka) GetRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: k.RetryMaxAttempts,
		BaseDelay:   k.RetryBaseDelay,
		MaxDelay:    k.RetryMaxDelay,
		Jitter:      k.RetryJitter,
	}
}
