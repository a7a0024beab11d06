package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/silver-ring/printke-web/internal/adapters/out/mpesa"
	"github.com/silver-ring/printke-web/internal/adapters/out/printer"
)

type Config struct {
	HTTPPort  string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"printke"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	// KafkaHost is optional; without it events are only pushed to live viewers.
	KafkaHost              string        `env:"KAFKA_HOST"`
	KafkaOrderChangedTopic string        `env:"KAFKA_ORDER_CHANGED_TOPIC" envDefault:"printke.order-changed"`
	KafkaWriteTimeout      time.Duration `env:"KAFKA_WRITE_TIMEOUT" envDefault:"2s"`

	Payments PaymentConfig
	Printing PrintConfig
	Tracking TrackingConfig

	AdminAPIKey string        `env:"ADMIN_API_KEY"`
	SessionTTL  time.Duration `env:"DRIVER_SESSION_TTL" envDefault:"12h"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

type PaymentConfig struct {
	GatewayMode string `env:"MPESA_MODE" envDefault:"instant"`
	// SettleAfter is how long a deferred mock push stays pending.
	SettleAfter  time.Duration `env:"MPESA_MOCK_SETTLE_AFTER" envDefault:"20s"`
	PollSchedule string        `env:"PAYMENT_POLL_SCHEDULE" envDefault:"*/15 * * * * *"`
	PollAfter    time.Duration `env:"PAYMENT_POLL_AFTER" envDefault:"30s"`
	PollAttempts int           `env:"PAYMENT_POLL_MAX_ATTEMPTS" envDefault:"10"`
	PollBatch    int           `env:"PAYMENT_POLL_BATCH" envDefault:"50"`
}

type PrintConfig struct {
	Backend        string `env:"PRINT_BACKEND" envDefault:"mock"`
	PrinterName    string `env:"PRINTER_NAME"`
	Duplex         bool   `env:"PRINT_DUPLEX" envDefault:"true"`
	DocumentRoot   string `env:"DOCUMENT_ROOT" envDefault:"./documents"`
	StatusSchedule string `env:"PRINT_STATUS_SCHEDULE" envDefault:"*/30 * * * * *"`
	StatusBatch    int    `env:"PRINT_STATUS_BATCH" envDefault:"50"`
}

type TrackingConfig struct {
	WriteWait      time.Duration `env:"WS_WRITE_WAIT" envDefault:"10s"`
	IdleTimeout    time.Duration `env:"WS_IDLE_TIMEOUT" envDefault:"0s"`
	AllowedOrigins []string      `env:"WS_ALLOWED_ORIGINS" envSeparator:","`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT is required")
	}
	if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
		return errors.New("DB_HOST, DB_NAME and DB_USER are required")
	}
	if c.AdminAPIKey == "" {
		return errors.New("ADMIN_API_KEY is required")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("invalid DRIVER_SESSION_TTL: %s", c.SessionTTL)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	if _, err := mpesa.ParseMode(c.Payments.GatewayMode); err != nil {
		return fmt.Errorf("MPESA_MODE: %w", err)
	}
	if c.Payments.PollAttempts < 1 || c.Payments.PollBatch < 1 {
		return errors.New("payment poll attempts and batch must be at least 1")
	}

	switch c.Printing.Backend {
	case printer.MockBackendName:
	case printer.CupsBackendName:
		if strings.TrimSpace(c.Printing.PrinterName) == "" {
			return errors.New("PRINTER_NAME is required for the cups backend")
		}
	default:
		return fmt.Errorf("unsupported PRINT_BACKEND: %s", c.Printing.Backend)
	}
	if c.Printing.StatusBatch < 1 {
		return errors.New("PRINT_STATUS_BATCH must be at least 1")
	}
	return nil
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf("0.0.0.0:%s", c.HTTPPort)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
