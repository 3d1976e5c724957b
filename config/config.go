package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the membify service
type Config struct {
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Telegram  TelegramConfig
	HTTP      HTTPConfig
	Providers ProvidersConfig
	Policy    PolicyConfig
	Logging   LoggingConfig
	Service   ServiceConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	// DedupTTL bounds how long a processed webhook event id is remembered.
	DedupTTL time.Duration
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// HTTPConfig holds the API and ops listener configuration
type HTTPConfig struct {
	APIPort string
	OpsPort string
}

// ProvidersConfig holds payment provider credentials and endpoints
type ProvidersConfig struct {
	StripeAPIKey       string
	StripeBaseURL      string
	PayPalClientID     string
	PayPalSecret       string
	PayPalBaseURL      string
	NOWPaymentsAPIKey  string
	NOWPaymentsBaseURL string
	CallbackBaseURL    string
}

// PolicyConfig holds tunable business policy
type PolicyConfig struct {
	// TrialCountsAsActive controls whether trial members are included in the
	// "active" broadcast audience.
	TrialCountsAsActive bool
	// ExpirySweepInterval is the period of the member expiry sweeper.
	ExpirySweepInterval time.Duration
	// PaymentExpiryAge is how long a payment may sit in pending or
	// processing before the sweeper times it out.
	PaymentExpiryAge time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Database  *DatabaseConfig
	Redis     *RedisConfig
	Kafka     *KafkaConfig
	Telegram  *TelegramConfig
	HTTP      *HTTPConfig
	Providers *ProvidersConfig
	Policy    *PolicyConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Database:  &cfg.Database,
		Redis:     &cfg.Redis,
		Kafka:     &cfg.Kafka,
		Telegram:  &cfg.Telegram,
		HTTP:      &cfg.HTTP,
		Providers: &cfg.Providers,
		Policy:    &cfg.Policy,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "membify_user"),
			Password: getEnv("DATABASE_PASSWORD", "membify_pass"),
			DBName:   getEnv("DATABASE_NAME", "membify_db"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "membify"),
			DedupTTL:  getEnvDuration("WEBHOOK_DEDUP_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ","),
			GroupID: getEnv("KAFKA_GROUP_ID", "membify-group"),
		},
		Telegram: TelegramConfig{
			BotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		},
		HTTP: HTTPConfig{
			APIPort: getEnv("API_PORT", "8080"),
			OpsPort: getEnv("OPS_PORT", "9090"),
		},
		Providers: ProvidersConfig{
			StripeAPIKey:       getEnv("STRIPE_API_KEY", ""),
			StripeBaseURL:      getEnv("STRIPE_BASE_URL", "https://api.stripe.com"),
			PayPalClientID:     getEnv("PAYPAL_CLIENT_ID", ""),
			PayPalSecret:       getEnv("PAYPAL_SECRET", ""),
			PayPalBaseURL:      getEnv("PAYPAL_BASE_URL", "https://api-m.paypal.com"),
			NOWPaymentsAPIKey:  getEnv("NOWPAYMENTS_API_KEY", ""),
			NOWPaymentsBaseURL: getEnv("NOWPAYMENTS_BASE_URL", "https://api.nowpayments.io"),
			CallbackBaseURL:    getEnv("PAYMENT_CALLBACK_BASE_URL", "http://localhost:8080"),
		},
		Policy: PolicyConfig{
			TrialCountsAsActive: getEnvBool("TRIAL_COUNTS_AS_ACTIVE", true),
			ExpirySweepInterval: getEnvDuration("EXPIRY_SWEEP_INTERVAL", 15*time.Minute),
			PaymentExpiryAge:    getEnvDuration("PAYMENT_EXPIRY_AGE", 24*time.Hour),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "membify"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	if c.Telegram.BotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets integer environment variable with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvBool gets boolean environment variable with default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration gets duration environment variable with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
