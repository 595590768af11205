package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Storage backends
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the wallet server
type Config struct {
	Env      string
	GRPCPort string
	Storage  string

	Database DatabaseConfig
	Ledger   LedgerConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Auth     AuthConfig
}

// DatabaseConfig holds Postgres connection configuration
type DatabaseConfig struct {
	ConnStr     string
	LockTimeout time.Duration
}

// LedgerConfig holds money movement settings
type LedgerConfig struct {
	MaxRetries int

	// DefaultTransactionLimit is applied to new accounts.
	// Valid == false means new accounts have no ceiling.
	DefaultTransactionLimit decimal.NullDecimal
}

// RedisConfig holds the idempotency cache configuration.
// An empty Addr disables idempotency keys.
type RedisConfig struct {
	Addr           string
	Password       string
	IdempotencyTTL time.Duration
}

// RabbitMQConfig holds event publishing configuration.
// An empty URL disables publishing.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// AuthConfig maps bearer tokens to owner ids
type AuthConfig struct {
	Tokens map[string]uuid.UUID
}

// Load reads an optional .env file and builds the configuration from the environment
func Load() (*Config, bool, error) {
	// .env is optional, the process environment always wins
	dotenvLoaded := godotenv.Load() == nil

	lockTimeout, err := getDuration("DB_LOCK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, dotenvLoaded, err
	}
	idempotencyTTL, err := getDuration("IDEMPOTENCY_TTL", 24*time.Hour)
	if err != nil {
		return nil, dotenvLoaded, err
	}
	maxRetries, err := getInt("TX_MAX_RETRIES", 3)
	if err != nil {
		return nil, dotenvLoaded, err
	}
	if maxRetries < 0 {
		return nil, dotenvLoaded, fmt.Errorf("TX_MAX_RETRIES must not be negative, got %d", maxRetries)
	}
	defaultLimit, err := ParseLimit(getEnv("DEFAULT_TRANSACTION_LIMIT", ""))
	if err != nil {
		return nil, dotenvLoaded, err
	}
	tokens, err := ParseTokens(getEnv("API_TOKENS", ""))
	if err != nil {
		return nil, dotenvLoaded, err
	}

	storage := strings.ToLower(getEnv("STORAGE", StoragePostgres))
	if storage != StoragePostgres && storage != StorageMemory {
		return nil, dotenvLoaded, fmt.Errorf("STORAGE must be %q or %q, got %q", StoragePostgres, StorageMemory, storage)
	}

	return &Config{
		Env:      getEnv("APP_ENV", "development"),
		GRPCPort: getEnv("GRPC_PORT", "8080"),
		Storage:  storage,
		Database: DatabaseConfig{
			ConnStr:     databaseConnStr(),
			LockTimeout: lockTimeout,
		},
		Ledger: LedgerConfig{
			MaxRetries:              maxRetries,
			DefaultTransactionLimit: defaultLimit,
		},
		Redis: RedisConfig{
			Addr:           getEnv("REDIS_ADDR", ""),
			Password:       getEnv("REDIS_PASSWORD", ""),
			IdempotencyTTL: idempotencyTTL,
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "wallet.events"),
		},
		Auth: AuthConfig{Tokens: tokens},
	}, dotenvLoaded, nil
}

// databaseConnStr prefers DB_CONN_STR and otherwise builds a DSN from individual vars (Docker friendly)
func databaseConnStr() string {
	if connStr := getEnv("DB_CONN_STR", ""); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "wallet"),
	)
}

// ParseLimit parses a transaction limit. An empty value means no ceiling.
func ParseLimit(value string) (decimal.NullDecimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.NullDecimal{}, nil
	}
	limit, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("DEFAULT_TRANSACTION_LIMIT: %q is not a decimal number", value)
	}
	if !limit.IsPositive() {
		return decimal.NullDecimal{}, fmt.Errorf("DEFAULT_TRANSACTION_LIMIT must be positive, got %s", limit)
	}
	return decimal.NewNullDecimal(limit), nil
}

// ParseTokens parses "token=ownerUUID,token2=ownerUUID2"
func ParseTokens(value string) (map[string]uuid.UUID, error) {
	tokens := make(map[string]uuid.UUID)
	for _, pair := range strings.Split(value, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		token, owner, ok := strings.Cut(pair, "=")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			return nil, fmt.Errorf("API_TOKENS: entry %q must be token=ownerUUID", pair)
		}
		ownerID, err := uuid.Parse(strings.TrimSpace(owner))
		if err != nil {
			return nil, fmt.Errorf("API_TOKENS: owner of token %q: %w", token, err)
		}
		tokens[token] = ownerID
	}
	return tokens, nil
}

// getEnv retrieves an environment variable or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, defaultValue int) (int, error) {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
