package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	Environment string

	DatabaseURL string

	TemporalHost      string
	TemporalNamespace string

	CustomerActionTimeout time.Duration
	FulfillmentTimeout    time.Duration

	// InventoryBackend is "database" (products table) or "memory" (every SKU
	// in stock except Adidas ones).
	InventoryBackend string

	OTelServiceName string
	OTelEndpoint    string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// win over it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		Environment:       getEnv("ENVIRONMENT", "development"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TemporalHost:      getEnv("TEMPORAL_HOST", "localhost:7233"),
		TemporalNamespace: getEnv("TEMPORAL_NAMESPACE", "default"),
		InventoryBackend:  getEnv("INVENTORY_BACKEND", "database"),
		OTelServiceName:   getEnv("OTEL_SERVICE_NAME", "go-temporal-oms"),
		OTelEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
	}

	var err error
	if cfg.CustomerActionTimeout, err = getDuration("CUSTOMER_ACTION_TIMEOUT", "10m"); err != nil {
		return nil, err
	}
	if cfg.FulfillmentTimeout, err = getDuration("FULFILLMENT_TIMEOUT", "0"); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.CustomerActionTimeout <= 0 {
		return fmt.Errorf("CUSTOMER_ACTION_TIMEOUT must be positive")
	}
	if c.FulfillmentTimeout < 0 {
		return fmt.Errorf("FULFILLMENT_TIMEOUT must not be negative")
	}
	if c.InventoryBackend != "database" && c.InventoryBackend != "memory" {
		return fmt.Errorf("INVENTORY_BACKEND must be database or memory, got %q", c.InventoryBackend)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
