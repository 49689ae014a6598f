package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool
	ServiceName  string

	// Event bus
	EventsEnabled      bool
	KafkaBrokers       []string
	KafkaConsumerGroup string

	// AsyncPosting selects the microservice variant: ledger-affecting domain
	// operations publish their event instead of posting synchronously, and
	// the worker derives the postings. Requires EventsEnabled.
	AsyncPosting bool

	// Replenishment
	ReorderLeadTimeDays int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("SERVICE_NAME", "erp-backend")
	viper.SetDefault("EVENTS_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "erp-accounting")
	viper.SetDefault("ASYNC_POSTING", false)
	viper.SetDefault("REORDER_LEAD_TIME_DAYS", 7)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.ServiceName = viper.GetString("SERVICE_NAME")

	cfg.EventsEnabled = viper.GetBool("EVENTS_ENABLED")
	brokers := viper.GetString("KAFKA_BROKERS")
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
		}
	}
	cfg.KafkaConsumerGroup = viper.GetString("KAFKA_CONSUMER_GROUP")
	if cfg.EventsEnabled && len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: EVENTS_ENABLED is set but KAFKA_BROKERS is empty. Events will be disabled.")
		cfg.EventsEnabled = false
	}

	cfg.AsyncPosting = viper.GetBool("ASYNC_POSTING")
	if cfg.AsyncPosting && !cfg.EventsEnabled {
		log.Println("Warning: ASYNC_POSTING requires EVENTS_ENABLED. Falling back to synchronous posting.")
		cfg.AsyncPosting = false
	}

	cfg.ReorderLeadTimeDays = viper.GetInt("REORDER_LEAD_TIME_DAYS")
	if cfg.ReorderLeadTimeDays <= 0 {
		cfg.ReorderLeadTimeDays = 7
		log.Printf("Warning: Invalid REORDER_LEAD_TIME_DAYS. Defaulting to %d.\n", cfg.ReorderLeadTimeDays)
	}

	return cfg, nil
}
