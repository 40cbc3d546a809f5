package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// DB stores database connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the postgres connection string.
func (d DB) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		d.User, d.Pass, d.Host, d.Port, d.Name)
}

// Gateway stores settings for one HTTP collaborator.
type Gateway struct {
	BaseURL string
	Timeout time.Duration
}

// Kafka stores order-events consumer settings. Empty brokers disable
// the consumer.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Pricing stores the configurable delivery-rate constants.
type Pricing struct {
	BaseRate     float64
	DistanceRate float64
	MinimumFee   float64
	MaximumFee   float64
}

// RateLimit stores token-bucket settings for write endpoints.
type RateLimit struct {
	Limit      int
	Window     time.Duration
	TTL        time.Duration
	MaxBuckets int
}

// Pprof stores the pprof side-server settings. Port 0 disables it.
type Pprof struct {
	Port int
	User string
	Pass string
}

// Config stores service settings.
type Config struct {
	Port             int
	OperationTimeout time.Duration

	DB         DB
	Ledger     Gateway
	Identity   Gateway
	Restaurant Gateway
	Kafka      Kafka
	Pricing    Pricing
	RateLimit  RateLimit
	Pprof      Pprof
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := FromEnv()

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.Parse()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables over defaults.
func FromEnv() *Config {
	cfg := Default()

	cfg.Port = envInt("PORT", cfg.Port)
	cfg.OperationTimeout = envDuration("OPERATION_TIMEOUT", cfg.OperationTimeout)

	cfg.DB.Host = envStr("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = envStr("DB_PORT", cfg.DB.Port)
	cfg.DB.User = envStr("DB_USER", cfg.DB.User)
	cfg.DB.Pass = envStr("DB_PASS", cfg.DB.Pass)
	cfg.DB.Name = envStr("DB_NAME", cfg.DB.Name)

	cfg.Ledger.BaseURL = envStr("ORDER_SERVICE_URL", cfg.Ledger.BaseURL)
	cfg.Ledger.Timeout = envDuration("ORDER_SERVICE_TIMEOUT", cfg.Ledger.Timeout)
	cfg.Identity.BaseURL = envStr("AUTH_SERVICE_URL", cfg.Identity.BaseURL)
	cfg.Identity.Timeout = envDuration("AUTH_SERVICE_TIMEOUT", cfg.Identity.Timeout)
	cfg.Restaurant.BaseURL = envStr("USER_SERVICE_URL", cfg.Restaurant.BaseURL)
	cfg.Restaurant.Timeout = envDuration("USER_SERVICE_TIMEOUT", cfg.Restaurant.Timeout)

	cfg.Kafka.Brokers = envSlice("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = envStr("KAFKA_ORDERS_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupID = envStr("KAFKA_GROUP_ID", cfg.Kafka.GroupID)

	cfg.Pricing.BaseRate = envFloat("BASE_DELIVERY_RATE", cfg.Pricing.BaseRate)
	cfg.Pricing.DistanceRate = envFloat("DISTANCE_RATE", cfg.Pricing.DistanceRate)
	cfg.Pricing.MinimumFee = envFloat("MIN_DELIVERY_FEE", cfg.Pricing.MinimumFee)
	cfg.Pricing.MaximumFee = envFloat("MAX_DELIVERY_FEE", cfg.Pricing.MaximumFee)

	cfg.RateLimit.Limit = envInt("RATE_LIMIT", cfg.RateLimit.Limit)
	cfg.RateLimit.Window = envDuration("RATE_LIMIT_WINDOW", cfg.RateLimit.Window)

	cfg.Pprof.Port = envInt("PPROF_PORT", cfg.Pprof.Port)
	cfg.Pprof.User = envStr("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = envStr("PPROF_PASS", cfg.Pprof.Pass)

	return cfg
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Pricing.MinimumFee > c.Pricing.MaximumFee {
		return fmt.Errorf("invalid pricing bounds: min %.2f > max %.2f",
			c.Pricing.MinimumFee, c.Pricing.MaximumFee)
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envSlice(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
