package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config aggregates application configuration values loaded from the environment.
type Config struct {
	Env                string        `mapstructure:"APP_ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	HTTPAddr           string        `mapstructure:"HTTP_ADDR"`
	GRPCAddr           string        `mapstructure:"GRPC_ADDR"`
	StorageMode        string        `mapstructure:"STORAGE_MODE"`
	MongoURI           string        `mapstructure:"MONGO_URI"`
	MongoDB            string        `mapstructure:"MONGO_DB"`
	RedisURL           string        `mapstructure:"REDIS_URL"`
	ConfigKeyPrefix    string        `mapstructure:"CONFIG_KEY_PREFIX"`
	KafkaBrokersRaw    string        `mapstructure:"KAFKA_BROKERS"`
	KafkaTopicPrefix   string        `mapstructure:"KAFKA_TOPIC_PREFIX"`
	KafkaConsumerGroup string        `mapstructure:"KAFKA_CONSUMER_GROUP"`
	OutboxPollInterval time.Duration `mapstructure:"OUTBOX_POLL_INTERVAL"`
	RetryBackoffRaw    string        `mapstructure:"RETRY_BACKOFF"`
	ProviderURL        string        `mapstructure:"PROVIDER_URL"`
	ProviderAPIKey     string        `mapstructure:"PROVIDER_API_KEY"`
	ProviderTimeout    time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	ProviderCacheTTL   time.Duration `mapstructure:"PROVIDER_CACHE_TTL"`
	ProviderStaleTTL   time.Duration `mapstructure:"PROVIDER_STALE_TTL"`
	ListingsFixtures   string        `mapstructure:"LISTINGS_FIXTURES"`
	DiscountsFile      string        `mapstructure:"DEFAULT_DISCOUNTS_FILE"`
	DiscountStrategy   string        `mapstructure:"DISCOUNT_STRATEGY"`
	CachePruneSchedule string        `mapstructure:"CACHE_PRUNE_SCHEDULE"`
	S3Endpoint         string        `mapstructure:"S3_ENDPOINT"`
	S3PublicEndpoint   string        `mapstructure:"S3_PUBLIC_ENDPOINT"`
	S3AccessKey        string        `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey        string        `mapstructure:"S3_SECRET_KEY"`
	S3Bucket           string        `mapstructure:"S3_BUCKET"`
	S3UseSSL           bool          `mapstructure:"S3_USE_SSL"`
	CheckoutSuccessURL string        `mapstructure:"CHECKOUT_SUCCESS_URL"`
	CheckoutCancelURL  string        `mapstructure:"CHECKOUT_CANCEL_URL"`

	KafkaBrokers []string        `mapstructure:"-"`
	RetryBackoff []time.Duration `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                "dev",
	"LOG_LEVEL":              "info",
	"HTTP_ADDR":              ":8080",
	"GRPC_ADDR":              ":9090",
	"STORAGE_MODE":           StorageMemory,
	"MONGO_URI":              "",
	"MONGO_DB":               "directstay",
	"REDIS_URL":              "",
	"CONFIG_KEY_PREFIX":      "directstay",
	"KAFKA_BROKERS":          "",
	"KAFKA_TOPIC_PREFIX":     "",
	"KAFKA_CONSUMER_GROUP":   "directstay",
	"OUTBOX_POLL_INTERVAL":   "500ms",
	"RETRY_BACKOFF":          "1s,5s,30s",
	"PROVIDER_URL":           "",
	"PROVIDER_API_KEY":       "",
	"PROVIDER_TIMEOUT":       "5s",
	"PROVIDER_CACHE_TTL":     "1h",
	"PROVIDER_STALE_TTL":     "24h",
	"LISTINGS_FIXTURES":      "fixtures/listings.json",
	"DEFAULT_DISCOUNTS_FILE": "",
	"DISCOUNT_STRATEGY":      "first_match",
	"CACHE_PRUNE_SCHEDULE":   "@every 15m",
	"S3_ENDPOINT":            "",
	"S3_PUBLIC_ENDPOINT":     "",
	"S3_ACCESS_KEY":          "",
	"S3_SECRET_KEY":          "",
	"S3_BUCKET":              "directstay-invoices",
	"S3_USE_SSL":             false,
	"CHECKOUT_SUCCESS_URL":   "http://localhost:3000/booking/success",
	"CHECKOUT_CANCEL_URL":    "http://localhost:3000/booking/cancelled",
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.StorageMode = strings.ToLower(strings.TrimSpace(cfg.StorageMode))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.KafkaBrokers = splitList(cfg.KafkaBrokersRaw)

	for _, raw := range splitList(cfg.RetryBackoffRaw) {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: RETRY_BACKOFF component %q: %v", ErrInvalidConfig, raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("%w: MONGO_URI is required when STORAGE_MODE=mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown STORAGE_MODE %q", ErrInvalidConfig, c.StorageMode)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown LOG_LEVEL %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.DiscountStrategy != "first_match" && c.DiscountStrategy != "best_of" {
		return fmt.Errorf("%w: unknown DISCOUNT_STRATEGY %q", ErrInvalidConfig, c.DiscountStrategy)
	}
	if c.ProviderCacheTTL <= 0 {
		return fmt.Errorf("%w: PROVIDER_CACHE_TTL must be positive", ErrInvalidConfig)
	}
	if c.ProviderStaleTTL < c.ProviderCacheTTL {
		return fmt.Errorf("%w: PROVIDER_STALE_TTL must not be shorter than PROVIDER_CACHE_TTL", ErrInvalidConfig)
	}
	return nil
}

func (c Config) KafkaEnabled() bool { return len(c.KafkaBrokers) > 0 }

func (c Config) RedisEnabled() bool { return c.RedisURL != "" }

func (c Config) ProviderEnabled() bool { return c.ProviderURL != "" }

func (c Config) ArchiveEnabled() bool { return c.S3Endpoint != "" }

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
