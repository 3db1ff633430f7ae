package config

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.StorageMode != StorageMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ProviderCacheTTL != time.Hour {
		t.Fatalf("expected 1h provider ttl, got %s", cfg.ProviderCacheTTL)
	}
	want := []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}
	if len(cfg.RetryBackoff) != len(want) {
		t.Fatalf("unexpected backoff %v", cfg.RetryBackoff)
	}
	for i := range want {
		if cfg.RetryBackoff[i] != want[i] {
			t.Fatalf("unexpected backoff %v", cfg.RetryBackoff)
		}
	}
	if cfg.KafkaEnabled() || cfg.RedisEnabled() || cfg.ProviderEnabled() || cfg.ArchiveEnabled() {
		t.Fatal("optional integrations must be disabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("STORAGE_MODE", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("PROVIDER_CACHE_TTL", "30m")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_USE_SSL", "true")

	cfg, err := load(viper.New())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StorageMode != StorageMongo {
		t.Fatalf("expected mongo mode, got %q", cfg.StorageMode)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "kafka-2:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.ProviderCacheTTL != 30*time.Minute {
		t.Fatalf("unexpected ttl %s", cfg.ProviderCacheTTL)
	}
	if !cfg.S3UseSSL || cfg.S3PublicEndpoint != "http://minio:9000" {
		t.Fatalf("unexpected s3 settings %+v", cfg)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]map[string]string{
		"mongo without uri": {"STORAGE_MODE": "mongo"},
		"unknown storage":   {"STORAGE_MODE": "postgres"},
		"bad backoff":       {"RETRY_BACKOFF": "1s,soon"},
		"unknown log level": {"LOG_LEVEL": "verbose"},
		"stale below fresh": {"PROVIDER_CACHE_TTL": "2h", "PROVIDER_STALE_TTL": "1h"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := load(viper.New()); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
