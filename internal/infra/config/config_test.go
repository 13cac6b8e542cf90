package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{"APP_ENV", "STORAGE_MODE", "MONGO_URI", "KAFKA_BROKERS", "QUOTE_CACHE_TTL", "PRICING_TIMEZONE"} {
		t.Setenv(key, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageMode != StorageMemory || cfg.QuoteCacheTTL != 10*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.PricingLocation.String() != "Asia/Seoul" {
		t.Fatalf("location = %s", cfg.PricingLocation)
	}
	if len(cfg.KafkaBrokers) != 0 {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_MODE", "MONGO")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("QUOTE_CACHE_TTL", "90s")
	t.Setenv("TRACING_ENABLED", "yes")
	t.Setenv("PRICING_TIMEZONE", "UTC")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StorageMode != StorageMongo || cfg.QuoteCacheTTL != 90*time.Second || !cfg.TracingEnabled {
		t.Fatalf("cfg = %+v", cfg)
	}
	if strings.Join(cfg.KafkaBrokers, "|") != "k1:9092|k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]string{
		"mongo without uri": {"STORAGE_MODE": "mongo", "MONGO_URI": ""},
		"unknown storage":   {"STORAGE_MODE": "postgres"},
		"bad duration":      {"QUOTE_CACHE_TTL": "soon"},
		"bad bool":          {"S3_USE_SSL": "maybe"},
		"bad timezone":      {"PRICING_TIMEZONE": "Mars/Olympus"},
		"bad redis db":      {"REDIS_DB": "one"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
