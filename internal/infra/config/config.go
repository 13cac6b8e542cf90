package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	StorageMemory = "memory"
	StorageMongo  = "mongo"
)

// Config aggregates application configuration values loaded from environment variables.
type Config struct {
	Env      string
	HTTPAddr string

	StorageMode        string
	MongoURI           string
	MongoDB            string
	RulesFixtures      string
	RulesFixturesS3Key string

	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	QuoteCacheTTL time.Duration

	IdempotencyTTL  time.Duration
	KafkaBrokers    []string
	KafkaGroupID    string
	KafkaRulesTopic string

	PricingLocation *time.Location

	TracingEnabled bool
	JaegerEndpoint string
}

// Load parses configuration from the current environment. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read .env: %w", err)
	}
	cfg := Config{
		Env:                getEnv("APP_ENV", "dev"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		StorageMode:        strings.ToLower(getEnv("STORAGE_MODE", StorageMemory)),
		MongoURI:           os.Getenv("MONGO_URI"),
		MongoDB:            getEnv("MONGO_DB", "campstation"),
		RulesFixtures:      getEnv("RULES_FIXTURES", "data/site_pricing.json"),
		RulesFixturesS3Key: os.Getenv("RULES_FIXTURES_S3_KEY"),
		S3Endpoint:         getEnv("S3_ENDPOINT", "http://localhost:9000"),
		S3AccessKey:        getEnv("S3_ACCESS_KEY", "minioadmin"),
		S3SecretKey:        getEnv("S3_SECRET_KEY", "minioadmin"),
		S3Bucket:           getEnv("S3_BUCKET", "campstation-pricing"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		KafkaGroupID:       getEnv("KAFKA_GROUP_ID", "campstation-pricing"),
		KafkaRulesTopic:    getEnv("KAFKA_RULES_TOPIC", "pricing.events.v1"),
		JaegerEndpoint:     getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RedisDB, err = parseIntEnv("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.QuoteCacheTTL, err = parseDurationEnv("QUOTE_CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = parseDurationEnv("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.TracingEnabled, err = parseBoolEnv("TRACING_ENABLED", false); err != nil {
		return Config{}, err
	}
	tz := getEnv("PRICING_TIMEZONE", "Asia/Seoul")
	if cfg.PricingLocation, err = time.LoadLocation(tz); err != nil {
		return Config{}, fmt.Errorf("invalid PRICING_TIMEZONE %q: %w", tz, err)
	}

	switch cfg.StorageMode {
	case StorageMemory:
	case StorageMongo:
		if cfg.MongoURI == "" {
			return Config{}, fmt.Errorf("MONGO_URI is required when STORAGE_MODE=%s", StorageMongo)
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_MODE %q", cfg.StorageMode)
	}
	return cfg, nil
}

// Default is the configuration used when the environment cannot be parsed.
func Default() Config {
	return Config{
		Env:             "dev",
		HTTPAddr:        ":8080",
		StorageMode:     StorageMemory,
		RulesFixtures:   "data/site_pricing.json",
		QuoteCacheTTL:   10 * time.Minute,
		IdempotencyTTL:  168 * time.Hour,
		KafkaGroupID:    "campstation-pricing",
		KafkaRulesTopic: "pricing.events.v1",
		PricingLocation: time.UTC,
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return v, nil
}

func parseBoolEnv(key string, def bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "t", "true", "yes", "y", "on":
		return true, nil
	case "0", "f", "false", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid %s boolean: %q", key, raw)
	}
}
