package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates application settings. Values come from, in increasing
// precedence: built-in defaults, the YAML file at CONFIG_PATH, a .env file
// and the process environment.
type Config struct {
	Env      string
	HTTPAddr string

	DBDriver string
	DBDSN    string

	MongoURI       string
	MongoDB        string
	IdempotencyTTL time.Duration

	KafkaBrokers       []string
	KafkaTopicPrefix   string
	OutboxPollInterval time.Duration
	OutboxRetention    time.Duration
	RetryBackoff       []time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	S3Endpoint       string
	S3PublicEndpoint string
	S3AccessKey      string
	S3SecretKey      string
	S3Bucket         string
	S3UseSSL         bool

	RequestTimeout time.Duration
	SessionTTL     time.Duration
	AdminEmail     string
	AdminPassword  string

	Seed            SeedConfig
	MaintenanceCron string
}

// SeedConfig holds calendar horizons in days.
type SeedConfig struct {
	AvailabilityDays int
	PropertyRateDays int
	RoomTypeRateDays int
	BatchDays        int
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Load reads configuration from the environment. A missing .env or YAML
// file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	file, err := LoadFile(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return Config{}, err
	}
	return fromEnv(file)
}

func fromEnv(file File) (Config, error) {
	cfg := Config{
		Env:              getEnv("APP_ENV", file.Env, "dev"),
		HTTPAddr:         getEnv("HTTP_ADDR", file.HTTPAddr, ":8080"),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", file.Database.Driver, DriverMemory)),
		DBDSN:            getEnv("DB_DSN", file.Database.DSN, ""),
		MongoURI:         getEnv("MONGO_URI", file.Mongo.URI, ""),
		MongoDB:          getEnv("MONGO_DB", file.Mongo.Database, "stayhub"),
		KafkaTopicPrefix: getEnv("KAFKA_TOPIC_PREFIX", file.Kafka.TopicPrefix, ""),
		RedisAddr:        getEnv("REDIS_ADDR", file.Redis.Addr, ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", file.Redis.Password, ""),
		S3Endpoint:       getEnv("S3_ENDPOINT", file.S3.Endpoint, ""),
		S3PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", file.S3.PublicEndpoint, ""),
		S3AccessKey:      getEnv("S3_ACCESS_KEY", file.S3.AccessKey, "minioadmin"),
		S3SecretKey:      getEnv("S3_SECRET_KEY", file.S3.SecretKey, "minioadmin"),
		S3Bucket:         getEnv("S3_BUCKET", file.S3.Bucket, "stayhub-media"),
		AdminEmail:       getEnv("ADMIN_EMAIL", file.Auth.AdminEmail, ""),
		AdminPassword:    getEnv("ADMIN_PASSWORD", file.Auth.AdminPassword, ""),
		MaintenanceCron:  getEnv("MAINTENANCE_CRON", file.MaintenanceCron, "@hourly"),
	}
	if brokers := getEnv("KAFKA_BROKERS", strings.Join(file.Kafka.Brokers, ","), ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	durations := []struct {
		key  string
		file string
		def  time.Duration
		dst  *time.Duration
	}{
		{"IDEMP_TTL", file.Mongo.IdempotencyTTL, 168 * time.Hour, &cfg.IdempotencyTTL},
		{"OUTBOX_POLL_INTERVAL", file.Kafka.PollInterval, 500 * time.Millisecond, &cfg.OutboxPollInterval},
		{"OUTBOX_RETENTION", file.Kafka.Retention, 72 * time.Hour, &cfg.OutboxRetention},
		{"REQUEST_TIMEOUT", file.RequestTimeout, 10 * time.Second, &cfg.RequestTimeout},
		{"SESSION_TTL", file.Auth.SessionTTL, 24 * time.Hour, &cfg.SessionTTL},
	}
	for _, d := range durations {
		if *d.dst, err = parseDurationEnv(d.key, d.file, d.def); err != nil {
			return Config{}, err
		}
	}

	ints := []struct {
		key  string
		file int
		def  int
		dst  *int
	}{
		{"REDIS_DB", file.Redis.DB, 0, &cfg.RedisDB},
		{"SEED_AVAILABILITY_DAYS", file.Seed.AvailabilityDays, 90, &cfg.Seed.AvailabilityDays},
		{"SEED_PROPERTY_RATE_DAYS", file.Seed.PropertyRateDays, 365, &cfg.Seed.PropertyRateDays},
		{"SEED_ROOM_TYPE_RATE_DAYS", file.Seed.RoomTypeRateDays, 180, &cfg.Seed.RoomTypeRateDays},
		{"SEED_BATCH_DAYS", file.Seed.BatchDays, 30, &cfg.Seed.BatchDays},
	}
	for _, i := range ints {
		if *i.dst, err = parseIntEnv(i.key, i.file, i.def); err != nil {
			return Config{}, err
		}
	}

	retry := getEnv("RETRY_BACKOFF", file.Kafka.RetryBackoff, "1s,5s,30s")
	for _, raw := range strings.Split(retry, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if cfg.S3UseSSL, err = parseBoolEnv("S3_USE_SSL", file.S3.UseSSL); err != nil {
		return Config{}, err
	}
	if cfg.S3PublicEndpoint == "" {
		cfg.S3PublicEndpoint = cfg.S3Endpoint
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverMemory:
	case DriverSQLite, DriverMySQL, DriverPostgres:
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for driver %q", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Seed.AvailabilityDays <= 0 || c.Seed.PropertyRateDays <= 0 || c.Seed.RoomTypeRateDays <= 0 || c.Seed.BatchDays <= 0 {
		return errors.New("seed horizons and batch size must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// IsDev reports whether detailed errors may be returned to clients.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "local", "debug", "test":
		return true
	}
	return false
}

func getEnv(key, fromFile, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if fromFile != "" {
		return fromFile
	}
	return def
}

func parseDurationEnv(key, fromFile string, def time.Duration) (time.Duration, error) {
	raw := getEnv(key, fromFile, "")
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func parseIntEnv(key string, fromFile, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		if fromFile != 0 {
			return fromFile, nil
		}
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
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
