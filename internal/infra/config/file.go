package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the optional YAML configuration. Durations are Go duration strings.
type File struct {
	Env             string `yaml:"env"`
	HTTPAddr        string `yaml:"http_addr"`
	RequestTimeout  string `yaml:"request_timeout"`
	MaintenanceCron string `yaml:"maintenance_cron"`

	Database struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"database"`

	Mongo struct {
		URI            string `yaml:"uri"`
		Database       string `yaml:"database"`
		IdempotencyTTL string `yaml:"idempotency_ttl"`
	} `yaml:"mongo"`

	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		TopicPrefix  string   `yaml:"topic_prefix"`
		PollInterval string   `yaml:"poll_interval"`
		Retention    string   `yaml:"retention"`
		RetryBackoff string   `yaml:"retry_backoff"`
	} `yaml:"kafka"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	S3 struct {
		Endpoint       string `yaml:"endpoint"`
		PublicEndpoint string `yaml:"public_endpoint"`
		AccessKey      string `yaml:"access_key"`
		SecretKey      string `yaml:"secret_key"`
		Bucket         string `yaml:"bucket"`
		UseSSL         bool   `yaml:"use_ssl"`
	} `yaml:"s3"`

	Auth struct {
		SessionTTL    string `yaml:"session_ttl"`
		AdminEmail    string `yaml:"admin_email"`
		AdminPassword string `yaml:"admin_password"`
	} `yaml:"auth"`

	Seed struct {
		AvailabilityDays int `yaml:"availability_days"`
		PropertyRateDays int `yaml:"property_rate_days"`
		RoomTypeRateDays int `yaml:"room_type_rate_days"`
		BatchDays        int `yaml:"batch_days"`
	} `yaml:"seed"`
}

// LoadFile parses path. An empty path or a missing file yields an empty File.
func LoadFile(path string) (File, error) {
	var f File
	path = strings.TrimSpace(path)
	if path == "" {
		return f, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return f, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("parse config file: %w", err)
	}
	return f, nil
}
