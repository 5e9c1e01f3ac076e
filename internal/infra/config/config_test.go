package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stayhub.yaml")
	content := `
http_addr: ":9090"
database:
  driver: sqlite
  dsn: file:stayhub.db
seed:
  availability_days: 60
  batch_days: 15
kafka:
  brokers: ["k1:9092", "k2:9092"]
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	file, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load file: %v", err)
	}

	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("SEED_BATCH_DAYS", "10")
	t.Setenv("REQUEST_TIMEOUT", "3s")

	cfg, err := fromEnv(file)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("env should win over file, got %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != DriverSQLite || cfg.DBDSN != "file:stayhub.db" {
		t.Fatalf("unexpected database config %q %q", cfg.DBDriver, cfg.DBDSN)
	}
	if cfg.Seed.AvailabilityDays != 60 || cfg.Seed.BatchDays != 10 || cfg.Seed.PropertyRateDays != 365 {
		t.Fatalf("unexpected seed config %+v", cfg.Seed)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.RequestTimeout != 3*time.Second {
		t.Fatalf("unexpected kafka/timeout config %+v %v", cfg.KafkaBrokers, cfg.RequestTimeout)
	}
}

func TestMissingFileIsEmpty(t *testing.T) {
	f, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.HTTPAddr != "" {
		t.Fatalf("expected empty file config")
	}
}

func TestValidateRejectsBadDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	if _, err := fromEnv(File{}); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
	t.Setenv("DB_DRIVER", "postgres")
	if _, err := fromEnv(File{}); err == nil {
		t.Fatalf("expected missing DSN error")
	}
}

func TestInvalidDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")
	if _, err := fromEnv(File{}); err == nil {
		t.Fatalf("expected duration error")
	}
}
