package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("http port = %d, want 8080", cfg.HTTP.Port)
	}
	if cfg.Service.Currency != "INR" {
		t.Fatalf("currency = %q, want INR", cfg.Service.Currency)
	}
	if cfg.Service.PendingOrderTTL.Std() != 24*time.Hour {
		t.Fatalf("pending order ttl = %v, want 24h", cfg.Service.PendingOrderTTL.Std())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Fatalf("http port = %d, want default", cfg.HTTP.Port)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := []byte(`
http:
  port: 9999
service:
  currency: USD
  pending_order_ttl: 2h
outbox:
  poll_interval: 500ms
`)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HELPBRIDGE_CURRENCY", "EUR")
	t.Setenv("HELPBRIDGE_KAFKA_BROKERS", "broker-1:9092, broker-2:9092")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTP.Port != 9999 {
		t.Fatalf("http port = %d, want file value 9999", cfg.HTTP.Port)
	}
	if cfg.Service.PendingOrderTTL.Std() != 2*time.Hour {
		t.Fatalf("ttl = %v, want 2h from file", cfg.Service.PendingOrderTTL.Std())
	}
	if cfg.Outbox.PollInterval.Std() != 500*time.Millisecond {
		t.Fatalf("poll interval = %v, want 500ms", cfg.Outbox.PollInterval.Std())
	}
	// Env wins over the file.
	if cfg.Service.Currency != "EUR" {
		t.Fatalf("currency = %q, want env override EUR", cfg.Service.Currency)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Fatalf("brokers = %v", cfg.Kafka.Brokers)
	}
}
