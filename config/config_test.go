package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Database.Host != "localhost" || cfg.Database.Port != "5432" {
		t.Errorf("Unexpected database defaults %s:%s", cfg.Database.Host, cfg.Database.Port)
	}
	if cfg.Redis.DedupTTL != 24*time.Hour {
		t.Errorf("Expected 24h dedup TTL, got %v", cfg.Redis.DedupTTL)
	}
	if !cfg.Policy.TrialCountsAsActive {
		t.Error("Expected trial members to count as active by default")
	}
	if cfg.Policy.ExpirySweepInterval != 15*time.Minute {
		t.Errorf("Expected 15m sweep interval, got %v", cfg.Policy.ExpirySweepInterval)
	}
	if cfg.Policy.PaymentExpiryAge != 24*time.Hour {
		t.Errorf("Expected 24h payment expiry age, got %v", cfg.Policy.PaymentExpiryAge)
	}
	if cfg.HTTP.APIPort != "8080" || cfg.HTTP.OpsPort != "9090" {
		t.Errorf("Unexpected port defaults %s/%s", cfg.HTTP.APIPort, cfg.HTTP.OpsPort)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:test-token")
	t.Setenv("WEBHOOK_DEDUP_TTL", "1h")
	t.Setenv("TRIAL_COUNTS_AS_ACTIVE", "false")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Redis.DedupTTL != time.Hour {
		t.Errorf("Expected 1h dedup TTL, got %v", cfg.Redis.DedupTTL)
	}
	if cfg.Policy.TrialCountsAsActive {
		t.Error("Expected trial policy override to false")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "broker-2:9092" {
		t.Errorf("Unexpected brokers %v", cfg.Kafka.Brokers)
	}
}

func TestValidateRequiresBotToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	if _, err := Load(); err == nil {
		t.Error("Expected error for missing bot token")
	}
}

func TestGetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", DBName: "membify", SSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=membify sslmode=disable"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("GetDSN() = %q, want %q", got, want)
	}
}
