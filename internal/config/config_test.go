package config

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/apptracker")
	t.Setenv("AUTH_JWT_SECRET", "this-is-a-very-long-jwt-secret-for-testing-32+")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  write_timeout: "15s"
  idle_timeout: "30s"
  shutdown_timeout: "5s"

database:
  dsn: "postgres://u:p@localhost:5432/apptracker"
  max_conns: 10
  min_conns: 2

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"
  jwt_issuer: "identity"

log:
  level: "debug"
  format: "text"

rate_limit:
  enabled: true
  requests_per_second: 5
  burst: 10

redis:
  addr: "localhost:6379"
  name_cache_ttl: "1m"

kafka:
  brokers: "k1:9092, k2:9092,"
  topic: "activity"

activity:
  max_attachment_bytes: 1048576
  default_page_size: 25
  max_page_size: 100
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Server
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("server.host = %q, want %q", cfg.Server.Host, "127.0.0.1")
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	// Database
	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10", cfg.Database.MaxConns)
	}

	// Auth
	if cfg.Auth.JWTIssuer != "identity" {
		t.Errorf("auth.jwt_issuer = %q", cfg.Auth.JWTIssuer)
	}

	// Log
	if cfg.Log.Level != "debug" || cfg.Log.Format != "text" {
		t.Errorf("log = %+v", cfg.Log)
	}

	// Rate limit
	if cfg.RateLimit.RequestsPerSecond != 5 || cfg.RateLimit.Burst != 10 {
		t.Errorf("rate_limit = %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.CleanupInterval != time.Minute {
		t.Errorf("rate_limit.cleanup_interval = %v, want default 1m", cfg.RateLimit.CleanupInterval)
	}

	// Redis
	if !cfg.Redis.Enabled() {
		t.Error("redis should be enabled")
	}
	if cfg.Redis.NameCacheTTL != time.Minute {
		t.Errorf("redis.name_cache_ttl = %v, want 1m", cfg.Redis.NameCacheTTL)
	}
	if cfg.Redis.LockTTL != 10*time.Second {
		t.Errorf("redis.lock_ttl = %v, want default 10s", cfg.Redis.LockTTL)
	}

	// Kafka
	if got := cfg.Kafka.BrokerList(); !slices.Equal(got, []string{"k1:9092", "k2:9092"}) {
		t.Errorf("kafka.BrokerList() = %v", got)
	}

	// Activity
	if cfg.Activity.DefaultPageSize != 25 || cfg.Activity.MaxPageSize != 100 {
		t.Errorf("activity = %+v", cfg.Activity)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("KAFKA_TOPIC", "override")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
	if cfg.Kafka.Topic != "override" {
		t.Errorf("kafka.topic = %q, want %q (ENV override)", cfg.Kafka.Topic, "override")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Redis.Enabled() {
		t.Error("redis should be disabled by default")
	}
	if cfg.Kafka.BrokerList() != nil {
		t.Errorf("kafka brokers should be empty by default, got %v", cfg.Kafka.BrokerList())
	}
	if cfg.Activity.DefaultPageSize != 50 {
		t.Errorf("activity.default_page_size = %d, want 50", cfg.Activity.DefaultPageSize)
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_PathArgumentWinsOverEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090 from %s", cfg.Server.Port, path)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing path argument")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load("")
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_JWTSecretTooShort(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.JWTSecret = "short"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for short JWT secret")
	}
}

func TestValidate_LogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.Log.Format = "xml"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestValidate_RateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.RateLimit.RequestsPerSecond = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero requests_per_second")
	}

	cfg.RateLimit.Enabled = false
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled rate limit should not be validated: %v", err)
	}
}

func TestValidate_Activity(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ActivityConfig)
	}{
		{"zero attachment limit", func(a *ActivityConfig) { a.MaxAttachmentBytes = 0 }},
		{"zero default page", func(a *ActivityConfig) { a.DefaultPageSize = 0 }},
		{"max below default", func(a *ActivityConfig) { a.MaxPageSize = a.DefaultPageSize - 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg.Activity)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_KafkaTopicRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Kafka.Brokers = "k1:9092"
	cfg.Kafka.Topic = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for brokers without topic")
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func validConfig() Config {
	return Config{
		Auth: AuthConfig{
			JWTSecret: "this-is-a-very-long-jwt-secret-for-testing-32+",
		},
		Log: LogConfig{Level: "info", Format: "json"},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Activity: ActivityConfig{
			MaxAttachmentBytes: 10 << 20,
			DefaultPageSize:    50,
			MaxPageSize:        500,
		},
	}
}
