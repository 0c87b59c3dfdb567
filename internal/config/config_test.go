package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := validConfig()
		cfg.HTTP.Port = port
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for port %d", port)
		}
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "qdrant"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestValidate_MemoryDriverNeedsNoAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Driver = "memory"
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_RedisDriverRequiresAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Addrs = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis driver without addrs")
	}
}

func TestValidate_MissingCredentialsAllowed(t *testing.T) {
	// Absence of provider credentials must not fail at load time;
	// it surfaces on the first provider call instead.
	cfg := validConfig()
	cfg.Embedding.APIKey = ""
	cfg.Assistant.APIKey = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{Port: 8080},
		Database:  DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Embedding: EmbeddingConfig{APIKey: "emb-key", BaseURL: "https://llm.example.com/v1"},
	}
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "redis" {
		t.Errorf("expected redis driver, got %q", cfg.Database.Driver)
	}
	if cfg.Embedding.Dimensions != 768 {
		t.Errorf("expected 768 dimensions, got %d", cfg.Embedding.Dimensions)
	}
	if cfg.Search.DefaultLimit != 10 || cfg.Search.MaxLimit != 50 {
		t.Errorf("unexpected search limits: %d/%d", cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	}
	if cfg.Assistant.APIKey != "emb-key" {
		t.Errorf("assistant api_key should inherit embedding key, got %q", cfg.Assistant.APIKey)
	}
	if cfg.Assistant.BaseURL != "https://llm.example.com/v1" {
		t.Errorf("assistant base_url should inherit embedding url, got %q", cfg.Assistant.BaseURL)
	}
	if cfg.Storage.KeyPrefix != "tripdex:" {
		t.Errorf("unexpected key prefix %q", cfg.Storage.KeyPrefix)
	}
}

func TestValidate_DefaultLimitCap(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultLimit = 100
	cfg.Search.MaxLimit = 50
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default_limit exceeds max_limit")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TRIPDEX_TEST_KEY", "secret")

	out := string(expandEnvVars([]byte("api_key: ${TRIPDEX_TEST_KEY}")))
	if out != "api_key: secret" {
		t.Errorf("unexpected expansion: %q", out)
	}

	out = string(expandEnvVars([]byte("port: ${TRIPDEX_TEST_UNSET:-8080}")))
	if out != "port: 8080" {
		t.Errorf("unexpected default expansion: %q", out)
	}
}
