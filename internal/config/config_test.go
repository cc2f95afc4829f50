package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Create temporary config file
	content := `
server:
  port: 9000
  host: "127.0.0.1"
  requestTimeout: 5s

provider:
  kind: ytdlp
  ytdlpPath: /opt/bin/yt-dlp
  maxBodyBytes: 2048

selection:
  preferredLanguages: ["en-GB", "en"]

stats:
  enabled: true
  host: "redis"
`

	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Load config
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify loaded values
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}

	if cfg.Server.Addr() != "127.0.0.1:9000" {
		t.Errorf("Expected addr 127.0.0.1:9000, got %s", cfg.Server.Addr())
	}

	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("Expected request timeout 5s, got %v", cfg.Server.RequestTimeout)
	}

	if cfg.Provider.Kind != ProviderYtDlp || cfg.Provider.YtDlpPath != "/opt/bin/yt-dlp" {
		t.Errorf("Unexpected provider config: %+v", cfg.Provider)
	}

	if cfg.Provider.MaxBodyBytes != 2048 {
		t.Errorf("Expected maxBodyBytes 2048, got %d", cfg.Provider.MaxBodyBytes)
	}

	if len(cfg.Selection.PreferredLanguages) != 2 || cfg.Selection.PreferredLanguages[0] != "en-GB" {
		t.Errorf("Unexpected preferred languages: %v", cfg.Selection.PreferredLanguages)
	}

	if !cfg.Stats.Enabled || cfg.Stats.Host != "redis" || cfg.Stats.Port != 6379 {
		t.Errorf("Unexpected stats config: %+v", cfg.Stats)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	if err == nil {
		t.Error("Expected error when loading nonexistent file")
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Server.RequestTimeout != 25*time.Second {
		t.Errorf("Expected default request timeout 25s, got %v", cfg.Server.RequestTimeout)
	}

	if cfg.Provider.Kind != ProviderInnerTube {
		t.Errorf("Expected default provider innertube, got %s", cfg.Provider.Kind)
	}

	if cfg.Provider.BaseURL != "https://www.youtube.com" {
		t.Errorf("Unexpected default base URL %s", cfg.Provider.BaseURL)
	}

	if cfg.Provider.Timeout != 15*time.Second {
		t.Errorf("Expected default provider timeout 15s, got %v", cfg.Provider.Timeout)
	}

	want := []string{"en", "en-US", "en-GB"}
	if len(cfg.Selection.PreferredLanguages) != len(want) {
		t.Fatalf("Expected %v, got %v", want, cfg.Selection.PreferredLanguages)
	}
	for i := range want {
		if cfg.Selection.PreferredLanguages[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, cfg.Selection.PreferredLanguages)
		}
	}

	if !cfg.Metrics.Enabled || cfg.Metrics.Port != 9090 {
		t.Errorf("Unexpected metrics defaults: %+v", cfg.Metrics)
	}

	if cfg.Tracing.Enabled || cfg.Stats.Enabled {
		t.Error("Expected tracing and stats to be disabled by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRANSCRIPTS_SERVER_PORT", "7070")
	t.Setenv("TRANSCRIPTS_PROVIDER_APIKEY", "secret")
	t.Setenv("TRANSCRIPTS_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.Port != 7070 {
		t.Errorf("Expected port 7070 from env, got %d", cfg.Server.Port)
	}

	if cfg.Provider.APIKey != "secret" {
		t.Errorf("Expected api key from env, got %q", cfg.Provider.APIKey)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level from env, got %s", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Provider:  ProviderConfig{Kind: ProviderInnerTube, BaseURL: "https://www.youtube.com", YtDlpPath: "yt-dlp"},
			Selection: SelectionConfig{PreferredLanguages: []string{"en"}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"unknown provider", func(c *Config) { c.Provider.Kind = "scraper" }, true},
		{"innertube without base url", func(c *Config) { c.Provider.BaseURL = "" }, true},
		{"ytdlp without path", func(c *Config) { c.Provider.Kind = ProviderYtDlp; c.Provider.YtDlpPath = "" }, true},
		{"no languages", func(c *Config) { c.Selection.PreferredLanguages = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
