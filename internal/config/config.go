package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Provider  ProviderConfig
	Selection SelectionConfig
	Logging   LoggingConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	Stats     StatsConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	Mode            string // gin mode: debug, release, test
}

// ProviderConfig holds caption provider configuration
type ProviderConfig struct {
	Kind               string // innertube or ytdlp
	BaseURL            string
	APIKey             string
	ClientName         string
	ClientVersion      string
	UserAgent          string
	Timeout            time.Duration
	MaxBodyBytes       int64
	PreserveFormatting bool
	YtDlpPath          string
}

// SelectionConfig holds the track selection policy
type SelectionConfig struct {
	PreferredLanguages []string
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// MetricsConfig holds Prometheus exporter configuration
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger tracing configuration
type TracingConfig struct {
	Enabled     bool
	ServiceName string
	Endpoint    string
}

// StatsConfig holds Redis lookup statistics configuration
type StatsConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// Provider kinds
const (
	ProviderInnerTube = "innertube"
	ProviderYtDlp     = "ytdlp"
)

// Load reads configuration from file and environment variables.
// An empty path loads defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRANSCRIPTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks values viper cannot check on its own
func (c *Config) Validate() error {
	switch c.Provider.Kind {
	case ProviderInnerTube:
		if c.Provider.BaseURL == "" {
			return errors.New("provider.baseURL is required for the innertube provider")
		}
	case ProviderYtDlp:
		if c.Provider.YtDlpPath == "" {
			return errors.New("provider.ytdlpPath is required for the ytdlp provider")
		}
	default:
		return fmt.Errorf("unknown provider kind %q", c.Provider.Kind)
	}
	if len(c.Selection.PreferredLanguages) == 0 {
		return errors.New("selection.preferredLanguages must not be empty")
	}
	return nil
}

// Addr returns the listen address of the API server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "30s")
	v.SetDefault("server.writeTimeout", "30s")
	v.SetDefault("server.shutdownTimeout", "10s")
	v.SetDefault("server.requestTimeout", "25s")
	v.SetDefault("server.mode", "release")

	// Provider defaults
	v.SetDefault("provider.kind", ProviderInnerTube)
	v.SetDefault("provider.baseURL", "https://www.youtube.com")
	v.SetDefault("provider.apiKey", "")
	v.SetDefault("provider.clientName", "ANDROID")
	v.SetDefault("provider.clientVersion", "20.10.38")
	v.SetDefault("provider.userAgent", "transcripts/1.0")
	v.SetDefault("provider.timeout", "15s")
	v.SetDefault("provider.maxBodyBytes", 10_000_000)
	v.SetDefault("provider.preserveFormatting", false)
	v.SetDefault("provider.ytdlpPath", "yt-dlp")

	// Selection defaults
	v.SetDefault("selection.preferredLanguages", []string{"en", "en-US", "en-GB"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.serviceName", "transcripts")
	v.SetDefault("tracing.endpoint", "http://localhost:14268/api/traces")

	// Stats defaults
	v.SetDefault("stats.enabled", false)
	v.SetDefault("stats.host", "localhost")
	v.SetDefault("stats.port", 6379)
	v.SetDefault("stats.password", "")
	v.SetDefault("stats.db", 0)
}
