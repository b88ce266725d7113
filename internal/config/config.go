package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// Defaults for everything except the base URL, which has no sensible default.
const (
	DefaultTimeout              = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultBackoffBase          = 500 * time.Millisecond
	DefaultBackoffMax           = 10 * time.Second
	DefaultPollInterval         = 5 * time.Second
	DefaultPollFailureThreshold = 3
)

// Config holds the configuration for the application. Once activated it is
// the process-wide request context: immutable, shared read-only by every
// component.
type Config struct {
	Engine struct {
		BaseURL string        `mapstructure:"base_url"`
		APIKey  string        `mapstructure:"api_key"`
		Timeout time.Duration `mapstructure:"timeout"`
	} `mapstructure:"engine"`
	Retry struct {
		MaxRetries  int           `mapstructure:"max_retries"`
		BackoffBase time.Duration `mapstructure:"backoff_base"`
		BackoffMax  time.Duration `mapstructure:"backoff_max"`
	} `mapstructure:"retry"`
	Poll struct {
		Interval         time.Duration `mapstructure:"interval"`
		FailureThreshold int           `mapstructure:"failure_threshold"`
	} `mapstructure:"poll"`
	Server struct {
		Port int `mapstructure:"port"`
		TLS  struct {
			Enable    bool     `mapstructure:"enable"`
			CertFile  string   `mapstructure:"cert_file"`
			KeyFile   string   `mapstructure:"key_file"`
			Hostnames []string `mapstructure:"hostnames"`
		} `mapstructure:"tls"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`
}

// LoadConfig loads the configuration from a file and the environment.
// Environment variables use the WORKFLOW_ prefix with underscores, e.g.
// WORKFLOW_ENGINE_BASE_URL.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("workflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default registered so viper binds it to the
	// environment during Unmarshal.
	v.SetDefault("engine.base_url", "")
	v.SetDefault("engine.api_key", "")
	v.SetDefault("engine.timeout", DefaultTimeout)
	v.SetDefault("retry.max_retries", DefaultMaxRetries)
	v.SetDefault("retry.backoff_base", DefaultBackoffBase)
	v.SetDefault("retry.backoff_max", DefaultBackoffMax)
	v.SetDefault("poll.interval", DefaultPollInterval)
	v.SetDefault("poll.failure_threshold", DefaultPollFailureThreshold)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.tls.enable", false)
	v.SetDefault("server.tls.cert_file", "")
	v.SetDefault("server.tls.key_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	if err := v.ReadInConfig(); err != nil {
		// The config file is optional; the environment alone can carry
		// everything.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Engine.BaseURL = normalizeBaseURL(config.Engine.BaseURL)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks that the loaded configuration is coherent.
func (c *Config) Validate() error {
	if c.Engine.BaseURL == "" {
		return errors.New("engine base URL is required (set WORKFLOW_ENGINE_BASE_URL)")
	}
	parsed, err := url.Parse(c.Engine.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid engine base URL: %w", err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("engine base URL must be absolute with a host, got %q", c.Engine.BaseURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("engine base URL scheme must be http or https, got %q", parsed.Scheme)
	}
	if c.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0, got %d", c.Retry.MaxRetries)
	}
	if c.Retry.BackoffBase <= 0 || c.Retry.BackoffMax < c.Retry.BackoffBase {
		return errors.New("retry backoff must satisfy 0 < backoff_base <= backoff_max")
	}
	if c.Poll.Interval <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.Poll.FailureThreshold < 1 {
		return errors.New("poll.failure_threshold must be at least 1")
	}
	return nil
}

// normalizeBaseURL strips any trailing slash so path joining stays
// predictable regardless of how the URL was pasted.
func normalizeBaseURL(input string) string {
	return strings.TrimRight(strings.TrimSpace(input), "/")
}

var (
	activeMu sync.Mutex
	active   *Config
)

// Activate installs cfg as the process-wide configuration. It fails if a
// configuration is already active; the request context is immutable for the
// process lifetime once set.
func Activate(cfg *Config) error {
	activeMu.Lock()
	defer activeMu.Unlock()
	if active != nil {
		return errors.New("configuration already activated")
	}
	if cfg == nil {
		return errors.New("nil configuration")
	}
	active = cfg
	return nil
}

// Active returns the activated configuration, or nil if Activate has not
// been called.
func Active() *Config {
	activeMu.Lock()
	defer activeMu.Unlock()
	return active
}

// Reset clears the active configuration. Tests only.
func Reset() {
	activeMu.Lock()
	defer activeMu.Unlock()
	active = nil
}
