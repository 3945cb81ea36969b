package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/cuongbtq/recruit-proxy/internal/gemini"
	"gopkg.in/yaml.v3"
)

const (
	// MinPort is the minimum valid port number
	MinPort = 1
	// MaxPort is the maximum valid port number
	MaxPort = 65535
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	App      AppConfig      `yaml:"app"`
	CORS     CORSConfig     `yaml:"cors"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Airtable AirtableConfig `yaml:"airtable"`
	Relay    RelayConfig    `yaml:"relay"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level        string `yaml:"level"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	EnableCaller bool   `yaml:"enable_caller"`
}

// AppConfig holds application metadata
type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// CORSConfig is the single cross-origin policy applied to every route
type CORSConfig struct {
	AllowOrigin  string   `yaml:"allow_origin"`
	AllowHeaders []string `yaml:"allow_headers"`
	AllowMethods []string `yaml:"allow_methods"`
}

// GeminiConfig holds the generative-language API settings
type GeminiConfig struct {
	BaseURL   string `yaml:"base_url"`
	Model     string `yaml:"model"`
	AuthStyle string `yaml:"auth_style"`
	APIKey    string `yaml:"api_key"`
}

// AirtableConfig holds the tabular-data API settings
type AirtableConfig struct {
	BaseURL       string `yaml:"base_url"`
	Token         string `yaml:"token"`
	BaseID        string `yaml:"base_id"`
	TableName     string `yaml:"table_name"`
	View          string `yaml:"view"`
	FilterFormula string `yaml:"filter_formula"`
}

// RelayConfig holds the generic proxy target
type RelayConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// Configured reports whether the Gemini integrations have their key
func (g GeminiConfig) Configured() bool {
	return g.APIKey != ""
}

// Configured reports whether fetch-jobs has every value it resolves per request
func (a AirtableConfig) Configured() bool {
	return a.Token != "" && a.BaseID != "" && a.TableName != ""
}

// Configured reports whether api-proxy has both its key and endpoint
func (r RelayConfig) Configured() bool {
	return r.APIKey != "" && r.Endpoint != ""
}

// Default returns the configuration used when no file provides a value
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Output: "stdout",
		},
		App: AppConfig{
			Name:        "recruit-proxy",
			Version:     "dev",
			Environment: "development",
		},
		CORS: CORSConfig{
			AllowOrigin:  "*",
			AllowHeaders: []string{"Origin", "X-Requested-With", "Content-Type", "Accept"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
		},
		Gemini: GeminiConfig{
			BaseURL:   gemini.DefaultBaseURL,
			Model:     gemini.DefaultModel,
			AuthStyle: gemini.AuthQuery,
		},
		Airtable: AirtableConfig{
			BaseURL:   "https://api.airtable.com",
			TableName: "Jobs",
			View:      "Grid view",
		},
	}
}

// Load reads and parses the configuration file, then applies environment
// overrides. An empty path skips the file.
func Load(configPath string) (*Config, error) {
	config := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnv overlays environment variables. Secrets are expected to come
// from here rather than from the file.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = port
	}

	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.App.Environment, "APP_ENV")

	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Gemini.Model, "GEMINI_MODEL")
	setString(&c.Gemini.BaseURL, "GEMINI_BASE_URL")

	setString(&c.Airtable.Token, "AIRTABLE_TOKEN")
	setString(&c.Airtable.BaseID, "AIRTABLE_BASE_ID")
	setString(&c.Airtable.TableName, "AIRTABLE_TABLE_NAME")
	setString(&c.Airtable.View, "AIRTABLE_VIEW")

	setString(&c.Relay.APIKey, "EXTERNAL_API_KEY")
	setString(&c.Relay.Endpoint, "EXTERNAL_API_URL")

	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

// Validate checks if the configuration is valid. Missing upstream secrets
// are not an error here; each integration fails closed per request instead.
func (c *Config) Validate() error {
	if c.Server.Port < MinPort || c.Server.Port > MaxPort {
		return fmt.Errorf("invalid server port: %d (must be between %d and %d)", c.Server.Port, MinPort, MaxPort)
	}

	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server max_body_bytes must not be negative")
	}

	switch c.Logging.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q (must be json or console)", c.Logging.Format)
	}

	if c.CORS.AllowOrigin == "" {
		return fmt.Errorf("cors allow_origin is required")
	}

	if err := validateBaseURL("gemini base_url", c.Gemini.BaseURL); err != nil {
		return err
	}

	if c.Gemini.Model == "" {
		return fmt.Errorf("gemini model is required")
	}

	switch c.Gemini.AuthStyle {
	case gemini.AuthQuery, gemini.AuthHeader:
	default:
		return fmt.Errorf("invalid gemini auth_style: %q (must be %s or %s)", c.Gemini.AuthStyle, gemini.AuthQuery, gemini.AuthHeader)
	}

	if err := validateBaseURL("airtable base_url", c.Airtable.BaseURL); err != nil {
		return err
	}

	if c.Relay.Endpoint != "" {
		if err := validateBaseURL("relay endpoint", c.Relay.Endpoint); err != nil {
			return err
		}
	}

	return nil
}

func validateBaseURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}

	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid %s: %q must be an absolute http(s) URL", name, raw)
	}

	return nil
}
