package model

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the full application configuration, loadable from
// ~/.pressbox/config.yaml, PRESSBOX_* environment variables and flags.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	DB     DBConfig     `yaml:"db" mapstructure:"db"`
	LLM    LLMConfig    `yaml:"llm" mapstructure:"llm"`
	Cache  CacheConfig  `yaml:"cache" mapstructure:"cache"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
}

// ServerConfig tunes the HTTP API.
type ServerConfig struct {
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// DBConfig describes the Postgres connection. Either URL holds a complete
// DSN, or the individual components are set; components win when both are
// present because they avoid URL-encoding pitfalls with special characters
// in passwords.
type DBConfig struct {
	URL      string `yaml:"url" mapstructure:"url"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     string `yaml:"port" mapstructure:"port"`
	Name     string `yaml:"name" mapstructure:"name"`
	MaxConns int32  `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32  `yaml:"min_conns" mapstructure:"min_conns"`
}

// DSN builds a connection string with sslmode=require, or returns "" when
// the database is not configured (file-mode only deployments).
func (c DBConfig) DSN() string {
	if c.User != "" && c.Password != "" && c.Host != "" {
		port := c.Port
		if port == "" {
			port = "5432"
		}
		name := c.Name
		if name == "" {
			name = "postgres"
		}
		return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=require",
			c.User, url.QueryEscape(c.Password), c.Host, port, name)
	}
	if c.URL != "" {
		dsn := c.URL
		if !strings.Contains(dsn, "sslmode=") {
			sep := "?"
			if strings.Contains(dsn, "?") {
				sep = "&"
			}
			dsn += sep + "sslmode=require"
		}
		return dsn
	}
	return ""
}

// Configured reports whether a database connection can be built.
func (c DBConfig) Configured() bool {
	return c.DSN() != ""
}

// LLMConfig selects and tunes the text-generation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider" mapstructure:"provider"`
	Model       string  `yaml:"model" mapstructure:"model"`
	APIKey      string  `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	Timeout     int     `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// CacheConfig tunes the in-memory stat snapshot cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// OutputConfig holds presentation switches.
type OutputConfig struct {
	Verbose    bool `yaml:"verbose" mapstructure:"verbose"`
	Disclaimer bool `yaml:"disclaimer" mapstructure:"disclaimer"`
}

// DefaultConfig returns the built-in defaults: OpenAI gpt-4o-mini at low
// temperature, 30s request timeout, disclaimer remediation on, snapshot
// cache on with a 10 minute TTL.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		DB: DBConfig{
			Port:     "5432",
			Name:     "postgres",
			MaxConns: 5,
			MinConns: 1,
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Timeout:     30,
			MaxTokens:   1800,
			Temperature: 0.2,
			RatePerSec:  1,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     10 * time.Minute,
		},
		Output: OutputConfig{
			Disclaimer: true,
		},
	}
}
