// Package config handles wikiseek configuration loading.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables, command-line flags (applied by the caller).
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/petasbytes/wikiseek/agent"
	"github.com/petasbytes/wikiseek/internal/wikipedia"
	"gopkg.in/yaml.v3"
)

// Environment overrides.
const (
	EnvAPIKey   = "ANTHROPIC_API_KEY"
	EnvLogLevel = "WIKISEEK_LOG_LEVEL"
)

// DefaultSearchPaths returns the config file search order:
// ./config.yaml, ~/.config/wikiseek/config.yaml, /etc/wikiseek/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"config.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "wikiseek", "config.yaml"))
	}

	paths = append(paths, "/etc/wikiseek/config.yaml")
	return paths
}

// ErrNoConfig is returned by FindConfig when no file exists on the search path.
var ErrNoConfig = errors.New("no config file found")

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise the first existing entry of DefaultSearchPaths is returned.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w (searched: %v)", ErrNoConfig, DefaultSearchPaths())
}

// Config holds all wikiseek configuration.
type Config struct {
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Agent     AgentConfig     `yaml:"agent"`
	Wikipedia WikipediaConfig `yaml:"wikipedia"`
	Listen    ListenConfig    `yaml:"listen"`
	LogLevel  string          `yaml:"log_level"`
}

// AnthropicConfig defines the model call settings.
type AnthropicConfig struct {
	APIKey        string        `yaml:"api_key"`
	Model         string        `yaml:"model"`
	Temperature   float64       `yaml:"temperature"`
	MaxTokens     int64         `yaml:"max_tokens"`
	Timeout       time.Duration `yaml:"timeout"`
	StopSequences []string      `yaml:"stop_sequences"`
}

// AgentConfig defines loop settings.
type AgentConfig struct {
	SystemPrompt  string `yaml:"system_prompt"` // empty = built-in prompt
	MaxRoundTrips int    `yaml:"max_round_trips"`
}

// WikipediaConfig defines the lookup endpoints.
type WikipediaConfig struct {
	SearchURL  string        `yaml:"search_url"`
	SummaryURL string        `yaml:"summary_url"`
	Language   string        `yaml:"language"`
	UserAgent  string        `yaml:"user_agent"`
	Timeout    time.Duration `yaml:"timeout"` // 0 = no client timeout
}

// ListenConfig defines the web shell address.
type ListenConfig struct {
	Address string `yaml:"address"`
}

// Default returns the built-in configuration.
func Default() *Config {
	ac := agent.DefaultConfig()
	return &Config{
		Anthropic: AnthropicConfig{
			Model:       string(ac.Model),
			Temperature: ac.Temperature,
			MaxTokens:   ac.MaxTokens,
			Timeout:     ac.Timeout,
		},
		Agent: AgentConfig{
			MaxRoundTrips: ac.MaxRoundTrips,
		},
		Wikipedia: WikipediaConfig{
			SearchURL:  wikipedia.DefaultSearchURL,
			SummaryURL: wikipedia.DefaultSummaryURL,
			Language:   wikipedia.DefaultLanguage,
			UserAgent:  wikipedia.DefaultUserAgent,
		},
		Listen:   ListenConfig{Address: "127.0.0.1:8501"},
		LogLevel: "info",
	}
}

// Load reads configuration from a YAML file on top of Default. ${VAR}
// references in the file are expanded from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv overrides fields from the environment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.Anthropic.APIKey = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Anthropic.APIKey) == "" {
		return fmt.Errorf("anthropic.api_key is required (or set %s)", EnvAPIKey)
	}
	if c.Anthropic.Model == "" {
		return errors.New("anthropic.model is required")
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("anthropic.max_tokens must be positive, got %d", c.Anthropic.MaxTokens)
	}
	if c.Anthropic.Timeout < 0 {
		return fmt.Errorf("anthropic.timeout must not be negative, got %s", c.Anthropic.Timeout)
	}
	if c.Agent.MaxRoundTrips <= 0 {
		return fmt.Errorf("agent.max_round_trips must be positive, got %d", c.Agent.MaxRoundTrips)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// AgentConfig returns the agent settings described by c.
func (c *Config) AgentConfig() agent.Config {
	ac := agent.DefaultConfig()
	ac.Model = anthropic.Model(c.Anthropic.Model)
	ac.Temperature = c.Anthropic.Temperature
	ac.MaxTokens = c.Anthropic.MaxTokens
	ac.Timeout = c.Anthropic.Timeout
	ac.StopSequences = append([]string(nil), c.Anthropic.StopSequences...)
	ac.MaxRoundTrips = c.Agent.MaxRoundTrips
	if c.Agent.SystemPrompt != "" {
		ac.SystemPrompt = c.Agent.SystemPrompt
	}
	return ac
}

// WikipediaOptions returns client options for the configured endpoints.
func (c *Config) WikipediaOptions() []wikipedia.Option {
	opts := []wikipedia.Option{
		wikipedia.WithSearchURL(c.Wikipedia.SearchURL),
		wikipedia.WithSummaryURL(c.Wikipedia.SummaryURL),
		wikipedia.WithLanguage(c.Wikipedia.Language),
		wikipedia.WithUserAgent(c.Wikipedia.UserAgent),
	}
	if c.Wikipedia.Timeout > 0 {
		opts = append(opts, wikipedia.WithHTTPClient(&http.Client{Timeout: c.Wikipedia.Timeout}))
	}
	return opts
}
