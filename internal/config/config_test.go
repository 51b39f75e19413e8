package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/petasbytes/wikiseek/agent"
	"github.com/petasbytes/wikiseek/internal/wikipedia"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte("log_level: debug\n"), 0600); err != nil {
		t.Fatal(err)
	}

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	if _, err := FindConfig("/nonexistent/config.yaml"); err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestFindConfig_CWD(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("log_level: info\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got, err := FindConfig("")
	if err != nil {
		t.Fatalf("FindConfig(\"\") error: %v", err)
	}
	if got != "config.yaml" {
		t.Errorf("FindConfig(\"\") = %q, want %q", got, "config.yaml")
	}
}

func TestFindConfig_NoneFound(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	_, err := FindConfig("")
	if _, statErr := os.Stat("/etc/wikiseek/config.yaml"); statErr == nil {
		t.Skip("system config present")
	}
	if !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig, got %v", err)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	t.Setenv("TEST_WIKISEEK_KEY", "sk-from-env")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
anthropic:
  api_key: ${TEST_WIKISEEK_KEY}
  temperature: 0
  timeout: 90s
  stop_sequences: ["END"]
agent:
  max_round_trips: 7
wikipedia:
  timeout: 15s
listen:
  address: ":9000"
`
	if err := os.WriteFile(path, []byte(yml), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Anthropic.APIKey != "sk-from-env" {
		t.Errorf("api_key not expanded: %q", cfg.Anthropic.APIKey)
	}
	if cfg.Anthropic.Temperature != 0 {
		t.Errorf("explicit zero temperature lost: %v", cfg.Anthropic.Temperature)
	}
	if cfg.Anthropic.Timeout != 90*time.Second || cfg.Wikipedia.Timeout != 15*time.Second {
		t.Errorf("durations: %v %v", cfg.Anthropic.Timeout, cfg.Wikipedia.Timeout)
	}
	if cfg.Agent.MaxRoundTrips != 7 || cfg.Listen.Address != ":9000" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	// Unset fields keep defaults.
	if cfg.Anthropic.MaxTokens != agent.DefaultMaxTokens || cfg.Wikipedia.SearchURL != wikipedia.DefaultSearchURL {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("anthropic: [unclosed\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "sk-env")
	t.Setenv(EnvLogLevel, "debug")

	cfg := Default()
	cfg.Anthropic.APIKey = "sk-file"
	cfg.ApplyEnv()
	if cfg.Anthropic.APIKey != "sk-env" || cfg.LogLevel != "debug" {
		t.Fatalf("env not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Anthropic.APIKey = "sk"
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"ok", func(*Config) {}, ""},
		{"missing key", func(c *Config) { c.Anthropic.APIKey = " " }, "api_key"},
		{"missing model", func(c *Config) { c.Anthropic.Model = "" }, "model"},
		{"zero max tokens", func(c *Config) { c.Anthropic.MaxTokens = 0 }, "max_tokens"},
		{"negative timeout", func(c *Config) { c.Anthropic.Timeout = -time.Second }, "timeout"},
		{"zero round trips", func(c *Config) { c.Agent.MaxRoundTrips = 0 }, "max_round_trips"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestAgentConfig(t *testing.T) {
	c := Default()
	c.Anthropic.Temperature = 0.5
	c.Anthropic.StopSequences = []string{"STOP"}
	c.Agent.MaxRoundTrips = 3

	ac := c.AgentConfig()
	if ac.Temperature != 0.5 || ac.MaxRoundTrips != 3 || len(ac.StopSequences) != 1 {
		t.Fatalf("unexpected agent config: %+v", ac)
	}
	if ac.SystemPrompt != agent.SystemPrompt || len(ac.Tools) != 2 {
		t.Fatalf("built-in prompt and tools expected: %+v", ac)
	}

	c.Agent.SystemPrompt = "custom"
	if got := c.AgentConfig().SystemPrompt; got != "custom" {
		t.Fatalf("system prompt override ignored: %q", got)
	}
}

func TestDefault_MatchesAgentDefaults(t *testing.T) {
	c := Default()
	c.Anthropic.APIKey = "sk"
	ac := c.AgentConfig()
	def := agent.DefaultConfig()
	if ac.Model != def.Model || ac.Temperature != def.Temperature || ac.MaxTokens != def.MaxTokens ||
		ac.Timeout != def.Timeout || ac.MaxRoundTrips != def.MaxRoundTrips {
		t.Fatalf("defaults drifted: %+v vs %+v", ac, def)
	}
}
