package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	LLM       LLMConfig       `yaml:"llm"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Reference ReferenceConfig `yaml:"reference"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

type LLMConfig struct {
	Provider string `yaml:"provider"` // openai, deepseek, mock
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
}

// PipelineConfig bounds the generation pipeline. TotalBudgetSeconds is the
// hard wall-clock deadline for the whole run; VerifierMinSeconds is the
// minimum remaining time required to attempt the verification stage.
type PipelineConfig struct {
	TotalBudgetSeconds     int `yaml:"total_budget_seconds"`
	VerifierMinSeconds     int `yaml:"verifier_min_seconds"`
	ProgressIntervalMillis int `yaml:"progress_interval_millis"`
}

// ReferenceConfig points at static reference corpora loaded once at startup
// and reused across requests.
type ReferenceConfig struct {
	FirmPatternsPath   string `yaml:"firm_patterns_path"`
	LegalCitationsPath string `yaml:"legal_citations_path"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Pipeline.TotalBudgetSeconds <= 0 {
		c.Pipeline.TotalBudgetSeconds = 110
	}
	if c.Pipeline.VerifierMinSeconds <= 0 {
		c.Pipeline.VerifierMinSeconds = 20
	}
	if c.Pipeline.ProgressIntervalMillis <= 0 {
		c.Pipeline.ProgressIntervalMillis = 500
	}
	if c.LLM.Provider == "" {
		c.LLM.Provider = "mock"
	}
}
