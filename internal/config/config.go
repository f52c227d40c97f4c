// Package config holds tagsmith configuration: file paths, model settings,
// and logging. Configuration is an explicit object handed to each component
// rather than process-wide state.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey reports an absent Gemini credential. The key must come
// from the config file, the GEMINI_API_KEY environment variable, or the
// --api-key flag.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY is not set")

// Config holds all tagsmith configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	LLM     LLMConfig     `yaml:"llm"`
	Logging LoggingConfig `yaml:"logging"`
}

// PathsConfig configures the pipeline's filesystem layout.
type PathsConfig struct {
	// Master document the splitter reads.
	MasterFile string `yaml:"master_file"`

	// Directory of per-category chunk files.
	ChunkDir string `yaml:"chunk_dir"`

	// Directory the updater writes refreshed chunks to.
	UpdatedChunkDir string `yaml:"updated_chunk_dir"`

	// Merged, timestamped output document.
	MergedFile string `yaml:"merged_file"`

	// Run log and token summary live here.
	LogDir string `yaml:"log_dir"`
}

// LLMConfig configures the model client.
type LLMConfig struct {
	APIKey     string `yaml:"api_key"`
	Model      string `yaml:"model"`
	BaseURL    string `yaml:"base_url"`
	Timeout    string `yaml:"timeout"`
	MaxRetries int    `yaml:"max_retries"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			MasterFile:      "data/hashtags.json",
			ChunkDir:        "data_chunks",
			UpdatedChunkDir: "updated_data_chunks",
			MergedFile:      "data/updated_hashtags.json",
			LogDir:          "update_logs",
		},
		LLM: LLMConfig{
			Model:      "gemini-2.5-flash-lite",
			BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
			Timeout:    "120s",
			MaxRetries: 5,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if model := os.Getenv("TAGSMITH_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// ValidateCredentials checks that a model credential is configured.
func (c *Config) ValidateCredentials() error {
	if c.LLM.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// TimeoutDuration parses the configured LLM timeout, falling back to two
// minutes when unset or unparsable.
func (c *LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
