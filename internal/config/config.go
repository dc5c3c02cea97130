// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the CLI configuration, loadable from a JSON file. Every field is
// optional; CLI flags and environment variables fill the gaps.
type Config struct {
	// Inputs
	JobURL    string `json:"job_url,omitempty"`    // Job posting URL
	Message   string `json:"message,omitempty"`    // Free-form message containing the job URL
	ResumeDir string `json:"resume_dir,omitempty"` // Directory holding the resume PDF
	OutputDir string `json:"output_dir,omitempty"` // Where letters and snapshots are written

	// Credentials
	GeminiAPIKey     string `json:"gemini_api_key,omitempty"`
	PerplexityAPIKey string `json:"perplexity_api_key,omitempty"`

	// Behavior
	UseBrowser bool `json:"use_browser,omitempty"` // Headless-browser fallback for SPA job boards
	Verbose    bool `json:"verbose,omitempty"`
}

// Defaults returns the configuration used when nothing else is specified.
func Defaults() Config {
	return Config{
		ResumeDir: "resume",
		OutputDir: "cover_letters",
	}
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration's values. Required-field checks happen
// after flag merging, not here.
func (c *Config) Validate() error {
	if c.JobURL != "" && c.Message != "" {
		return fmt.Errorf("config error: 'job_url' and 'message' are mutually exclusive")
	}
	if c.ResumeDir != "" {
		if info, err := os.Stat(c.ResumeDir); err == nil && !info.IsDir() {
			return fmt.Errorf("config error: 'resume_dir' is not a directory: %s", c.ResumeDir)
		}
	}
	return nil
}

// MergeWithDefaults fills empty fields from defaults. Flag values already in
// c win.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.Message == "" {
		result.Message = defaults.Message
	}
	if result.ResumeDir == "" {
		result.ResumeDir = defaults.ResumeDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.PerplexityAPIKey == "" {
		result.PerplexityAPIKey = defaults.PerplexityAPIKey
	}
	result.UseBrowser = result.UseBrowser || defaults.UseBrowser
	result.Verbose = result.Verbose || defaults.Verbose
	return result
}

// FromEnv fills credentials from the environment when unset:
// GEMINI_API_KEY and PERPLEXITY_API_KEY.
func (c *Config) FromEnv() {
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.PerplexityAPIKey == "" {
		c.PerplexityAPIKey = os.Getenv("PERPLEXITY_API_KEY")
	}
}
