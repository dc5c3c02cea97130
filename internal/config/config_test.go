package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"job_url": "https://acme.com/jobs/1",
		"resume_dir": "my_resume",
		"verbose": true
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://acme.com/jobs/1", cfg.JobURL)
	assert.Equal(t, "my_resume", cfg.ResumeDir)
	assert.True(t, cfg.Verbose)
	assert.Empty(t, cfg.OutputDir)
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}

func TestValidateMutuallyExclusive(t *testing.T) {
	cfg := &Config{JobURL: "https://acme.com/jobs/1", Message: "see https://acme.com/jobs/1"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestValidateOK(t *testing.T) {
	cfg := &Config{JobURL: "https://acme.com/jobs/1", ResumeDir: t.TempDir()}
	assert.NoError(t, cfg.Validate())
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := Config{JobURL: "https://acme.com/jobs/1"}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "https://acme.com/jobs/1", merged.JobURL)
	assert.Equal(t, "resume", merged.ResumeDir)
	assert.Equal(t, "cover_letters", merged.OutputDir)
}

func TestMergeFlagValuesWin(t *testing.T) {
	cfg := Config{ResumeDir: "custom", Verbose: true}
	merged := cfg.MergeWithDefaults(Defaults())

	assert.Equal(t, "custom", merged.ResumeDir)
	assert.True(t, merged.Verbose)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("PERPLEXITY_API_KEY", "pplx-key")

	cfg := &Config{}
	cfg.FromEnv()
	assert.Equal(t, "gem-key", cfg.GeminiAPIKey)
	assert.Equal(t, "pplx-key", cfg.PerplexityAPIKey)
}

func TestFromEnvDoesNotOverride(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg := &Config{GeminiAPIKey: "explicit"}
	cfg.FromEnv()
	assert.Equal(t, "explicit", cfg.GeminiAPIKey)
}
