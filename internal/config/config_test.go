package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/connexion/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvAPIKey, EnvSearchEngineID, EnvUsername, EnvPassword, EnvDatabaseURL, EnvRedisURL} {
		t.Setenv(env, "")
	}
}

// validConfig passes every validation.
func validConfig() *Config {
	cfg := Defaults()
	cfg.Locations = []string{"Boston"}
	cfg.Positions = []string{"Software Engineer"}
	cfg.APIKey = "key"
	cfg.SearchEngineID = "cx"
	cfg.Username = "user@example.com"
	cfg.Password = "secret"
	cfg.Message = "Hi [FIRST NAME]!"
	return &cfg
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"locations": ["Boston", "Seattle"],
		"positions": ["Data Engineer"],
		"experience_operator": ">",
		"experience_years": 5,
		"num_requests": 20,
		"headless": false,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, []string{"Boston", "Seattle"}, cfg.Locations)
	assert.Equal(t, []string{"Data Engineer"}, cfg.Positions)
	assert.Equal(t, ">", cfg.ExperienceOperator)
	assert.Equal(t, 5, cfg.ExperienceYears)
	assert.Equal(t, 20, cfg.NumRequests)
	require.NotNil(t, cfg.Headless)
	assert.False(t, *cfg.Headless)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestLoad_DefaultsAndEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvPassword, "env-secret")

	path := writeConfig(t, `{"api_key": "file-key", "username": "file-user", "num_requests": 3}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "file-user", cfg.Username)
	assert.Equal(t, "env-secret", cfg.Password)
	assert.Equal(t, 3, cfg.NumRequests)
	assert.Equal(t, "=", cfg.ExperienceOperator)
	assert.Equal(t, filepath.Join("data", "queue.json"), cfg.QueuePath)
	assert.Equal(t, "@daily", cfg.Schedule)
}

func TestLoad_NoFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.NumRequests)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"too many requests", func(c *Config) { c.NumRequests = 51 }, "num_requests"},
		{"connection minimum too high", func(c *Config) { c.MinimumConnectionCount = 501 }, "minimum_connection_count"},
		{"years out of range", func(c *Config) { c.ExperienceYears = 31 }, "experience_years"},
		{"message too long", func(c *Config) { c.Message = strings.Repeat("a", 301) }, "message"},
		{"unknown operator", func(c *Config) { c.ExperienceOperator = "~" }, "experience_operator"},
		{"bad database url", func(c *Config) { c.DatabaseURL = "not a url" }, "database_url"},
		{"reversed delays", func(c *Config) { c.MinDelayMS, c.MaxDelayMS = 8000, 6000 }, "max_delay_ms"},
		{"wider delays", func(c *Config) { c.MinDelayMS, c.MaxDelayMS = 4000, 9000 }, ""},
		{"min delay below floor", func(c *Config) { c.MinDelayMS = 1 }, "min_delay_ms"},
		{"max delay below floor", func(c *Config) { c.MinDelayMS, c.MaxDelayMS = 3000, 3000 }, "max_delay_ms"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_IgnoresCommandSpecificFields(t *testing.T) {
	cfg := Defaults()
	assert.NoError(t, cfg.Validate())
}

func TestValidateSearch(t *testing.T) {
	assert.NoError(t, validConfig().ValidateSearch())

	cfg := validConfig()
	cfg.APIKey = ""
	err := cfg.ValidateSearch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")

	cfg = validConfig()
	cfg.Locations = []string{""}
	assert.Error(t, cfg.ValidateSearch())

	cfg = validConfig()
	cfg.ExperienceOperator = "<"
	cfg.ExperienceYears = 0
	err = cfg.ValidateSearch()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid criteria")
}

func TestValidateOutreach(t *testing.T) {
	assert.NoError(t, validConfig().ValidateOutreach())

	cfg := validConfig()
	cfg.Password = ""
	err := cfg.ValidateOutreach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	cfg = validConfig()
	cfg.NumRequests = 0
	assert.Error(t, cfg.ValidateOutreach())

	cfg = validConfig()
	cfg.MinDelayMS, cfg.MaxDelayMS = 1, 2
	err = cfg.ValidateOutreach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_delay_ms")

	// search fields are not needed to connect
	cfg = validConfig()
	cfg.Locations = nil
	cfg.APIKey = ""
	assert.NoError(t, cfg.ValidateOutreach())
}

func TestMergeWithDefaults(t *testing.T) {
	headless := false
	partial := Config{
		Locations:  []string{"Denver"},
		Username:   "me",
		Headless:   &headless,
		MinDelayMS: 1000,
	}

	merged := partial.MergeWithDefaults(Defaults())

	// Custom values should be preserved
	assert.Equal(t, []string{"Denver"}, merged.Locations)
	assert.Equal(t, "me", merged.Username)
	require.NotNil(t, merged.Headless)
	assert.False(t, *merged.Headless)
	assert.Equal(t, 1000, merged.MinDelayMS)

	// Default values should fill in empty fields
	assert.Equal(t, 5000, merged.MaxDelayMS)
	assert.Equal(t, 10, merged.NumRequests)
	assert.Zero(t, merged.ExperienceYears)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Username: "Test", NumRequests: 4}

	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "Test", merged.Username)
	assert.Equal(t, 4, merged.NumRequests)
	assert.Nil(t, merged.Headless)
}

func TestCriteria(t *testing.T) {
	cfg := validConfig()
	cfg.ExperienceOperator = "gt"
	cfg.ExperienceYears = 28

	c := cfg.Criteria()
	assert.Equal(t, types.OpGreaterThan, c.Operator)
	years, err := c.YearConstraints()
	require.NoError(t, err)
	assert.Equal(t, []int{29, 30}, years)
}

func TestConversions(t *testing.T) {
	cfg := validConfig()
	cfg.NumRequests = 7
	cfg.MinimumConnectionCount = 250
	cfg.PageTimeoutSeconds = 12

	opts := cfg.OutreachOptions()
	assert.Equal(t, 7, opts.QuotaTarget)
	assert.Equal(t, 250, opts.MinConnections)
	assert.Equal(t, "Hi [FIRST NAME]!", opts.Message)
	require.NotNil(t, opts.Pacer)
	assert.Equal(t, 3*time.Second, opts.Pacer.Min)
	assert.Equal(t, 5*time.Second, opts.Pacer.Max)

	bc := cfg.BrowserConfig()
	assert.True(t, bc.Headless)
	assert.Equal(t, 12*time.Second, bc.PageTimeout)

	gc := cfg.GoogleConfig()
	assert.Equal(t, "key", gc.APIKey)
	assert.Equal(t, "cx", gc.EngineID)
}

func TestValidateDocument(t *testing.T) {
	good := writeConfig(t, `{"locations": ["Boston"], "num_requests": 5, "experience_operator": "<"}`)
	assert.NoError(t, ValidateDocument(good))

	unknown := writeConfig(t, `{"job_url": "https://example.com"}`)
	assert.Error(t, ValidateDocument(unknown))

	outOfRange := writeConfig(t, `{"num_requests": 500}`)
	assert.Error(t, ValidateDocument(outOfRange))
}
