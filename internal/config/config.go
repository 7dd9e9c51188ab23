// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/connexion/internal/browser"
	"github.com/jonathan/connexion/internal/outreach"
	"github.com/jonathan/connexion/internal/schemas"
	"github.com/jonathan/connexion/internal/search"
	"github.com/jonathan/connexion/internal/types"
	schemafiles "github.com/jonathan/connexion/schemas"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// Missing values use Defaults; secrets usually come from the environment.
type Config struct {
	// Search criteria
	Locations          []string `json:"locations,omitempty" validate:"required,min=1,dive,required"`
	Positions          []string `json:"positions,omitempty" validate:"required,min=1,dive,required"`
	ExperienceOperator string   `json:"experience_operator,omitempty" validate:"omitempty,oneof=< > = LT GT EQ lt gt eq"`
	ExperienceYears    int      `json:"experience_years,omitempty" validate:"gte=0,lte=30"`
	RepeatQueries      bool     `json:"repeat_queries,omitempty"`

	// Search provider
	SearchEngineID    string  `json:"search_engine_id,omitempty" validate:"required"`
	APIKey            string  `json:"api_key,omitempty" validate:"required"`
	RequestsPerSecond float64 `json:"requests_per_second,omitempty" validate:"gte=0"`

	// Storage
	QueuePath        string `json:"queue_path,omitempty"`
	ProfileIndexPath string `json:"profile_index_path,omitempty"`
	QueryIndexPath   string `json:"query_index_path,omitempty"`
	DatabaseURL      string `json:"database_url,omitempty" validate:"omitempty,url"`
	RedisURL         string `json:"redis_url,omitempty" validate:"omitempty,url"`

	// Outreach
	Username               string `json:"username,omitempty" validate:"required"`
	Password               string `json:"password,omitempty" validate:"required"`
	Message                string `json:"message,omitempty" validate:"max=300"`
	NumRequests            int    `json:"num_requests,omitempty" validate:"gte=0,lte=50"`
	MinimumConnectionCount int    `json:"minimum_connection_count,omitempty" validate:"gte=0,lte=500"`

	// Browser and pacing
	Headless           *bool `json:"headless,omitempty"`
	PageTimeoutSeconds int   `json:"page_timeout_seconds,omitempty" validate:"gte=0"`

	// The pacing window may be widened but never narrowed below 3-5s.
	MinDelayMS int `json:"min_delay_ms,omitempty" validate:"gte=3000"`
	MaxDelayMS int `json:"max_delay_ms,omitempty" validate:"gte=5000"`

	// Scheduling
	Schedule string `json:"schedule,omitempty"`

	Verbose bool `json:"verbose,omitempty"`
}

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey         = "GOOGLE_API_KEY"
	EnvSearchEngineID = "SEARCH_ENGINE_ID"
	EnvUsername       = "LINKEDIN_USERNAME"
	EnvPassword       = "LINKEDIN_PASSWORD"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRedisURL       = "REDIS_URL"
)

// Defaults returns the values used for anything a config file leaves out.
func Defaults() Config {
	headless := true
	return Config{
		ExperienceOperator: string(types.OpEqual),
		RequestsPerSecond:  1,
		QueuePath:          filepath.Join("data", "queue.json"),
		ProfileIndexPath:   filepath.Join("data", "indexed_profiles.json"),
		QueryIndexPath:     filepath.Join("data", "indexed_queries.json"),
		NumRequests:        10,
		Headless:           &headless,
		PageTimeoutSeconds: int(browser.DefaultPageTimeout / time.Second),
		MinDelayMS:         int(outreach.DefaultMinDelay / time.Millisecond),
		MaxDelayMS:         int(outreach.DefaultMaxDelay / time.Millisecond),
		Schedule:           "@daily",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
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

// ValidateDocument checks the config file at path against the JSON schema,
// which also rejects unknown keys.
func ValidateDocument(path string) error {
	return schemas.ValidateFile(schemafiles.Config, path)
}

// Load reads path (if non-empty), fills gaps from Defaults and applies the
// environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	merged := cfg.MergeWithDefaults(Defaults())
	merged.ApplyEnv(os.Getenv)
	return &merged, nil
}

// ApplyEnv overwrites credentials and connection URLs with any non-empty
// environment values.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for env, field := range map[string]*string{
		EnvAPIKey:         &c.APIKey,
		EnvSearchEngineID: &c.SearchEngineID,
		EnvUsername:       &c.Username,
		EnvPassword:       &c.Password,
		EnvDatabaseURL:    &c.DatabaseURL,
		EnvRedisURL:       &c.RedisURL,
	} {
		if v := strings.TrimSpace(getenv(env)); v != "" {
			*field = v
		}
	}
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	fillString(&result.ExperienceOperator, defaults.ExperienceOperator)
	fillString(&result.SearchEngineID, defaults.SearchEngineID)
	fillString(&result.APIKey, defaults.APIKey)
	fillString(&result.QueuePath, defaults.QueuePath)
	fillString(&result.ProfileIndexPath, defaults.ProfileIndexPath)
	fillString(&result.QueryIndexPath, defaults.QueryIndexPath)
	fillString(&result.DatabaseURL, defaults.DatabaseURL)
	fillString(&result.RedisURL, defaults.RedisURL)
	fillString(&result.Username, defaults.Username)
	fillString(&result.Password, defaults.Password)
	fillString(&result.Message, defaults.Message)
	fillString(&result.Schedule, defaults.Schedule)

	// Slices
	if len(result.Locations) == 0 {
		result.Locations = defaults.Locations
	}
	if len(result.Positions) == 0 {
		result.Positions = defaults.Positions
	}

	// Int fields: use default if zero. Experience years and the connection
	// minimum are taken as given since zero is meaningful for both.
	fillInt(&result.NumRequests, defaults.NumRequests)
	fillInt(&result.PageTimeoutSeconds, defaults.PageTimeoutSeconds)
	fillInt(&result.MinDelayMS, defaults.MinDelayMS)
	fillInt(&result.MaxDelayMS, defaults.MaxDelayMS)

	if result.RequestsPerSecond == 0 {
		result.RequestsPerSecond = defaults.RequestsPerSecond
	}

	// Pointer bools can tell unset from false
	if result.Headless == nil {
		result.Headless = defaults.Headless
	}

	return result
}

func fillString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}

func fillInt(dst *int, def int) {
	if *dst == 0 {
		*dst = def
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var (
	searchFields   = []string{"Locations", "Positions", "SearchEngineID", "APIKey"}
	outreachFields = []string{"Username", "Password"}
)

// Validate checks that the configuration has valid values. Fields only one
// command needs are checked by ValidateSearch and ValidateOutreach.
func (c *Config) Validate() error {
	except := append(append([]string{}, searchFields...), outreachFields...)
	if err := validate.StructExcept(c, except...); err != nil {
		return configError(err)
	}
	if c.MaxDelayMS < c.MinDelayMS {
		return fmt.Errorf("config error: 'max_delay_ms' must not be less than 'min_delay_ms'")
	}
	return nil
}

// ValidateSearch checks everything a discovery pass needs.
func (c *Config) ValidateSearch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.StructPartial(c, searchFields...); err != nil {
		return configError(err)
	}
	if _, err := c.Criteria().YearConstraints(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// ValidateOutreach checks everything an outreach run needs.
func (c *Config) ValidateOutreach() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.StructPartial(c, outreachFields...); err != nil {
		return configError(err)
	}
	if c.NumRequests < 1 {
		return fmt.Errorf("config error: 'num_requests' must be at least 1")
	}
	return nil
}

// configError renders validator failures with JSON field names.
func configError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config error: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("'%s' failed '%s'", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
}

// Criteria converts the search fields. An unparseable operator is left
// empty so YearConstraints reports it.
func (c *Config) Criteria() types.FilterCriteria {
	op, _ := types.ParseExperienceOperator(c.ExperienceOperator)
	return types.FilterCriteria{
		Locations: c.Locations,
		Positions: c.Positions,
		Operator:  op,
		Years:     c.ExperienceYears,
	}
}

// GoogleConfig converts the search provider fields.
func (c *Config) GoogleConfig() search.GoogleConfig {
	return search.GoogleConfig{
		APIKey:            c.APIKey,
		EngineID:          c.SearchEngineID,
		RequestsPerSecond: c.RequestsPerSecond,
		Verbose:           c.Verbose,
	}
}

// BrowserConfig converts the browser fields.
func (c *Config) BrowserConfig() browser.Config {
	headless := c.Headless == nil || *c.Headless
	return browser.Config{
		Headless:    headless,
		PageTimeout: time.Duration(c.PageTimeoutSeconds) * time.Second,
		Verbose:     c.Verbose,
	}
}

// OutreachOptions converts the outreach fields. Recorder is left for the
// caller to set.
func (c *Config) OutreachOptions() outreach.Options {
	return outreach.Options{
		QuotaTarget:    c.NumRequests,
		MinConnections: c.MinimumConnectionCount,
		Message:        c.Message,
		Username:       c.Username,
		Password:       c.Password,
		Pacer: outreach.NewPacer(
			time.Duration(c.MinDelayMS)*time.Millisecond,
			time.Duration(c.MaxDelayMS)*time.Millisecond,
		),
		Verbose: c.Verbose,
	}
}
