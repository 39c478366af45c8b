// Package config provides configuration loading and validation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// LayoutConfig controls how the renderer orders contact fields and resume
// sections in the final document.
type LayoutConfig struct {
	ContactInfoFields []string `json:"contact_info_fields"`
	SectionOrder      []string `json:"section_order" validate:"omitempty,dive,oneof=summary work_experience education skills projects"`
}

// Config is the application configuration, loadable from a JSON file.
// All fields are optional; missing values fall back to defaults.
type Config struct {
	// Paths
	OutputBaseDir string `json:"output_base_dir,omitempty"` // Base directory for session directories

	// Retention
	RetentionDays int `json:"retention_days,omitempty" validate:"gte=0"` // Sessions older than this are cleaned up

	// LLM
	Provider  string `json:"provider,omitempty" validate:"omitempty,oneof=openai gemini"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty" validate:"gte=0"`
	// Temperature is a pointer so an explicit 0 in the file is
	// distinguishable from the field being absent.
	Temperature *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`

	// Fetching
	UseBrowser bool `json:"use_browser,omitempty"` // Force headless browser for SPA job boards

	// Server
	Port int `json:"port,omitempty" validate:"gte=0,lte=65535"`

	// Rendering
	Layout LayoutConfig `json:"layout,omitempty"`

	// Behavior
	Verbose bool `json:"verbose,omitempty"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func floatPtr(v float64) *float64 { return &v }

// Defaults returns the built-in configuration, matching the layouts and API
// parameters the bundled template was designed for.
func Defaults() Config {
	return Config{
		OutputBaseDir: "./data/jobs",
		RetentionDays: 30,
		Provider:      "openai",
		Model:         "gpt-4o",
		MaxTokens:     4096,
		Temperature:   floatPtr(0.2),
		Port:          8080,
		Layout: LayoutConfig{
			ContactInfoFields: []string{"location", "email", "phone_number", "linkedin_url"},
			SectionOrder:      []string{"summary", "work_experience", "education", "skills"},
		},
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
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

// Validate checks field constraints via struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// MergeWithDefaults returns a new Config with unset fields filled from
// defaults. Bool fields are not merged: flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.OutputBaseDir == "" {
		result.OutputBaseDir = defaults.OutputBaseDir
	}
	if result.RetentionDays == 0 {
		result.RetentionDays = defaults.RetentionDays
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.MaxTokens == 0 {
		result.MaxTokens = defaults.MaxTokens
	}
	if result.Temperature == nil {
		result.Temperature = defaults.Temperature
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.Layout.ContactInfoFields) == 0 {
		result.Layout.ContactInfoFields = defaults.Layout.ContactInfoFields
	}
	if len(result.Layout.SectionOrder) == 0 {
		result.Layout.SectionOrder = defaults.Layout.SectionOrder
	}

	return result
}

// TemperatureValue returns the configured sampling temperature, or 0 when
// it was never set.
func (c *Config) TemperatureValue() float64 {
	if c.Temperature == nil {
		return 0
	}
	return *c.Temperature
}

// APIKey resolves the provider API key from the environment.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "gemini":
		return os.Getenv("GEMINI_API_KEY")
	default:
		return os.Getenv("OPENAI_API_KEY")
	}
}
