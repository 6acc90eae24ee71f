// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Default interview tuning values applied when the config file and flags
// leave a knob unset. They match the per-user defaults stored in the
// database.
const (
	DefaultMaxQuestions   = 5
	DefaultChunkSize      = 500
	DefaultChunkOverlap   = 50
	DefaultContextResults = 3
	DefaultTemperature    = 0.3
	DefaultPlanTolerance  = 2

	DefaultSessionsDir   = "./interview_sessions"
	DefaultReportsDir    = "./reports"
	DefaultMaxLogAgeDays = 30
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Resume    string `json:"resume,omitempty"`     // Path to candidate resume (PDF or text)
	Job       string `json:"job,omitempty"`        // Path to job description text file
	JobURL    string `json:"job_url,omitempty"`    // URL to fetch job posting from
	IndexPath string `json:"index_path,omitempty"` // Where the context index is persisted

	// Output directories
	SessionsDir string `json:"sessions_dir,omitempty"` // Saved session JSON files
	ReportsDir  string `json:"reports_dir,omitempty"`  // Exported report text files

	// Candidate info
	UserID string `json:"user_id,omitempty"` // User UUID (required for DB-based runs)

	// Interview tuning
	MaxQuestions   int     `json:"max_questions,omitempty"`   // Desired plan length (1-10)
	ChunkSize      int     `json:"chunk_size,omitempty"`      // Splitter chunk size in runes
	ChunkOverlap   int     `json:"chunk_overlap,omitempty"`   // Splitter overlap, must be < chunk size
	ContextResults int     `json:"context_results,omitempty"` // Chunks returned per retrieval query
	Temperature    float64 `json:"temperature,omitempty"`     // Model sampling temperature (0-2)
	PlanTolerance  int     `json:"plan_tolerance,omitempty"`  // Over-generation slack before plans are trimmed

	// Behavior
	APIKey           string `json:"api_key,omitempty"`            // Gemini API key
	UseBrowser       bool   `json:"use_browser,omitempty"`        // Use headless browser for SPA job boards
	Verbose          bool   `json:"verbose,omitempty"`            // Print detailed debug information
	AutoSaveSessions bool   `json:"auto_save_sessions,omitempty"` // Write session JSON after each answer
	MaxLogAgeDays    int    `json:"max_log_age_days,omitempty"`   // Retention for old session/report files
	DatabaseURL      string `json:"database_url,omitempty"`       // PostgreSQL connection URL
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

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Job != "" && c.JobURL != "" {
		return fmt.Errorf("config error: 'job' and 'job_url' are mutually exclusive")
	}

	// Validate numeric ranges
	if c.MaxQuestions < 0 {
		return fmt.Errorf("config error: 'max_questions' must be non-negative")
	}
	if c.ChunkSize < 0 {
		return fmt.Errorf("config error: 'chunk_size' must be non-negative")
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("config error: 'chunk_overlap' must be non-negative")
	}
	if c.ChunkSize > 0 && c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("config error: 'chunk_overlap' must be less than 'chunk_size'")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config error: 'temperature' must be between 0 and 2")
	}

	// Validate file paths exist (if specified)
	if c.Resume != "" {
		if _, err := os.Stat(c.Resume); os.IsNotExist(err) {
			return fmt.Errorf("config error: resume file not found: %s", c.Resume)
		}
	}

	if c.Job != "" {
		if _, err := os.Stat(c.Job); os.IsNotExist(err) {
			return fmt.Errorf("config error: job file not found: %s", c.Job)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Resume == "" {
		result.Resume = defaults.Resume
	}
	if result.Job == "" {
		result.Job = defaults.Job
	}
	if result.JobURL == "" {
		result.JobURL = defaults.JobURL
	}
	if result.IndexPath == "" {
		result.IndexPath = defaults.IndexPath
	}
	if result.UserID == "" {
		result.UserID = defaults.UserID
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Directories fall back to the standard layout
	if result.SessionsDir == "" {
		result.SessionsDir = firstNonEmpty(defaults.SessionsDir, DefaultSessionsDir)
	}
	if result.ReportsDir == "" {
		result.ReportsDir = firstNonEmpty(defaults.ReportsDir, DefaultReportsDir)
	}

	// Interview knobs: zero means unset
	if result.MaxQuestions == 0 {
		result.MaxQuestions = firstPositive(defaults.MaxQuestions, DefaultMaxQuestions)
	}
	if result.ChunkSize == 0 {
		result.ChunkSize = firstPositive(defaults.ChunkSize, DefaultChunkSize)
	}
	if result.ChunkOverlap == 0 {
		result.ChunkOverlap = firstPositive(defaults.ChunkOverlap, DefaultChunkOverlap)
	}
	if result.ContextResults == 0 {
		result.ContextResults = firstPositive(defaults.ContextResults, DefaultContextResults)
	}
	if result.PlanTolerance == 0 {
		result.PlanTolerance = firstPositive(defaults.PlanTolerance, DefaultPlanTolerance)
	}
	if result.MaxLogAgeDays == 0 {
		result.MaxLogAgeDays = firstPositive(defaults.MaxLogAgeDays, DefaultMaxLogAgeDays)
	}
	if result.Temperature == 0 {
		if defaults.Temperature > 0 {
			result.Temperature = defaults.Temperature
		} else {
			result.Temperature = DefaultTemperature
		}
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ValidateAPIKeyFormat performs a basic shape check on a Gemini API key:
// non-empty, "AIza" prefix, plausible length. It does not verify the key
// against the API.
func ValidateAPIKeyFormat(apiKey string) bool {
	if apiKey == "" {
		return false
	}
	if !strings.HasPrefix(apiKey, "AIza") {
		return false
	}
	return len(apiKey) >= 30
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
