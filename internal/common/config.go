package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Batch       BatchConfig   `toml:"batch"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"min=1,max=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// BatchConfig contains configuration for the batch orchestration engine
type BatchConfig struct {
	DefaultCountry  string         `toml:"default_country" validate:"required"`
	DefaultCategory string         `toml:"default_category" validate:"required"`
	DefaultWeeks    int            `toml:"default_weeks" validate:"min=1"`
	Schedule        string         `toml:"schedule"` // Cron schedule for the daily run
	Timezone        string         `toml:"timezone"` // Timezone the schedule is evaluated in
	Workflow        WorkflowConfig `toml:"workflow"`
}

// WorkflowConfig describes how the external trend-extraction process is launched
type WorkflowConfig struct {
	Command       string        `toml:"command" validate:"required"` // Interpreter, e.g. "python3"
	Script        string        `toml:"script" validate:"required"`  // Workflow script path
	WorkDir       string        `toml:"work_dir"`                    // Working directory for the child process
	APIKey        string        `toml:"api_key"`                     // Passed to the workflow as GEMINI_API_KEY
	StoreURI      string        `toml:"store_uri"`                   // Document store connection string for the workflow
	StoreDatabase string        `toml:"store_database"`              // Document store database name for the workflow
	MaxOutputSize int           `toml:"max_output_size" validate:"min=1"` // Byte cap on stored stdout/stderr capture
	Timeout       time.Duration `toml:"timeout"`                     // Kill a hung workflow after this bound (0 = no timeout)
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings should be exposed in trendboard.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8080,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
		Batch: BatchConfig{
			DefaultCountry:  "usa",
			DefaultCategory: "Skincare",
			DefaultWeeks:    8,
			Schedule:        "0 2 * * *", // Daily at 02:00
			Timezone:        "Asia/Seoul",
			Workflow: WorkflowConfig{
				Command:       "python3",
				Script:        "./workflows/trend_extraction.py",
				MaxOutputSize: 1000,
				Timeout:       0, // Disabled unless configured
			},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for structural errors
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRENDBOARD_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("TRENDBOARD_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("TRENDBOARD_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Storage configuration
	if badgerPath := os.Getenv("TRENDBOARD_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	// Logging configuration
	if level := os.Getenv("TRENDBOARD_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("TRENDBOARD_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Batch configuration
	if schedule := os.Getenv("TRENDBOARD_BATCH_SCHEDULE"); schedule != "" {
		config.Batch.Schedule = schedule
	}
	if tz := os.Getenv("TRENDBOARD_BATCH_TIMEZONE"); tz != "" {
		config.Batch.Timezone = tz
	}

	// Workflow credentials come from the environment in deployments that
	// keep secrets out of config files (.env loaded by main).
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Batch.Workflow.APIKey = apiKey
	}
	if uri := os.Getenv("TRENDBOARD_STORE_URI"); uri != "" {
		config.Batch.Workflow.StoreURI = uri
	}
	if db := os.Getenv("TRENDBOARD_STORE_DATABASE"); db != "" {
		config.Batch.Workflow.StoreDatabase = db
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}
