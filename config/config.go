package config

import (
	"fmt"
	"os"
	"strconv"

	"shift-scheduler/models"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds the settings of one CLI invocation. Environment variables
// (optionally from a .env file) provide the defaults that flags override.
type Config struct {
	Input        string `validate:"required_without_all=Demo ShowRun HistoryLimit"`
	Demo         bool
	ShowRun      string
	HistoryLimit int    `validate:"gte=0"`
	Format       string `validate:"oneof=text json csv"`
	// Seed drives tie-breaking; zero picks a random seed.
	Seed   uint64
	Limits models.Limits

	DatabasePath    string `validate:"required_with=ShowRun HistoryLimit"`
	SlackWebhookURL string `validate:"omitempty,url"`

	MetricsAddr string
	PushURL     string `validate:"omitempty,url"`
	Wait        bool
	LogLevel    string `validate:"oneof=debug info warn error"`
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	limits := models.DefaultLimits()
	cfg := &Config{
		Input:           getEnv("ROSTER_FILE", ""),
		Format:          getEnv("OUTPUT_FORMAT", "text"),
		DatabasePath:    getEnv("DATABASE_PATH", ""),
		SlackWebhookURL: getEnv("SLACK_WEBHOOK_URL", ""),
		MetricsAddr:     getEnv("METRICS_ADDR", ""),
		PushURL:         getEnv("PUSH_URL", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.Seed, err = getEnvUint("SCHEDULE_SEED", 0); err != nil {
		return nil, err
	}
	if cfg.Limits.MinPerShift, err = getEnvInt("MIN_PER_SHIFT", limits.MinPerShift); err != nil {
		return nil, err
	}
	if cfg.Limits.MaxDaysPerEmployee, err = getEnvInt("MAX_DAYS_PER_EMPLOYEE", limits.MaxDaysPerEmployee); err != nil {
		return nil, err
	}
	if cfg.Limits.AssignmentPasses, err = getEnvInt("ASSIGNMENT_PASSES", limits.AssignmentPasses); err != nil {
		return nil, err
	}
	if cfg.Limits.PreferredShiftCap, err = getEnvInt("PREFERRED_SHIFT_CAP", limits.PreferredShiftCap); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the combined flag and environment settings.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// NewLogger builds a production zap logger writing to stderr at LogLevel.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = level
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	return zcfg.Build()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvUint(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
