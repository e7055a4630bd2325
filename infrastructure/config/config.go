package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Prefix of the environment variables read by Load.
const Prefix = "PAGEPRISM"

// Driver kinds.
const (
	DriverSelenium   = "selenium"
	DriverPlaywright = "playwright"
	DriverRod        = "rod"
)

// Config is read from PAGEPRISM_* variables. BROWSER_DRIVER_PATH and
// CHROME_BINARY_PATH are also accepted without the prefix; no other bare
// name is read.
type Config struct {
	Driver         string        `split_words:"true" default:"selenium"`
	SeleniumURL    string        `split_words:"true"`
	DriverPath     string        `envconfig:"BROWSER_DRIVER_PATH"`
	ChromeBinary   string        `envconfig:"CHROME_BINARY_PATH"`
	DriverPort     int           `split_words:"true" default:"9515"`
	Headless       bool          `split_words:"true" default:"true"`
	DefaultTimeout time.Duration `split_words:"true" default:"10s"`
	LogLevel       string        `split_words:"true" default:"info"`
	ReportDir      string        `split_words:"true"`
}

// Load reads the optional env files (".env" when none are given) and then
// the environment. Variables already set win over file entries.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ReportDir == "" {
		cfg.ReportDir = defaultReportDir()
	}
	return &cfg, nil
}

// Validate checks the driver kind, log level and timeout.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSelenium, DriverPlaywright, DriverRod:
	default:
		return fmt.Errorf("unknown driver %q (want %s, %s or %s)", c.Driver, DriverSelenium, DriverPlaywright, DriverRod)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.DefaultTimeout <= 0 {
		return fmt.Errorf("default timeout must be positive, got %s", c.DefaultTimeout)
	}
	return nil
}

// NewLogger - creates the logger described by the config
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

func defaultReportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".pageprism", "reports")
}
