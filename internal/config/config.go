// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/naka-gawa/commit-name-finder/internal/domain"
	"github.com/naka-gawa/commit-name-finder/internal/report"
)

// ErrMissingUser is returned by Validate when no user was given.
var ErrMissingUser = errors.New("a GitHub user name is required")

// Config holds the settings of a single run. Load fills in environment
// defaults; command-line flags override them before Validate is called.
type Config struct {
	User         string
	Token        string
	IncludeForks bool
	Timeout      time.Duration
	Output       report.Format
	Verbose      bool
}

// Load reads defaults from environment variables:
// GITHUB_TOKEN (optional credential), COMMIT_NAME_FINDER_TIMEOUT (run deadline,
// default none) and COMMIT_NAME_FINDER_OUTPUT (default text).
func Load() (*Config, error) {
	cfg := &Config{
		Token:  os.Getenv("GITHUB_TOKEN"),
		Output: report.FormatText,
	}

	if v, ok := os.LookupEnv("COMMIT_NAME_FINDER_TIMEOUT"); ok && v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("COMMIT_NAME_FINDER_TIMEOUT has invalid duration %q: %w", v, err)
		}
		cfg.Timeout = parsed
	}

	if v, ok := os.LookupEnv("COMMIT_NAME_FINDER_OUTPUT"); ok && v != "" {
		format, err := report.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("COMMIT_NAME_FINDER_OUTPUT: %w", err)
		}
		cfg.Output = format
	}

	return cfg, nil
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.User) == "" {
		return ErrMissingUser
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if _, err := report.ParseFormat(string(c.Output)); err != nil {
		return err
	}
	return nil
}

// ScanConfig returns the immutable part of the configuration used by a run.
func (c *Config) ScanConfig() domain.ScanConfig {
	return domain.ScanConfig{
		Identity: domain.Identity{
			Username: strings.TrimSpace(c.User),
			Token:    c.Token,
		},
		IncludeForks: c.IncludeForks,
	}
}
