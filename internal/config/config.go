// Package config loads the YAML configuration used by the eprimport command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
// Values are loaded from YAML and can be overridden by environment variables.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Import  ImportConfig  `yaml:"import"`
	Catalog CatalogConfig `yaml:"catalog"`
	Export  ExportConfig  `yaml:"export"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ImportConfig controls how datasets are imported.
type ImportConfig struct {
	// Jobs is the number of file sets imported concurrently by batch commands.
	Jobs int `yaml:"jobs"`

	// InfoFile enables loading the sibling .info file when present.
	InfoFile bool `yaml:"info_file"`

	// NormalizeUnits converts gauss, Hz and W readings to mT, GHz/kHz and mW.
	NormalizeUnits bool `yaml:"normalize_units"`

	// TextAxisUnit is the field unit assumed for plain text and CSV files.
	TextAxisUnit string `yaml:"text_axis_unit"`
}

// CatalogConfig contains the SQLite import catalog settings.
type CatalogConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// ExportConfig controls the text/YAML export written after import.
type ExportConfig struct {
	Directory string `yaml:"directory"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// An empty path skips step 2. Environment variables follow the pattern
// EPR_SECTION_KEY, for example EPR_LOGGING_LEVEL or EPR_CATALOG_PATH.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Import: ImportConfig{
			Jobs:           4,
			InfoFile:       true,
			NormalizeUnits: true,
			TextAxisUnit:   "mT",
		},
		Catalog: CatalogConfig{
			Path:        "./data/epr-catalog.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EPR_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("EPR_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("EPR_IMPORT_JOBS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Import.Jobs = n
		}
	}
	if v := os.Getenv("EPR_IMPORT_TEXT_AXIS_UNIT"); v != "" {
		cfg.Import.TextAxisUnit = v
	}
	if v := os.Getenv("EPR_CATALOG_PATH"); v != "" {
		cfg.Catalog.Path = v
	}
	if v := os.Getenv("EPR_CATALOG_ENABLED"); v != "" {
		cfg.Catalog.Enabled = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("EPR_EXPORT_DIRECTORY"); v != "" {
		cfg.Export.Directory = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format))
	}
	if c.Import.Jobs < 1 {
		errs = append(errs, fmt.Errorf("import.jobs must be at least 1, got %d", c.Import.Jobs))
	}
	if c.Catalog.Enabled && c.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog.path is required when the catalog is enabled"))
	}
	if c.Catalog.BusyTimeout < 0 {
		errs = append(errs, fmt.Errorf("catalog.busy_timeout cannot be negative, got %d", c.Catalog.BusyTimeout))
	}
	return errors.Join(errs...)
}
