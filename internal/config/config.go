package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Amazon contains credentials and endpoint settings for the Product
// Advertising API.
type Amazon struct {
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	PartnerTag     string `toml:"partner_tag"`
	Host           string `toml:"host"`
	Region         string `toml:"region"`
	Marketplace    string `toml:"marketplace"`
	SearchIndex    string `toml:"search_index"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Enrich contains defaults for the batch enrichment run. Every field can be
// overridden per run with a CLI flag.
type Enrich struct {
	Category           string  `toml:"category"`
	Limit              int     `toml:"limit"`
	DelaySeconds       float64 `toml:"delay_seconds"`
	ItemCount          int     `toml:"item_count"`
	OnlyMissing        bool    `toml:"only_missing"`
	RequireFilterMatch bool    `toml:"require_filter_match"`
	ProgressFile       string  `toml:"progress_file"`
}

// API contains configuration for the catalog query HTTP server.
type API struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for partscout.
//
// Configuration sections by subsystem:
//   - Paths: catalog database and log directories
//   - Amazon: PA-API credentials, endpoint, and marketplace
//   - Enrich: batch run defaults (category, limit, inter-call delay)
//   - API: catalog query server bind address
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Amazon  Amazon  `toml:"amazon"`
	Enrich  Enrich  `toml:"enrich"`
	API     API     `toml:"api"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/partscout/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("partscout.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for CLI operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the catalog SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "catalog.db")
}

// ProgressPath returns the location of the enrichment progress ledger.
func (c *Config) ProgressPath() string {
	if strings.TrimSpace(c.Enrich.ProgressFile) != "" {
		return c.Enrich.ProgressFile
	}
	return filepath.Join(c.Paths.DataDir, "enrich_progress.json")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
