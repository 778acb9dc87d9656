// ABOUTME: Importer configuration: site credentials, ledger location, and request log settings
// ABOUTME: Reads an XDG config file, then .env and environment overrides, and validates the result
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// AppName names the XDG directories used by the importer.
const AppName = "clientify"

// Config holds the Chargify site credentials and local file locations.
type Config struct {
	Subdomain         string `json:"subdomain" validate:"required,hostname_rfc1123,excludes=."`
	APIKey            string `json:"api_key" validate:"required"`
	DisableRequestLog bool   `json:"disable_request_log,omitempty"`
	LogFile           string `json:"log_file,omitempty"`
	LedgerPath        string `json:"ledger_path,omitempty"`
}

// Dir returns the XDG config directory for the importer.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Path returns the XDG path of the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

// DefaultLedgerPath is where the import ledger lives unless configured.
func DefaultLedgerPath() string {
	return filepath.Join(xdg.DataHome, AppName, "ledger.db")
}

// DefaultLogFile is where request/response pairs are logged unless configured.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, AppName, "import.log")
}

// Load reads the config file (missing is fine), then a .env file in the
// working directory, then environment variables, which win:
// - CLIENTIFY_SUBDOMAIN
// - CLIENTIFY_API_KEY
// - CLIENTIFY_LOG_FILE
// - CLIENTIFY_REQUEST_LOG ("false" or "0" disables)
// - CLIENTIFY_LEDGER_PATH.
// Load does not validate.
func Load() (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(Path())
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	return cfg, nil
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// replacing variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if subdomain := os.Getenv("CLIENTIFY_SUBDOMAIN"); subdomain != "" {
		cfg.Subdomain = subdomain
	}
	if key := os.Getenv("CLIENTIFY_API_KEY"); key != "" {
		cfg.APIKey = key
	}
	if logFile := os.Getenv("CLIENTIFY_LOG_FILE"); logFile != "" {
		cfg.LogFile = logFile
	}
	if requestLog := os.Getenv("CLIENTIFY_REQUEST_LOG"); requestLog != "" {
		cfg.DisableRequestLog = requestLog == "false" || requestLog == "0"
	}
	if ledger := os.Getenv("CLIENTIFY_LEDGER_PATH"); ledger != "" {
		cfg.LedgerPath = ledger
	}
}

func applyDefaults(cfg *Config) {
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile()
	}
	if cfg.LedgerPath == "" {
		cfg.LedgerPath = DefaultLedgerPath()
	}
}

// Save writes cfg to the XDG config path with owner-only permissions.
func Save(cfg *Config) error {
	path := Path()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate checks that the site credentials are present and well formed.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// RequestLogEnabled reports whether API traffic should be logged to LogFile.
func (c *Config) RequestLogEnabled() bool {
	return !c.DisableRequestLog && c.LogFile != ""
}

// MaskedAPIKey shows only the last four characters of the API key.
func (c *Config) MaskedAPIKey() string {
	if len(c.APIKey) <= 4 {
		return "****"
	}
	return "****" + c.APIKey[len(c.APIKey)-4:]
}
