// Package config loads the appdeck configuration file. A default config.yaml
// is written to the config directory on first run; every key can be
// overridden through APPDECK_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/appdeck/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	envPrefix = "APPDECK"
)

// Config keys.
const (
	keyBackend        = "backend"
	keyDataDir        = "data_dir"
	keyServerAddress  = "server.address"
	keyServerOrigins  = "server.cors_origins"
	keyRemoteBaseURL  = "remote.base_url"
	keySheetsSheetID  = "sheets.spreadsheet_id"
	keySheetsToken    = "sheets.token"
	keySheetsBaseURL  = "sheets.base_url"
)

// Defaults.
const (
	defaultBackend       = types.BackendSQLite
	defaultServerAddress = ":8090"
	defaultRemoteBaseURL = "http://localhost:8090"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# appdeck configuration

# Storage backend: sqlite or sheets
backend: sqlite

# Data directory for the sqlite backend and local state
# data_dir:

server:
  address: ":8090"
  # cors_origins:
  #   - http://localhost:3000

# Server the CLI subcommands talk to
remote:
  base_url: http://localhost:8090

# Required when backend is sheets
sheets:
  # spreadsheet_id:
  # token:
`

// Config is the loaded application configuration.
type Config struct {
	Backend string
	DataDir string

	Server struct {
		Address     string
		CORSOrigins []string
	}

	Remote struct {
		BaseURL string
	}

	Sheets types.SheetsConfig
}

// StoreConfig maps the loaded configuration onto the store attach config.
func (c *Config) StoreConfig() types.Config {
	return types.Config{
		Backend: c.Backend,
		DataDir: c.DataDir,
		Sheets:  c.Sheets,
	}
}

// Load reads config.yaml from configDir, creating the directory and a
// default file on first run. A missing config.yaml is not an error; defaults
// and environment variables still apply.
func Load(configDir string) (*Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(keyBackend, defaultBackend)
	v.SetDefault(keyServerAddress, defaultServerAddress)
	v.SetDefault(keyRemoteBaseURL, defaultRemoteBaseURL)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		Backend: v.GetString(keyBackend),
		DataDir: v.GetString(keyDataDir),
	}
	cfg.Server.Address = v.GetString(keyServerAddress)
	cfg.Server.CORSOrigins = v.GetStringSlice(keyServerOrigins)
	cfg.Remote.BaseURL = v.GetString(keyRemoteBaseURL)
	cfg.Sheets = types.SheetsConfig{
		SpreadsheetID: v.GetString(keySheetsSheetID),
		Token:         v.GetString(keySheetsToken),
		BaseURL:       v.GetString(keySheetsBaseURL),
	}
	return cfg, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
