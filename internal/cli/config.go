// Config loading for the protrack CLI.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyListen  = "listen"
	cfgKeyModel   = "model"

	// Defaults.
	defaultBackend = "disk"
	defaultListen  = "127.0.0.1:8470"
	defaultModel   = "gemini-2.5-flash"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# ProTrack configuration

# Storage backend: disk or sqlite
backend: disk

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# HTTP listen address for the serve command
listen: 127.0.0.1:8470

# Gemini model used for weekly reports
model: gemini-2.5-flash
`

// newDefaultConfig returns a viper instance carrying only the defaults,
// used before PersistentPreRunE has loaded config.yaml.
func newDefaultConfig() *viper.Viper {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetDefault(cfgKeyModel, defaultModel)
	return v
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := newDefaultConfig()
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
