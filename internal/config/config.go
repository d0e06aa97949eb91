package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

//go:embed data/default_config.toml
var defaultConfigTOML string

// EnvPrefix prefixes environment overrides, e.g. TEMPLATER_BROWSER_MODE
const EnvPrefix = "TEMPLATER"

// SettingsFileName is the settings document used when storage.path is empty
const SettingsFileName = "settings.json"

// Manager handles configuration loading and management
type Manager struct {
	v      *viper.Viper
	cfg    *Config
	logger *slog.Logger
	notice io.Writer
}

// NewManager creates a new configuration manager with default settings
func NewManager() *Manager {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Manager{
		v:      v,
		cfg:    &Config{}, // defaults loaded from embedded TOML in Load()
		notice: os.Stderr,
	}
}

// WithLogger sets the logger for the configuration manager
func (m *Manager) WithLogger(logger *slog.Logger) *Manager {
	m.logger = logger
	return m
}

// WithNotice sets where the one-time "created config" notice is written
func (m *Manager) WithNotice(w io.Writer) *Manager {
	m.notice = w
	return m
}

// Load loads configuration from the specified TOML file, merging with defaults
func (m *Manager) Load(configPath string) error {
	if m.logger != nil {
		m.logger.Debug("Attempting to load config file", "path", configPath)
	}

	m.v.SetConfigType("toml")

	if err := m.v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		return fmt.Errorf("failed to load embedded defaults: %w", err)
	}

	m.v.SetConfigFile(configPath)

	err := m.v.MergeInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		var pathError *os.PathError
		if !errors.As(err, &configFileNotFoundError) && !errors.As(err, &pathError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		if pathError != nil && !os.IsNotExist(pathError) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		if m.logger != nil {
			m.logger.Debug("Config file not found")
		}

		if err := m.createDefaultConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create default config file: %w", err)
		}

		// keep the path so later saves go to the new file
		m.v.SetConfigFile(configPath)
	} else if m.logger != nil {
		m.logger.Info("Configuration loaded successfully", "path", m.v.ConfigFileUsed())
	}

	if err := m.v.Unmarshal(m.cfg); err != nil {
		return fmt.Errorf("failed to decode configuration: %w", err)
	}

	return m.validate()
}

// Config returns the current configuration
func (m *Manager) Config() *Config {
	return m.cfg
}

// Viper returns the underlying Viper instance for flag binding
func (m *Manager) Viper() *viper.Viper {
	return m.v
}

// SettingsPath resolves storage.path: "~/" expands to the home directory, a relative
// path is taken from the config directory and empty means settings.json beside the config
func (m *Manager) SettingsPath() (string, error) {
	configDir := filepath.Dir(m.v.ConfigFileUsed())

	path := strings.TrimSpace(m.cfg.Storage.Path)
	switch {
	case path == "":
		return filepath.Join(configDir, SettingsFileName), nil
	case path == "~" || strings.HasPrefix(path, "~/"):
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	case filepath.IsAbs(path):
		return path, nil
	default:
		return filepath.Join(configDir, path), nil
	}
}

// Save writes the current configuration state back to the config file
func (m *Manager) Save() error {
	configFile := m.v.ConfigFileUsed()
	if configFile == "" {
		return fmt.Errorf("no config file path set")
	}

	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := m.v.SafeWriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	} else {
		if err := m.v.WriteConfigAs(configFile); err != nil {
			return fmt.Errorf("failed to update config file: %w", err)
		}
	}

	if err := m.v.Unmarshal(m.cfg); err != nil {
		return fmt.Errorf("failed to reload configuration after save: %w", err)
	}

	return nil
}

// NewDefaultFromEmbedded creates a Config struct populated from embedded TOML
func NewDefaultFromEmbedded() *Config {
	v := viper.New()
	v.SetConfigType("toml")

	if err := v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
		panic(fmt.Sprintf("failed to load embedded defaults: %v", err))
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal embedded config: %v", err))
	}
	return cfg
}

// validate checks loaded values against the schema
func (m *Manager) validate() error {
	schema := DefaultConfigSchema()

	checks := map[string]interface{}{
		"browser.mode":      m.cfg.Browser.Mode,
		"watch.debounce_ms": m.cfg.Watch.DebounceMS,
	}
	for _, path := range []string{"browser.mode", "watch.debounce_ms"} {
		if err := schema.ValidateValue(path, checks[path]); err != nil {
			return fmt.Errorf("invalid %s: %w", path, err)
		}
	}
	return nil
}

// createDefaultConfigFile creates the default config.toml file if it doesn't exist
func (m *Manager) createDefaultConfigFile(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigTOML), 0600); err != nil {
		return fmt.Errorf("failed to write default config file: %w", err)
	}

	if m.notice != nil {
		fmt.Fprintf(m.notice, "Created default config.toml at %s\n", configPath)
	}
	if m.logger != nil {
		m.logger.Info("Created default config file", "path", configPath)
	}

	return nil
}
