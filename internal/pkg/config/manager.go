package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigDir is the directory under the home directory holding diffcommit state.
	DefaultConfigDir = ".diffcommit"
	// DefaultConfigFileExt is the default config file extension.
	DefaultConfigFileExt = "yaml"
	// EnvPrefix is prepended to every environment variable override.
	EnvPrefix = "DIFFCOMMIT"
)

// ViperManager implements the Manager interface using Viper.
type ViperManager struct {
	v          *viper.Viper
	configPath string
}

// NewManager creates a new configuration manager.
// If configPath is empty, it uses the default path (~/.diffcommit/config.yaml).
func NewManager(configPath string) (*ViperManager, error) {
	v := viper.New()

	v.SetConfigType(DefaultConfigFileExt)

	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(homeDir, DefaultConfigDir, "config.yaml")
	}

	v.SetConfigFile(configPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults first (required for env binding to work with nested keys)
	setDefaults(v)
	bindEnvVars(v)

	return &ViperManager{
		v:          v,
		configPath: configPath,
	}, nil
}

// envKeys lists every key that can be overridden from the environment.
var envKeys = []string{
	"provider",
	"model",
	"max_tokens",
	"temperature",
	"allowed_types",
	"custom_instructions",
	"endpoint",
	"openai.model",
	"openai.endpoint",
	"ollama.hostname",
	"ollama.model",
	"git.staged",
	"git.message_file",
	"ui.editor",
	"ui.color_enabled",
	"history.enabled",
	"history.max_entries",
	"history.file_path",
}

// bindEnvVars explicitly binds environment variables for all config keys.
// Viper's AutomaticEnv doesn't see nested keys during Unmarshal.
func bindEnvVars(v *viper.Viper) {
	for _, key := range envKeys {
		_ = v.BindEnv(key, EnvName(key))
	}
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// setDefaults sets the default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", string(DefaultProvider))
	v.SetDefault("model", DefaultModel)
	v.SetDefault("max_tokens", DefaultMaxTokens)
	v.SetDefault("temperature", DefaultTemperature)
	v.SetDefault("allowed_types", DefaultAllowedTypes)
	v.SetDefault("custom_instructions", "")
	v.SetDefault("endpoint", "")

	v.SetDefault("openai.model", DefaultOpenAIModel)
	v.SetDefault("openai.endpoint", "")

	v.SetDefault("ollama.hostname", DefaultOllamaHost)
	v.SetDefault("ollama.model", "")

	v.SetDefault("git.staged", true)
	v.SetDefault("git.message_file", "")

	v.SetDefault("ui.editor", "")
	v.SetDefault("ui.color_enabled", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.max_entries", DefaultHistoryLength)
	homeDir, _ := os.UserHomeDir()
	v.SetDefault("history.file_path", filepath.Join(homeDir, DefaultConfigDir, "history.json"))
}

// LoadDotEnv loads a .env file from dir into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	envPath := filepath.Join(dir, ".env")
	if _, err := os.Stat(envPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", envPath, err)
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("failed to load %s: %w", envPath, err)
	}
	return nil
}

// isNotFound reports whether a ReadInConfig error only means the file is missing.
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) || os.IsNotExist(err)
}

// GetConfigPath returns the path to the configuration file.
func (m *ViperManager) GetConfigPath() string {
	return m.configPath
}

// readConfig reads the config file, tolerating its absence.
func (m *ViperManager) readConfig() error {
	if err := m.v.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// Load loads the configuration from file, environment, and defaults.
// Priority: flags > env > file > defaults
func (m *ViperManager) Load() (*Config, error) {
	if err := m.readConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := m.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if !Provider(cfg.Provider).Valid() {
		return nil, fmt.Errorf("unknown provider %q (expected anthropic, openai or ollama)", cfg.Provider)
	}

	return &cfg, nil
}

// Init creates a new configuration file with default values.
// Sets file permissions to 0600 for security.
func (m *ViperManager) Init() error {
	if _, err := os.Stat(m.configPath); err == nil {
		return fmt.Errorf("config file already exists at %s", m.configPath)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.v.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return nil
}

// Set sets a configuration value by key.
// Supports nested keys using dot notation (e.g., "ollama.model").
func (m *ViperManager) Set(key string, value string) error {
	if err := m.readConfig(); err != nil {
		return err
	}

	convertedValue, err := convertValue(value, m.v.Get(key))
	if err != nil {
		return fmt.Errorf("failed to convert value for key %s: %w", key, err)
	}

	return m.SetMany(map[string]interface{}{key: convertedValue})
}

// SetMany persists several keys with a single write of the config file.
// Either every key lands on disk or none does. Only file values and the
// given keys are written, so flag and env overrides never persist.
func (m *ViperManager) SetMany(values map[string]interface{}) error {
	fileV := viper.New()
	fileV.SetConfigType(DefaultConfigFileExt)
	fileV.SetConfigFile(m.configPath)
	if err := fileV.ReadInConfig(); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fileV.Set(k, values[k])
	}

	if err := fileV.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Chmod(m.configPath, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	return m.readConfig()
}

// convertValue converts a string value to the appropriate type based on the existing value type.
func convertValue(value string, existingValue interface{}) (interface{}, error) {
	if existingValue == nil {
		return value, nil
	}

	switch existingValue.(type) {
	case bool:
		return strconv.ParseBool(value)
	case int, int64:
		return strconv.ParseInt(value, 10, 64)
	case float32, float64:
		return strconv.ParseFloat(value, 64)
	case []interface{}, []string:
		// For arrays, split by comma
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	default:
		return value, nil
	}
}

// Get retrieves a configuration value by key.
func (m *ViperManager) Get(key string) (string, error) {
	if err := m.readConfig(); err != nil {
		return "", err
	}

	if !m.v.IsSet(key) {
		return "", fmt.Errorf("key not found: %s", key)
	}

	value := m.v.Get(key)
	switch value.(type) {
	case []string, []interface{}:
		return strings.Join(m.v.GetStringSlice(key), ","), nil
	}
	return fmt.Sprintf("%v", value), nil
}

// List returns all configuration values as a map.
func (m *ViperManager) List() map[string]interface{} {
	// Ignore errors, use defaults
	_ = m.readConfig()

	return m.v.AllSettings()
}

// SetOverride sets a temporary override for a configuration key.
// This is used for command-line flag overrides that shouldn't persist.
func (m *ViperManager) SetOverride(key string, value interface{}) {
	m.v.Set(key, value)
}

// ConfigExists checks if the configuration file exists.
func (m *ViperManager) ConfigExists() bool {
	_, err := os.Stat(m.configPath)
	return err == nil
}
