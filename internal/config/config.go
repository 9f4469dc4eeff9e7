package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultServerURL points at a locally running portal backend
	DefaultServerURL = "http://localhost:8000/api/v1"
	// DefaultTimeout bounds every API call
	DefaultTimeout = 15 * time.Second

	configName = ".gatectl"
	envPrefix  = "GATECTL"
)

// Config represents the application configuration
type Config struct {
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`
	Tenant TenantConfig `json:"tenant" yaml:"tenant" mapstructure:"tenant"`
	Auth   AuthConfig   `json:"auth" yaml:"auth" mapstructure:"auth"`
	Format FormatConfig `json:"format" yaml:"format" mapstructure:"format"`
}

// ServerConfig contains server connection settings
type ServerConfig struct {
	URL     string `json:"url" yaml:"url" mapstructure:"url"`
	Timeout string `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// TenantConfig selects the community the CLI talks to
type TenantConfig struct {
	Slug string `json:"slug" yaml:"slug" mapstructure:"slug"`
	Host string `json:"host" yaml:"host" mapstructure:"host"`
}

// AuthConfig contains the persisted session credential
type AuthConfig struct {
	Email string `json:"email" yaml:"email" mapstructure:"email"`
	Token string `json:"token" yaml:"token" mapstructure:"token"`
}

// FormatConfig contains output formatting settings
type FormatConfig struct {
	Default string `json:"default" yaml:"default" mapstructure:"default"`
	Colors  bool   `json:"colors" yaml:"colors" mapstructure:"colors"`
}

// RequestTimeout parses Server.Timeout, falling back to DefaultTimeout
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.Timeout)
	if err != nil || d <= 0 {
		return DefaultTimeout
	}
	return d
}

var (
	mu           sync.RWMutex
	globalConfig *Config
	// fileConfig holds only what the config file says; it is what save writes
	fileConfig   *Config
	configPath   string
	debug        bool
	outputFormat string
)

// Initialize loads the configuration from file. An empty configFile means
// $HOME/.gatectl.yaml, which is created with defaults when missing.
func Initialize(configFile string) error {
	mu.Lock()
	defer mu.Unlock()

	v := viper.New()
	if configFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get home directory: %w", err)
		}
		configFile = filepath.Join(home, configName+".yaml")
	}
	configPath = configFile
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	// Environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("could not read config file: %w", err)
		}
		if err := createDefaultConfig(configFile); err != nil {
			return fmt.Errorf("could not create default config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("could not unmarshal config: %w", err)
	}
	onDisk, err := readFile(configFile)
	if err != nil {
		return err
	}
	globalConfig = cfg
	fileConfig = onDisk

	return nil
}

// readFile decodes the config file over the defaults, without environment
// overrides
func readFile(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.url", DefaultServerURL)
	v.SetDefault("server.timeout", DefaultTimeout.String())
	v.SetDefault("tenant.slug", "")
	v.SetDefault("tenant.host", "")
	v.SetDefault("auth.email", "")
	v.SetDefault("auth.token", "")
	v.SetDefault("format.default", "table")
	v.SetDefault("format.colors", true)
}

// defaultConfig returns the configuration written on first run
func defaultConfig() Config {
	return Config{
		Server: ServerConfig{
			URL:     DefaultServerURL,
			Timeout: DefaultTimeout.String(),
		},
		Format: FormatConfig{
			Default: "table",
			Colors:  true,
		},
	}
}

// createDefaultConfig creates a default configuration file
func createDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Get returns the global configuration
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig == nil {
		cfg := defaultConfig()
		globalConfig = &cfg
	}
	return globalConfig
}

// Path returns the config file in use
func Path() string {
	mu.RLock()
	defer mu.RUnlock()
	return configPath
}

// save writes fileConfig back. Environment overrides live only in
// globalConfig and never reach the file.
func save() error {
	if fileConfig == nil || configPath == "" {
		return fmt.Errorf("configuration not initialized")
	}

	data, err := yaml.Marshal(fileConfig)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0o600)
}

// SetDebug sets the debug mode
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	debug = enabled
}

// IsDebug returns whether debug mode is enabled
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debug
}

// SetOutputFormat sets the output format
func SetOutputFormat(format string) {
	mu.Lock()
	defer mu.Unlock()
	outputFormat = format
}

// GetOutputFormat returns the current output format
func GetOutputFormat() string {
	mu.RLock()
	defer mu.RUnlock()
	if outputFormat != "" {
		return outputFormat
	}
	if globalConfig != nil && globalConfig.Format.Default != "" {
		return globalConfig.Format.Default
	}
	return "table"
}

// UpdateToken persists the session credential and the email it belongs to
func UpdateToken(email, token string) error {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig == nil || fileConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}

	for _, cfg := range []*Config{globalConfig, fileConfig} {
		cfg.Auth.Email = email
		cfg.Auth.Token = token
	}

	return save()
}

// ClearAuth clears the persisted session credential
func ClearAuth() error {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig == nil || fileConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}

	for _, cfg := range []*Config{globalConfig, fileConfig} {
		cfg.Auth = AuthConfig{}
	}

	return save()
}

// Token returns the persisted session credential
func Token() string {
	mu.RLock()
	defer mu.RUnlock()
	if globalConfig == nil {
		return ""
	}
	return globalConfig.Auth.Token
}

// SetTenant records the default tenant slug
func SetTenant(slug string) error {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig == nil || fileConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}

	globalConfig.Tenant.Slug = slug
	fileConfig.Tenant.Slug = slug

	return save()
}
