// Package config handles loading and saving application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/hy4ri/tuidoist/internal/api"
	"github.com/hy4ri/tuidoist/internal/logging"
)

// AppName names the config directory and keyring service.
const AppName = "tuidoist"

// fileNames are tried in order inside the config directory.
var fileNames = []string{"config.yaml", "config.yml", "config.toml"}

// Config represents the application configuration.
type Config struct {
	APIToken string         `mapstructure:"api_token" yaml:"api_token,omitempty"`
	Log      logging.Config `mapstructure:"log" yaml:"log"`
	UI       UIConfig       `mapstructure:"ui" yaml:"ui"`
	API      APIConfig      `mapstructure:"api" yaml:"api"`

	path string
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	ShowDetails bool `mapstructure:"show_details" yaml:"show_details"`
	VimMode     bool `mapstructure:"vim_mode" yaml:"vim_mode"`
}

// APIConfig tunes the Todoist client.
type APIConfig struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gt=0"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute" yaml:"requests_per_minute" validate:"min=1,max=1000"`
}

var validate = validator.New()

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_token", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", logging.DefaultFile)
	v.SetDefault("ui.show_details", false)
	v.SetDefault("ui.vim_mode", true)
	v.SetDefault("api.base_url", api.BaseURL)
	v.SetDefault("api.timeout", api.DefaultTimeout)
	v.SetDefault("api.requests_per_minute", api.DefaultRequestsPerMinute)
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Dir returns the configuration directory: $XDG_CONFIG_HOME/tuidoist or
// ~/.config/tuidoist. It is not created.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultPath is where Save writes when no file was loaded.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileNames[0]), nil
}

// find returns the config file to read, or "" when there is none.
// An explicit path must exist.
func find(override string) (string, error) {
	if override != "" {
		path, err := homedir.Expand(override)
		if err != nil {
			return "", fmt.Errorf("invalid config path %q: %w", override, err)
		}
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	dir, err := Dir()
	if err != nil {
		return "", err
	}
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// Load reads the configuration. override names a file to use instead of the
// config directory and may start with ~. A missing default file yields the
// defaults.
func Load(override string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	path, err := find(override)
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := validate.Struct(&cfg.API); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return nil, fmt.Errorf("invalid config: api.%s fails %q", verrs[0].Field(), verrs[0].Tag())
		}
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.path = path
	return &cfg, nil
}

// Path returns the file the config was loaded from, or "".
func (c *Config) Path() string {
	return c.path
}

// Save writes the configuration as YAML to path, or to the file it was
// loaded from when path is empty. TOML files are never rewritten; their
// directory gets a config.yaml, which takes precedence on the next load.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		path = cfg.path
	}
	if path == "" || filepath.Ext(path) == ".toml" {
		def, err := DefaultPath()
		if err != nil {
			return "", err
		}
		if path != "" {
			def = filepath.Join(filepath.Dir(path), fileNames[0])
		}
		path = def
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to serialize config: %w", err)
	}

	// Write with restricted permissions (owner read/write only)
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	cfg.path = path
	return path, nil
}

// ClientOptions converts the api section for api.NewClientWithOptions.
func (c *Config) ClientOptions() api.Options {
	return api.Options{
		BaseURL:           c.API.BaseURL,
		Timeout:           c.API.Timeout,
		RequestsPerMinute: c.API.RequestsPerMinute,
	}
}
