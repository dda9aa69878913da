// Package config loads weekdo settings.
//
// Values are resolved in priority order:
//  1. Defaults
//  2. Config file (weekdo.toml / weekdo.yaml in the working directory or the
//     user config dir, or an explicit --config path)
//  3. Environment variables (WEEKDO_DATA_FILE, WEEKDO_ADDR, ...)
//  4. Command-line flags bound by the caller
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable.
const EnvPrefix = "WEEKDO"

// FileName is the config file name without extension.
const FileName = "weekdo"

// Config holds all settings.
type Config struct {
	DataFile  string `mapstructure:"data_file" toml:"data_file" yaml:"data_file" json:"data_file"`
	Addr      string `mapstructure:"addr" toml:"addr" yaml:"addr" json:"addr"`
	BasePath  string `mapstructure:"base_path" toml:"base_path" yaml:"base_path" json:"base_path"`
	Dashboard bool   `mapstructure:"dashboard" toml:"dashboard" yaml:"dashboard" json:"dashboard"`
	Watch     bool   `mapstructure:"watch" toml:"watch" yaml:"watch" json:"watch"`

	LogFile       string `mapstructure:"log_file" toml:"log_file" yaml:"log_file" json:"log_file"`
	LogMaxSizeMB  int    `mapstructure:"log_max_size_mb" toml:"log_max_size_mb" yaml:"log_max_size_mb" json:"log_max_size_mb"`
	LogMaxBackups int    `mapstructure:"log_max_backups" toml:"log_max_backups" yaml:"log_max_backups" json:"log_max_backups"`
	LogMaxAgeDays int    `mapstructure:"log_max_age_days" toml:"log_max_age_days" yaml:"log_max_age_days" json:"log_max_age_days"`
	LogCompress   bool   `mapstructure:"log_compress" toml:"log_compress" yaml:"log_compress" json:"log_compress"`

	NoColor bool `mapstructure:"no_color" toml:"no_color" yaml:"no_color" json:"no_color"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DataFile:      filepath.Join("data", "todos.json"),
		Addr:          ":3000",
		BasePath:      "/todos",
		Dashboard:     true,
		Watch:         true,
		LogMaxSizeMB:  10,
		LogMaxBackups: 3,
		LogMaxAgeDays: 28,
	}
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()

	d := Defaults()
	v.SetDefault("data_file", d.DataFile)
	v.SetDefault("addr", d.Addr)
	v.SetDefault("base_path", d.BasePath)
	v.SetDefault("dashboard", d.Dashboard)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("log_file", d.LogFile)
	v.SetDefault("log_max_size_mb", d.LogMaxSizeMB)
	v.SetDefault("log_max_backups", d.LogMaxBackups)
	v.SetDefault("log_max_age_days", d.LogMaxAgeDays)
	v.SetDefault("log_compress", d.LogCompress)
	v.SetDefault("no_color", d.NoColor)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the config file (if any) into v and returns the merged settings.
// When file is empty the standard locations are searched and a missing file
// is not an error.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if dir := UserConfigDir(); dir != "" {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that would make the server unusable.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return fmt.Errorf("data_file must not be empty")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr must not be empty")
	}
	if c.BasePath == "" || !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("base_path must start with / (got %q)", c.BasePath)
	}
	if c.LogMaxSizeMB < 0 || c.LogMaxBackups < 0 || c.LogMaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	return nil
}

// UserConfigDir returns the per-user config directory for weekdo, or "".
func UserConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, FileName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", FileName)
}

// WriteTOML writes cfg to path. An existing file is only replaced when force is set.
func WriteTOML(path string, cfg Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return f.Close()
}
