package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/five82/galley/internal/recipes"
	"github.com/five82/galley/internal/state"
)

// Config holds everything galley reads at startup.
type Config struct {
	APIURL    string        `mapstructure:"api_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	PageSize  int           `mapstructure:"page_size"`
	PageSizes []int         `mapstructure:"page_sizes"`
	Log       LogConfig     `mapstructure:"log"`

	// Path is the config file that was read, or "" when defaults were used.
	Path string `mapstructure:"-"`
}

// LogConfig configures the file logger.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

const (
	defaultConfigPath = "~/.config/galley/config.toml"
	defaultLogFile    = "~/.local/share/galley/galley.log"
	defaultLogLevel   = "info"
	defaultTimeout    = 5 * time.Second
	envPrefix         = "GALLEY"
)

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"api":       "api_url",
	"timeout":   "timeout",
	"log-level": "log.level",
	"log-file":  "log.file",
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIURL:    recipes.DefaultBaseURL,
		Timeout:   defaultTimeout,
		PageSize:  state.DefaultLimit,
		PageSizes: slices.Clone(state.DefaultLimitOptions),
		Log: LogConfig{
			File:  mustExpand(defaultLogFile),
			Level: defaultLogLevel,
		},
	}
}

// Load reads the config file at path (or the default location), applies
// GALLEY_* environment overrides and any changed flags, then validates the
// result. A missing file is not an error.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	def := Default()
	v.SetDefault("api_url", def.APIURL)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("page_size", def.PageSize)
	v.SetDefault("page_sizes", def.PageSizes)
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.level", def.Log.Level)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	v.SetConfigFile(resolved)
	v.SetConfigType("toml")
	used := resolved
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		used = ""
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Path = used
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() error {
	c.APIURL = strings.TrimSpace(c.APIURL)
	if c.APIURL == "" {
		c.APIURL = recipes.DefaultBaseURL
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid config: timeout must be positive, got %s", c.Timeout)
	}

	sizes := make([]int, 0, len(c.PageSizes))
	for _, n := range c.PageSizes {
		if n <= 0 {
			return fmt.Errorf("invalid config: page_sizes must be positive, got %d", n)
		}
		if !slices.Contains(sizes, n) {
			sizes = append(sizes, n)
		}
	}
	if len(sizes) == 0 {
		sizes = slices.Clone(state.DefaultLimitOptions)
	}
	slices.Sort(sizes)
	c.PageSizes = sizes
	if !slices.Contains(c.PageSizes, c.PageSize) {
		return fmt.Errorf("invalid config: page_size %d is not one of %v", c.PageSize, c.PageSizes)
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = defaultLogLevel
	}
	file := strings.TrimSpace(c.Log.File)
	if file == "" {
		file = defaultLogFile
	}
	c.Log.File = mustExpand(file)
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
