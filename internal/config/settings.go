package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. EXCEL_VALIDATOR_LOG_LEVEL.
const EnvPrefix = "EXCEL_VALIDATOR"

// DefaultMaxFileSize is the largest source file that is annotated without
// an explicit override (10 MiB).
const DefaultMaxFileSize int64 = 10485760

// Settings holds the runtime knobs that are not part of the rule file.
type Settings struct {
	MaxFileSize   int64       `mapstructure:"max_file_size"`
	FillColor     string      `mapstructure:"fill_color"`
	WriteMessages bool        `mapstructure:"write_messages"`
	Log           LogSettings `mapstructure:"log"`
}

// LogSettings configures the structured logger.
type LogSettings struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

var hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// LoadSettings reads defaults, an optional settings file and environment
// overrides, in increasing order of precedence.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading settings from %s: %w", path, err)
		}
	}

	// Environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unmarshaling settings: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("max_file_size", DefaultMaxFileSize)
	v.SetDefault("fill_color", "FFFF0000")
	v.SetDefault("write_messages", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// Validate checks that the settings have usable values.
func (s *Settings) Validate() error {
	if s.MaxFileSize <= 0 {
		return fmt.Errorf("settings error: 'max_file_size' must be positive")
	}
	if !hexColor.MatchString(s.FillColor) {
		return fmt.Errorf("settings error: 'fill_color' must be RRGGBB or AARRGGBB hex, got %q", s.FillColor)
	}
	switch s.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("settings error: 'log.format' must be console or json, got %q", s.Log.Format)
	}
	if s.Log.MaxSizeMB < 0 || s.Log.MaxBackups < 0 {
		return fmt.Errorf("settings error: log rotation limits must be non-negative")
	}
	return nil
}

// FillRGB returns the fill colour as RRGGBB. An AARRGGBB value drops its
// alpha byte.
func (s *Settings) FillRGB() string {
	c := strings.ToUpper(s.FillColor)
	if len(c) == 8 {
		return c[2:]
	}
	return c
}
