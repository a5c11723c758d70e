package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	ycgerrors "ycg/internal/errors"
)

// FileName is the base name of the project configuration file. Viper
// resolves the extension (json, yaml, toml).
const FileName = "ycg.config"

// Config represents the complete ycg configuration file.
type Config struct {
	Output  OutputConfig  `json:"output" mapstructure:"output" toml:"output"`
	Include []string      `json:"include" mapstructure:"include" toml:"include"`
	Ignore  IgnoreConfig  `json:"ignore" mapstructure:"ignore" toml:"ignore"`
	Logic   LogicConfig   `json:"logic" mapstructure:"logic" toml:"logic"`
	History HistoryConfig `json:"history" mapstructure:"history" toml:"history"`
	Metrics MetricsConfig `json:"metrics" mapstructure:"metrics" toml:"metrics"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging" toml:"logging"`
}

// OutputConfig controls the rendered document.
type OutputConfig struct {
	Format               string `json:"format" mapstructure:"format" toml:"format"`
	Compact              bool   `json:"compact" mapstructure:"compact" toml:"compact"`
	IgnoreFrameworkNoise bool   `json:"ignoreFrameworkNoise" mapstructure:"ignoreFrameworkNoise" toml:"ignoreFrameworkNoise"`
	Granularity          int    `json:"granularity" mapstructure:"granularity" toml:"granularity"`
	LOD                  string `json:"lod" mapstructure:"lod" toml:"lod"`
	Path                 string `json:"path,omitempty" mapstructure:"path" toml:"path,omitempty"`
}

// IgnoreConfig contains file exclusion settings
type IgnoreConfig struct {
	UseGitignore   bool     `json:"useGitignore" mapstructure:"useGitignore" toml:"useGitignore"`
	CustomPatterns []string `json:"customPatterns" mapstructure:"customPatterns" toml:"customPatterns"`
}

// LogicConfig selects the logic extraction strategy
type LogicConfig struct {
	Strategy string `json:"strategy" mapstructure:"strategy" toml:"strategy"`
}

// HistoryConfig contains run history settings
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled" toml:"enabled"`
	Path    string `json:"path" mapstructure:"path" toml:"path"`
}

// MetricsConfig contains metrics export settings
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty" mapstructure:"textfile" toml:"textfile,omitempty"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format" toml:"format"`
	Level  string `json:"level" mapstructure:"level" toml:"level"`
}

// Valid option values.
var (
	Formats    = []string{"yaml", "adhoc"}
	LODs       = []string{"low", "medium", "high"}
	Strategies = []string{"none", "guards"}
	LogFormats = []string{"human", "json"}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:      "yaml",
			Granularity: 0,
			LOD:         "low",
		},
		Include: []string{},
		Ignore: IgnoreConfig{
			UseGitignore:   true,
			CustomPatterns: []string{},
		},
		Logic: LogicConfig{
			Strategy: "guards",
		},
		History: HistoryConfig{
			Enabled: false,
			Path:    ".ycg/history.db",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads ycg.config.{json,yaml,toml} from projectRoot.
// A missing file yields the defaults; a malformed file is CONFIG_INVALID.
func LoadConfig(projectRoot string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName(FileName)
	v.AddConfigPath(projectRoot)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, ycgerrors.New(ycgerrors.ConfigInvalid, "failed to parse config file in "+projectRoot, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ycgerrors.New(ycgerrors.ConfigInvalid, "failed to decode config file "+v.ConfigFileUsed(), err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.compact", d.Output.Compact)
	v.SetDefault("output.ignoreFrameworkNoise", d.Output.IgnoreFrameworkNoise)
	v.SetDefault("output.granularity", d.Output.Granularity)
	v.SetDefault("output.lod", d.Output.LOD)
	v.SetDefault("include", d.Include)
	v.SetDefault("ignore.useGitignore", d.Ignore.UseGitignore)
	v.SetDefault("ignore.customPatterns", d.Ignore.CustomPatterns)
	v.SetDefault("logic.strategy", d.Logic.Strategy)
	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.path", d.History.Path)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.level", d.Logging.Level)
}

// Save writes the configuration to path. The extension picks the encoding:
// .toml uses TOML, anything else JSON.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return toml.NewEncoder(f).Encode(c)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// Overrides holds values coming from the command line. Nil pointers and
// empty slices leave the file value in place.
type Overrides struct {
	Format               *string
	Compact              *bool
	IgnoreFrameworkNoise *bool
	Granularity          *int
	LOD                  *string
	OutputPath           *string
	Include              []string
	Exclude              []string
	NoGitignore          bool
	LogicStrategy        *string
}

// Merge returns a copy of c with the overrides applied. CLI patterns
// replace file patterns rather than extending them.
func (c *Config) Merge(o Overrides) *Config {
	merged := *c
	merged.Include = append([]string(nil), c.Include...)
	merged.Ignore.CustomPatterns = append([]string(nil), c.Ignore.CustomPatterns...)

	if o.Format != nil {
		merged.Output.Format = strings.ToLower(*o.Format)
	}
	if o.Compact != nil {
		merged.Output.Compact = *o.Compact
	}
	if o.IgnoreFrameworkNoise != nil {
		merged.Output.IgnoreFrameworkNoise = *o.IgnoreFrameworkNoise
	}
	if o.Granularity != nil {
		merged.Output.Granularity = *o.Granularity
	}
	if o.LOD != nil {
		merged.Output.LOD = strings.ToLower(*o.LOD)
	}
	if o.OutputPath != nil {
		merged.Output.Path = *o.OutputPath
	}
	if len(o.Include) > 0 {
		merged.Include = append([]string(nil), o.Include...)
	}
	if len(o.Exclude) > 0 {
		merged.Ignore.CustomPatterns = append([]string(nil), o.Exclude...)
	}
	if o.NoGitignore {
		merged.Ignore.UseGitignore = false
	}
	if o.LogicStrategy != nil {
		merged.Logic.Strategy = strings.ToLower(*o.LogicStrategy)
	}
	return &merged
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	for _, inc := range c.Include {
		for _, exc := range c.Ignore.CustomPatterns {
			if inc == exc {
				return conflict("include", "pattern '"+inc+"' appears in both include and exclude patterns")
			}
		}
	}

	if !oneOf(strings.ToLower(c.Output.Format), Formats) {
		return invalid("output.format", "invalid output format '"+c.Output.Format+"', valid options are: yaml, adhoc")
	}
	if c.Output.Granularity < 0 || c.Output.Granularity > 2 {
		return invalid("output.granularity", "granularity must be 0, 1 or 2")
	}
	if c.Output.Granularity != 0 && strings.EqualFold(c.Output.Format, "yaml") {
		return conflict("output.granularity", "granularity levels apply only to the adhoc format")
	}
	if !oneOf(strings.ToLower(c.Output.LOD), LODs) {
		return invalid("output.lod", "invalid level of detail '"+c.Output.LOD+"', valid options are: low, medium, high")
	}
	if !oneOf(strings.ToLower(c.Logic.Strategy), Strategies) {
		return invalid("logic.strategy", "invalid logic strategy '"+c.Logic.Strategy+"', valid options are: none, guards")
	}
	if c.Logging.Format != "" && !oneOf(c.Logging.Format, LogFormats) {
		return invalid("logging.format", "invalid log format '"+c.Logging.Format+"', valid options are: human, json")
	}
	return nil
}

func oneOf(v string, options []string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}

func conflict(field, msg string) error {
	return ycgerrors.New(ycgerrors.ConfigConflict, msg, nil).WithDetails(&ConfigError{Field: field, Message: msg})
}

func invalid(field, msg string) error {
	return ycgerrors.New(ycgerrors.ConfigInvalid, msg, nil).WithDetails(&ConfigError{Field: field, Message: msg})
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
