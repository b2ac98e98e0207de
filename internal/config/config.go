package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Input dataset
	DataPath         string   `mapstructure:"data_path" yaml:"data_path"`
	Delimiter        string   `mapstructure:"delimiter" yaml:"delimiter"`
	DecimalSeparator string   `mapstructure:"decimal_separator" yaml:"decimal_separator"`
	MissingValues    []string `mapstructure:"missing_values" yaml:"missing_values"`
	SheetName        string   `mapstructure:"sheet_name" yaml:"sheet_name"`

	// HTTP server
	HTTPAddress     string `mapstructure:"http_address" yaml:"http_address"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec" yaml:"write_timeout_sec"`

	// CLI output
	DefaultFormat string `mapstructure:"default_format" yaml:"default_format"`
}

// Formats accepted for default_format and the view --format flag.
var Formats = []string{"table", "json", "yaml", "md"}

// Keys lists the settable keys in display order.
var Keys = []string{
	"data_path", "delimiter", "decimal_separator", "missing_values", "sheet_name",
	"http_address", "read_timeout_sec", "write_timeout_sec", "default_format",
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".gymdash"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.gymdash/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. Flags are applied by the caller.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("GYMDASH")
	v.AutomaticEnv()

	v.SetDefault("data_path", "gym_members_exercise_tracking.csv")
	v.SetDefault("delimiter", "")
	v.SetDefault("decimal_separator", "")
	v.SetDefault("missing_values", []string{})
	v.SetDefault("sheet_name", "")
	v.SetDefault("http_address", ":8050")
	v.SetDefault("read_timeout_sec", 10)
	v.SetDefault("write_timeout_sec", 30)
	v.SetDefault("default_format", "table")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := defaultDir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Set assigns one key from its string form, validating the value.
func (c *Global) Set(key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "delimiter":
		if _, err := ParseRune(val); err != nil {
			return fmt.Errorf("invalid delimiter: %w", err)
		}
		c.Delimiter = val
	case "decimal_separator":
		r, err := ParseRune(val)
		if err != nil || (r != 0 && r != '.' && r != ',') {
			return fmt.Errorf("invalid decimal_separator: %q (use . or ,)", val)
		}
		c.DecimalSeparator = val
	case "missing_values":
		var out []string
		for _, s := range strings.Split(val, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		c.MissingValues = out
	case "sheet_name":
		c.SheetName = val
	case "http_address":
		c.HTTPAddress = val
	case "read_timeout_sec", "write_timeout_sec":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for %s: %v", key, val)
		}
		if key == "read_timeout_sec" {
			c.ReadTimeoutSec = i
		} else {
			c.WriteTimeoutSec = i
		}
	case "default_format":
		f := strings.ToLower(val)
		if !validFormat(f) {
			return fmt.Errorf("invalid default_format: %s (use %s)", val, strings.Join(Formats, ", "))
		}
		c.DefaultFormat = f
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return nil
}

// Get returns the string form of one key.
func (c *Global) Get(key string) (string, error) {
	switch key {
	case "data_path":
		return c.DataPath, nil
	case "delimiter":
		return c.Delimiter, nil
	case "decimal_separator":
		return c.DecimalSeparator, nil
	case "missing_values":
		return strings.Join(c.MissingValues, ","), nil
	case "sheet_name":
		return c.SheetName, nil
	case "http_address":
		return c.HTTPAddress, nil
	case "read_timeout_sec":
		return strconv.Itoa(c.ReadTimeoutSec), nil
	case "write_timeout_sec":
		return strconv.Itoa(c.WriteTimeoutSec), nil
	case "default_format":
		return c.DefaultFormat, nil
	}
	return "", fmt.Errorf("unknown key: %s", key)
}

func validFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// ParseRune parses a single-character setting. "" yields 0 and `\t` or
// "tab" yield a tab.
func ParseRune(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case `\t`, "tab", "TAB":
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%q is not a single character", s)
	}
	return r, nil
}
