// Package config loads dumpscan settings from an optional YAML file and
// DUMPSCAN_ environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// DUMPSCAN_SCAN_WORKERS.
const EnvPrefix = "DUMPSCAN"

type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Scan struct {
		Workers int `mapstructure:"workers"`
	} `mapstructure:"scan"`

	Output struct {
		Format string `mapstructure:"format"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"output"`

	Siteinfo struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"siteinfo"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("scan.workers", 1)
	v.SetDefault("output.format", "jsonl")
	v.SetDefault("output.pretty", false)
	v.SetDefault("siteinfo.path", "siteinfo-namespaces.json")
}

// LoadConfig reads path when it is not empty, then applies environment
// overrides on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings no command can honor.
func (c *Config) Validate() error {
	if c.Scan.Workers < 1 {
		return fmt.Errorf("scan.workers must be at least 1, got %d", c.Scan.Workers)
	}
	switch c.Output.Format {
	case "json", "jsonl":
	default:
		return fmt.Errorf("output.format must be json or jsonl, got %q", c.Output.Format)
	}
	return nil
}
