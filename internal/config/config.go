package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Cfg holds the CLI settings. Values come from, lowest to highest
// priority: defaults below, a config file, DERIVE_* environment variables.
type Cfg struct {
	Format    string         `mapstructure:"format"`
	Overwrite bool           `mapstructure:"overwrite"`
	Log       LogConfig      `mapstructure:"log"`
	Discover  DiscoverConfig `mapstructure:"discover"`

	// Source is the config file that was read, empty when none was found.
	Source string `mapstructure:"-"`
}

type LogConfig struct {
	Level            string `mapstructure:"level"`
	Format           string `mapstructure:"format"` // TEXT or JSON
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

type DiscoverConfig struct {
	SampleSize int `mapstructure:"sample_size"`
}

// Formats lists the accepted output formats.
var Formats = []string{"json", "pretty", "yaml", "csv", "text"}

const EnvPrefix = "DERIVE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("format", "json")
	v.SetDefault("overwrite", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "TEXT")
	v.SetDefault("log.disable_timestamp", false)
	v.SetDefault("discover.sample_size", 1000)
}

// Load reads the configuration. With an empty path it looks for
// derive.{json,yaml,toml} in ., ./configs and $HOME/.config/derive and
// falls back to defaults when none exists; a non-empty path must exist.
func Load(path string) (Cfg, error) {
	var cfg Cfg
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("derive")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs/")
		v.AddConfigPath("$HOME/.config/derive/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	return cfg, cfg.Validate()
}

// Validate checks enumerated fields.
func (c Cfg) Validate() error {
	if !contains(Formats, c.Format) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Format, strings.Join(Formats, ", "))
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToUpper(c.Log.Format) {
	case "TEXT", "JSON":
	default:
		return fmt.Errorf("unknown log format %q (want TEXT or JSON)", c.Log.Format)
	}
	if c.Discover.SampleSize < 0 {
		return fmt.Errorf("discover.sample_size must not be negative, got %d", c.Discover.SampleSize)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
