package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Guard    GuardConfig    `mapstructure:"guard"`
	Identity IdentityConfig `mapstructure:"identity"`
	Users    []UserConfig   `mapstructure:"users"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "standard" or "json"
}

// GuardConfig controls the permission guard. Diagnostics write required and
// held permissions to the log, so they are off unless asked for.
type GuardConfig struct {
	Diagnostics bool `mapstructure:"diagnostics"`
}

type IdentityConfig struct {
	Header string `mapstructure:"header"`
}

// UserConfig is a development principal resolved by the identity header.
type UserConfig struct {
	ID          string   `mapstructure:"id"`
	Roles       []string `mapstructure:"roles"`
	Permissions []string `mapstructure:"permissions"`
}

// IsJSON reports whether logs should be written as JSON.
func (l LogConfig) IsJSON() bool {
	return strings.EqualFold(l.Format, "json")
}

// Load reads app.yaml from the working directory (or two levels up) and
// applies environment overrides such as GUARD_DIAGNOSTICS=true. A missing
// file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../..")
	return load(v)
}

// LoadFile reads the configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "standard")
	v.SetDefault("guard.diagnostics", false)
	v.SetDefault("identity.header", "X-User-ID")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
