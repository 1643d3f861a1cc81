package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable Load reads, e.g.
// CAREHIRE_SERVER_PORT or CAREHIRE_DATABASE_URL.
const EnvPrefix = "CAREHIRE"

var defaults = map[string]any{
	"server.port":                 8080,
	"server.log_level":            "info",
	"server.environment":          EnvDevelopment,
	"server.cors_allowed_origin":  "*",
	"server.shutdown_timeout":     "15s",
	"database.url":                "",
	"database.anon_role":          "anon",
	"database.authenticated_role": "authenticated",
	"database.probe_timeout":      "5s",
	"database.max_conns":          10,
	"auth.jwt_secret":             "",
	"storage.bucket":              "",
	"storage.region":              "",
	"storage.endpoint":            "",
	"storage.access_key":          "",
	"storage.secret_key":          "",
	"storage.url_expiry":          "15m",
	"rate_limit.general":          100,
	"rate_limit.auth":             20,
	"rate_limit.mutation":         30,
	"rate_limit.window":           "1m",
}

// Load configuration from environment variables and optionally a config.yaml
// in the working directory. Environment variables take precedence over values
// from the file, which take precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	return load(v)
}

// LoadFile behaves like Load but reads the given config file, which must exist.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
