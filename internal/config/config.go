package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Storage   StorageConfig   `mapstructure:"storage"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
}

// Environment names accepted in ServerConfig.Environment.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port        int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	Environment string `mapstructure:"environment" validate:"required,oneof=development production test"`
	// CORSAllowedOrigin is echoed in Access-Control-Allow-Origin; "*" allows any origin.
	CORSAllowedOrigin string        `mapstructure:"cors_allowed_origin" validate:"required"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// IsProduction reports whether error details must be withheld from clients.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == EnvProduction
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
	// AnonRole and AuthenticatedRole are the database roles assumed for
	// anonymous and token-bearing requests respectively.
	AnonRole          string        `mapstructure:"anon_role" validate:"required"`
	AuthenticatedRole string        `mapstructure:"authenticated_role" validate:"required"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout" validate:"gt=0"`
	MaxConns          int32         `mapstructure:"max_conns" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
//
// An empty JWTSecret is accepted at load time so the process can serve
// public routes; protected routes then answer 500 SERVER_MISCONFIGURED.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"omitempty,min=32"`
}

// StorageConfig configures the S3-compatible bucket holding uploaded documents.
// Document transfer URLs are unavailable while Bucket is empty.
type StorageConfig struct {
	Bucket    string        `mapstructure:"bucket"`
	Region    string        `mapstructure:"region" validate:"required_with=Bucket"`
	Endpoint  string        `mapstructure:"endpoint" validate:"omitempty,url"`
	AccessKey string        `mapstructure:"access_key" validate:"required_with=SecretKey"`
	SecretKey string        `mapstructure:"secret_key" validate:"required_with=AccessKey"`
	URLExpiry time.Duration `mapstructure:"url_expiry" validate:"gt=0"`
}

// Enabled reports whether a bucket has been configured.
func (s StorageConfig) Enabled() bool {
	return s.Bucket != ""
}

// RateLimitConfig holds per-IP request budgets for each route class. Each
// budget refills continuously over Window.
type RateLimitConfig struct {
	General  int           `mapstructure:"general" validate:"gt=0"`
	Auth     int           `mapstructure:"auth" validate:"gt=0"`
	Mutation int           `mapstructure:"mutation" validate:"gt=0"`
	Window   time.Duration `mapstructure:"window" validate:"gt=0"`
}
