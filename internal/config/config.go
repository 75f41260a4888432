// Package config loads the service configuration from the environment.
//
// Loading order:
//  1. Load a .env file if present (existing variables win).
//  2. Populate Config from envconfig struct tags.
//  3. Validate the result with go-playground/validator.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type ConfigErrorType string

const (
	ErrParsing    ConfigErrorType = "parsing"
	ErrValidation ConfigErrorType = "validation"
)

// ConfigError is returned by Load when the environment is unusable.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"local" validate:"oneof=local dev prod"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server         ServerConfig
	Weather        WeatherConfig
	Nominatim      NominatimConfig
	Upstream       UpstreamConfig
	Recommendation RecommendationConfig
	RateLimit      RateLimitConfig
}

type ServerConfig struct {
	Port            int           `envconfig:"PORT" default:"7000" validate:"min=1,max=65535"`
	StaticDir       string        `envconfig:"STATIC_DIR"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"30s" validate:"gt=0"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"25s" validate:"gte=0"`
	AllowedOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*" validate:"min=1"`
}

type WeatherConfig struct {
	APIKey  string `envconfig:"OPENWEATHER_API_KEY" required:"true" validate:"required"`
	BaseURL string `envconfig:"OPENWEATHER_BASE_URL" validate:"omitempty,url"`
	Lang    string `envconfig:"OPENWEATHER_LANG" default:"sv"`
}

type NominatimConfig struct {
	BaseURL            string  `envconfig:"NOMINATIM_BASE_URL" validate:"omitempty,url"`
	UserAgent          string  `envconfig:"NOMINATIM_USER_AGENT" default:"WeatherWiseTravel/1.0" validate:"required"`
	CountryCodes       string  `envconfig:"NOMINATIM_COUNTRY_CODES" default:"se"`
	ResultsPerCategory int     `envconfig:"NOMINATIM_RESULTS_PER_CATEGORY" default:"10" validate:"min=1,max=50"`
	SearchRadiusKM     float64 `envconfig:"NOMINATIM_SEARCH_RADIUS_KM" default:"20" validate:"gt=0"`
	RatePerSecond      float64 `envconfig:"NOMINATIM_RATE_PER_SECOND" default:"1" validate:"gte=0"`
	Concurrency        int     `envconfig:"NOMINATIM_CONCURRENCY" default:"2" validate:"min=1"`
}

type UpstreamConfig struct {
	Timeout    time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"10s" validate:"gt=0"`
	MaxRetries int           `envconfig:"UPSTREAM_MAX_RETRIES" default:"2" validate:"min=0,max=10"`
}

type RecommendationConfig struct {
	MaxResults int `envconfig:"RECOMMENDATION_MAX_RESULTS" default:"15" validate:"min=1,max=50"`
}

type RateLimitConfig struct {
	Requests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"60" validate:"gte=0"`
	Window   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m" validate:"gt=0"`
}

// IsLocal reports whether the service runs on a developer machine
func (c *Config) IsLocal() bool {
	return c.AppEnv == EnvLocal
}

// Load reads and validates the configuration.
func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "invalid configuration",
			Err:     err,
		}
	}

	return &cfg, nil
}
