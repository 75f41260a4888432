package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.AppEnv)
	assert.True(t, cfg.IsLocal())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "test-key", cfg.Weather.APIKey)
	assert.Equal(t, "sv", cfg.Weather.Lang)
	assert.Equal(t, "WeatherWiseTravel/1.0", cfg.Nominatim.UserAgent)
	assert.Equal(t, "se", cfg.Nominatim.CountryCodes)
	assert.Equal(t, 10, cfg.Nominatim.ResultsPerCategory)
	assert.Equal(t, 20.0, cfg.Nominatim.SearchRadiusKM)
	assert.Equal(t, 2, cfg.Nominatim.Concurrency)
	assert.Equal(t, 10*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, 2, cfg.Upstream.MaxRetries)
	assert.Equal(t, 15, cfg.Recommendation.MaxResults)
	assert.Equal(t, 60, cfg.RateLimit.Requests)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "test-key")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("RECOMMENDATION_MAX_RESULTS", "5")
	t.Setenv("NOMINATIM_SEARCH_RADIUS_KM", "7.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.IsLocal())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 5, cfg.Recommendation.MaxResults)
	assert.Equal(t, 7.5, cfg.Nominatim.SearchRadiusKM)
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENWEATHER_API_KEY", "")

	_, err := Load()
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, []ConfigErrorType{ErrParsing, ErrValidation}, cfgErr.Type)
}

func TestLoadInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  ConfigErrorType
	}{
		{"unknown env", "APP_ENV", "staging", ErrValidation},
		{"port out of range", "PORT", "70000", ErrValidation},
		{"bad duration", "UPSTREAM_TIMEOUT", "soon", ErrParsing},
		{"zero max results", "RECOMMENDATION_MAX_RESULTS", "0", ErrValidation},
		{"bad log level", "LOG_LEVEL", "verbose", ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("OPENWEATHER_API_KEY", "test-key")
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			require.Error(t, err)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.want, cfgErr.Type)
		})
	}
}
