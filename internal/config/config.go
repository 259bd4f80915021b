package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendOpenMeteo = "openmeteo"
	BackendGoogle    = "google"
)

type AppConfig struct {
	Port string `mapstructure:"PORT" validate:"required,numeric"`

	// HTTPTimeout bounds every outbound request.
	HTTPTimeout time.Duration `mapstructure:"HTTP_TIMEOUT" validate:"gt=0"`
	// GeocodeAttemptTimeout bounds a single resolution attempt.
	GeocodeAttemptTimeout time.Duration `mapstructure:"GEOCODE_ATTEMPT_TIMEOUT" validate:"gt=0"`
	// RequestTimeout bounds a whole /api/weather lookup.
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT" validate:"gt=0"`

	GeocodingURL string `mapstructure:"GEOCODING_URL" validate:"required,url"`
	ForecastURL  string `mapstructure:"FORECAST_URL" validate:"required,url"`

	GeocoderBackend      string `mapstructure:"GEOCODER_BACKEND" validate:"oneof=openmeteo google"`
	GoogleGeocoderAPIKey string `mapstructure:"GOOGLE_GEOCODER_API_KEY" validate:"required_if=GeocoderBackend google"`
	GeocoderMaxRetries   int    `mapstructure:"GEOCODER_MAX_RETRIES" validate:"gte=0,lte=10"`
	ForecastMaxRetries   int    `mapstructure:"FORECAST_MAX_RETRIES" validate:"gte=0,lte=10"`

	ForecastLocale   string `mapstructure:"FORECAST_LOCALE" validate:"oneof=en hi"`
	DestinationsPath string `mapstructure:"DESTINATIONS_PATH" validate:"required"`

	// HealthProbeInterval of 0 disables the provider probe.
	HealthProbeInterval time.Duration `mapstructure:"HEALTH_PROBE_INTERVAL" validate:"gte=0"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=json console"`

	// ZipkinURL enables span export when set.
	ZipkinURL string `mapstructure:"ZIPKIN_URL" validate:"omitempty,url"`
}

var defaults = map[string]any{
	"PORT":                    "8080",
	"HTTP_TIMEOUT":            "10s",
	"GEOCODE_ATTEMPT_TIMEOUT": "4s",
	"REQUEST_TIMEOUT":         "45s",
	"GEOCODING_URL":           "https://geocoding-api.open-meteo.com/v1/search",
	"FORECAST_URL":            "https://api.open-meteo.com/v1/forecast",
	"GEOCODER_BACKEND":        BackendOpenMeteo,
	"GOOGLE_GEOCODER_API_KEY": "",
	"GEOCODER_MAX_RETRIES":    0,
	"FORECAST_MAX_RETRIES":    2,
	"FORECAST_LOCALE":         "en",
	"DESTINATIONS_PATH":       "public/data/destinations.json",
	"HEALTH_PROBE_INTERVAL":   "10m",
	"LOG_LEVEL":               "info",
	"LOG_FORMAT":              "json",
	"ZIPKIN_URL":              "",
}

var validate = validator.New()

// Load reads configuration from .env, an optional config.yaml in the working
// directory and the environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return load(".")
}

func load(dir string) (*AppConfig, error) {
	v := viper.New()
	for key, value := range defaults {
		// SetDefault also registers the key for AutomaticEnv during Unmarshal.
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config.yaml: %w", err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
