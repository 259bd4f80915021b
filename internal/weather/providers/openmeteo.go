package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/place-weather/internal/common"
	"github.com/i474232898/place-weather/internal/weather"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,relative_humidity_2m,wind_speed_10m,weather_code"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min"
)

// OpenMeteoProvider implements the weather.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoProvider creates the forecast provider. An empty baseURL uses
// DefaultForecastURL.
func NewOpenMeteoProvider(client *http.Client, baseURL string, maxRetries int) *OpenMeteoProvider {
	if baseURL == "" {
		baseURL = DefaultForecastURL
	}
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: baseURL,
		httpCfg: newHTTPConfig(client, maxRetries),
		circuit: newBreaker("openmeteo"),
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// Fetch requests current conditions and a five-day daily series for the coordinate.
func (p *OpenMeteoProvider) Fetch(ctx context.Context, latitude, longitude float64) (weather.RawPayload, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
		values.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))
		values.Set("current", currentFields)
		values.Set("daily", dailyFields)
		values.Set("timezone", "auto")
		values.Set("forecast_days", strconv.Itoa(weather.ForecastDays))

		return http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, p.name, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.RawPayload{}, err
	}
	defer resp.Body.Close()

	var payload weather.RawPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.RawPayload{}, common.NewProviderError(p.name, 0, fmt.Errorf("decode forecast: %w", err))
	}
	return payload, nil
}
