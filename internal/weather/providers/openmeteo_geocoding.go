package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/place-weather/internal/common"
	"github.com/i474232898/place-weather/internal/geocode"
)

const DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"

// geocodingResultLimit is the number of candidates requested per lookup.
const geocodingResultLimit = "50"

// OpenMeteoGeocoder implements geocode.Fetcher for the Open-Meteo geocoding API.
type OpenMeteoGeocoder struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

// NewOpenMeteoGeocoder creates the geocoding fetcher. An empty baseURL uses
// DefaultGeocodingURL.
func NewOpenMeteoGeocoder(client *http.Client, baseURL string, maxRetries int) *OpenMeteoGeocoder {
	if baseURL == "" {
		baseURL = DefaultGeocodingURL
	}
	return &OpenMeteoGeocoder{
		name:    "openmeteo-geocoding",
		baseURL: baseURL,
		httpCfg: newHTTPConfig(client, maxRetries),
		circuit: newBreaker("openmeteo-geocoding"),
	}
}

func (g *OpenMeteoGeocoder) Name() string {
	return g.name
}

// Fetch performs one search. country restricts results to an ISO-2 code when set.
func (g *OpenMeteoGeocoder) Fetch(ctx context.Context, query, country string) ([]geocode.Candidate, error) {
	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("name", query)
		values.Set("count", geocodingResultLimit)
		values.Set("language", "en")
		values.Set("format", "json")
		if country != "" {
			values.Set("country", country)
		}

		return http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+values.Encode(), nil)
	}

	resp, err := doRequestWithResilience(ctx, g.name, g.httpCfg, g.circuit, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []geocode.Candidate `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, common.NewProviderError(g.name, 0, fmt.Errorf("decode geocoding response: %w", err))
	}

	if len(payload.Results) == 0 {
		return nil, geocode.ErrNoResults
	}
	return payload.Results, nil
}
