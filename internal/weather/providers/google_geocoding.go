package providers

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/place-weather/internal/common"
	"github.com/i474232898/place-weather/internal/geocode"
)

var errMissingGoogleKey = errors.New("google geocoder api key is not configured")

// the geocoder package keeps its key in a package variable.
var googleKeyMu sync.Mutex

// GoogleGeocoder implements geocode.Fetcher on top of the Google Geocoding API.
// Google returns a single best match, enriched here with a reverse lookup for
// the state and country names.
type GoogleGeocoder struct {
	name   string
	apiKey string
}

// NewGoogleGeocoder creates the Google-backed fetcher.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{name: "google-geocoding", apiKey: apiKey}
}

func (g *GoogleGeocoder) Name() string {
	return g.name
}

func (g *GoogleGeocoder) Fetch(ctx context.Context, query, country string) ([]geocode.Candidate, error) {
	if g.apiKey == "" {
		return nil, common.NewProviderError(g.name, 0, errMissingGoogleKey)
	}
	if err := ctx.Err(); err != nil {
		return nil, common.NewProviderError(g.name, 0, err)
	}

	addr := geocoder.Address{City: strings.TrimSpace(query)}
	if country == geocode.RegionCountryCode {
		addr.Country = geocode.RegionCountryName
	}

	googleKeyMu.Lock()
	defer googleKeyMu.Unlock()
	geocoder.ApiKey = g.apiKey

	loc, err := geocoder.Geocoding(addr)
	if err != nil {
		// The client does not distinguish "no match" from a failed call.
		return nil, geocode.ErrNoResults
	}

	c := geocode.Candidate{
		Name:      addr.City,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	}
	if addresses, err := geocoder.GeocodingReverse(loc); err == nil && len(addresses) > 0 {
		best := addresses[0]
		if best.City != "" {
			c.Name = best.City
		}
		c.Admin1 = best.State
		c.Country = best.Country
		if strings.EqualFold(best.Country, geocode.RegionCountryName) {
			c.CountryCode = geocode.RegionCountryCode
		}
	}
	return []geocode.Candidate{c}, nil
}
