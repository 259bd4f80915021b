package geocode

import (
	"context"
	"errors"
)

// RegionCountryCode and RegionCountryName identify the country whose regions
// the resolver knows how to disambiguate.
const (
	RegionCountryCode = "IN"
	RegionCountryName = "India"
)

var (
	// ErrNoResults is returned by a Fetcher when the provider answered successfully
	// but had no candidates for the query.
	ErrNoResults = errors.New("no geocoding results")

	// ErrLocationNotFound is returned when every resolution attempt came back empty.
	ErrLocationNotFound = errors.New("location not found")
)

// Candidate is one raw geocoding match, in the order the provider returned it.
type Candidate struct {
	Name        string   `json:"name"`
	Admin1      string   `json:"admin1,omitempty"`
	Country     string   `json:"country,omitempty"`
	CountryCode string   `json:"country_code,omitempty"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Population  *float64 `json:"population,omitempty"`
}

// ResolvedLocation is the single coordinate chosen for a query.
type ResolvedLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Label     string  `json:"label"`
}

// Fetcher performs one geocoding lookup. An empty country means unrestricted.
// Implementations return ErrNoResults for an empty answer and a
// common.ProviderError for transport or status failures.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, query, country string) ([]Candidate, error)
}
