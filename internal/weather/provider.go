package weather

import (
	"context"

	"github.com/i474232898/place-weather/internal/geocode"
)

// Provider abstracts a forecast source queried by coordinate.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, latitude, longitude float64) (RawPayload, error)
}

// LocationResolver turns place text into a coordinate.
type LocationResolver interface {
	Resolve(ctx context.Context, text string) (geocode.ResolvedLocation, error)
}
