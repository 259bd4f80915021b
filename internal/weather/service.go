package weather

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/i474232898/place-weather/internal/geocode"
)

// Service resolves place text and serves normalized weather for it.
type Service struct {
	resolver   LocationResolver
	provider   Provider
	normalizer *Normalizer
	logger     *zap.SugaredLogger
	tracer     trace.Tracer
}

// NewService creates a new Service.
func NewService(resolver LocationResolver, provider Provider, normalizer *Normalizer, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{
		resolver:   resolver,
		provider:   provider,
		normalizer: normalizer,
		logger:     logger,
		tracer:     otel.Tracer("place-weather/weather"),
	}
}

// Resolve delegates to the location resolver.
func (s *Service) Resolve(ctx context.Context, text string) (geocode.ResolvedLocation, error) {
	return s.resolver.Resolve(ctx, text)
}

// GetWeather fetches and normalizes the forecast for a coordinate. The result
// is labelled with the coordinate itself.
func (s *Service) GetWeather(ctx context.Context, latitude, longitude float64) (Result, error) {
	label := fmt.Sprintf("%.4f, %.4f", latitude, longitude)
	return s.fetch(ctx, label, latitude, longitude)
}

// Lookup resolves text and returns the weather for the best match.
func (s *Service) Lookup(ctx context.Context, text string) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "weather.Lookup", trace.WithAttributes(attribute.String("location", text)))
	defer span.End()

	loc, err := s.resolver.Resolve(ctx, text)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}

	res, err := s.fetch(ctx, loc.Label, loc.Latitude, loc.Longitude)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Result{}, err
	}
	return res, nil
}

func (s *Service) fetch(ctx context.Context, label string, latitude, longitude float64) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "weather.Fetch", trace.WithAttributes(
		attribute.String("provider", s.provider.Name()),
		attribute.Float64("latitude", latitude),
		attribute.Float64("longitude", longitude),
	))
	defer span.End()

	raw, err := s.provider.Fetch(ctx, latitude, longitude)
	if err != nil {
		span.RecordError(err)
		return Result{}, fmt.Errorf("fetch weather for %s: %w", label, err)
	}

	res := s.normalizer.Normalize(label, raw)
	s.logger.Debugw("weather normalized", "location", label, "condition", res.Condition, "days", len(res.Forecast))
	return res, nil
}
