package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/i474232898/place-weather/internal/common"
)

// Resolver turns free-form place text into a single coordinate by trying the
// fixed attempt sequence against a Fetcher.
type Resolver struct {
	fetcher        Fetcher
	attemptTimeout time.Duration
	logger         *zap.SugaredLogger
	tracer         trace.Tracer
}

// NewResolver creates a Resolver. A zero attemptTimeout leaves attempts bounded
// only by the caller's context.
func NewResolver(fetcher Fetcher, attemptTimeout time.Duration, logger *zap.SugaredLogger) *Resolver {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Resolver{
		fetcher:        fetcher,
		attemptTimeout: attemptTimeout,
		logger:         logger,
		tracer:         otel.Tracer("place-weather/geocode"),
	}
}

// Resolve returns the best match for text. Attempts run one at a time; a failed
// attempt counts as empty. ErrLocationNotFound is returned once all are exhausted.
func (r *Resolver) Resolve(ctx context.Context, text string) (ResolvedLocation, error) {
	if strings.TrimSpace(text) == "" {
		return ResolvedLocation{}, common.ErrInputInvalid
	}

	ctx, span := r.tracer.Start(ctx, "geocode.Resolve", trace.WithAttributes(attribute.String("query", text)))
	defer span.End()

	parts := SplitQuery(text)
	for i, a := range attempts {
		if err := ctx.Err(); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return ResolvedLocation{}, fmt.Errorf("resolve %q: %w", text, err)
		}

		candidates := r.try(ctx, i, a, parts)
		if len(candidates) == 0 {
			continue
		}

		loc, _ := Rank(candidates, parts.Hint, parts.First)
		r.logger.Debugw("location resolved",
			"query", text, "attempt", a.name, "candidates", len(candidates), "label", loc.Label)
		span.SetAttributes(attribute.String("resolved.label", loc.Label), attribute.String("resolved.attempt", a.name))
		return loc, nil
	}

	span.SetStatus(codes.Error, ErrLocationNotFound.Error())
	return ResolvedLocation{}, ErrLocationNotFound
}

func (r *Resolver) try(ctx context.Context, idx int, a attempt, parts QueryParts) []Candidate {
	query := a.query(parts)

	ctx, span := r.tracer.Start(ctx, "geocode.attempt", trace.WithAttributes(
		attribute.Int("attempt.index", idx+1),
		attribute.String("attempt.name", a.name),
		attribute.String("attempt.query", query),
		attribute.String("attempt.country", a.country),
	))
	defer span.End()

	if r.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.attemptTimeout)
		defer cancel()
	}

	candidates, err := r.fetcher.Fetch(ctx, query, a.country)
	if err != nil {
		if !errors.Is(err, ErrNoResults) {
			span.RecordError(err)
			r.logger.Debugw("geocoding attempt failed",
				"attempt", a.name, "query", query, "country", a.country, "error", err)
		}
		return nil
	}
	span.SetAttributes(attribute.Int("attempt.results", len(candidates)))
	return candidates
}
