package httpapi

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/i474232898/place-weather/internal/common"
	"github.com/i474232898/place-weather/internal/geocode"
	"github.com/i474232898/place-weather/internal/scheduler"
	"github.com/i474232898/place-weather/internal/store"
	"github.com/i474232898/place-weather/internal/weather"
)

const (
	msgMissingLocation = "Missing location query parameter"
	msgMissingState    = "Missing state query parameter"
	msgNotFound        = "Location not found"
	msgInternal        = "Internal server error"
)

var validate = validator.New()

// WeatherLookup resolves place text and returns its normalized weather.
type WeatherLookup interface {
	Lookup(ctx context.Context, text string) (weather.Result, error)
}

// DestinationFinder lists curated destinations of one state.
type DestinationFinder interface {
	ByState(state string) []store.Destination
}

// HealthReporter exposes the latest provider probe results.
type HealthReporter interface {
	Status() map[string]scheduler.ProviderStatus
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. fiber does not
// cancel handler contexts when a client goes away, so each lookup is bounded by
// lookupTimeout instead; zero leaves it unbounded.
func RegisterRoutes(app *fiber.App, service WeatherLookup, destinations DestinationFinder, lookupTimeout time.Duration, logger *zap.SugaredLogger) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	states := geocode.RegionTitles()

	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		var q weatherQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, msgMissingLocation)
		}

		ctx := c.UserContext()
		if lookupTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, lookupTimeout)
			defer cancel()
		}

		result, err := service.Lookup(ctx, q.Location)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrInputInvalid):
				return fiber.NewError(fiber.StatusBadRequest, msgMissingLocation)
			case errors.Is(err, geocode.ErrLocationNotFound):
				logger.Infow("location not found", "location", q.Location)
				return fiber.NewError(fiber.StatusNotFound, msgNotFound)
			default:
				logger.Errorw("weather lookup failed", "location", q.Location, "error", err)
				return fiber.NewError(fiber.StatusInternalServerError, msgInternal)
			}
		}

		return c.JSON(result)
	})

	api.Get("/states", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"states": states})
	})

	api.Get("/destinations", func(c *fiber.Ctx) error {
		var q destinationsQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, msgMissingState)
		}

		return c.JSON(fiber.Map{
			"state":        q.State,
			"destinations": destinations.ByState(q.State),
		})
	})
}

// RegisterHealth adds the liveness endpoint. reporter may be nil.
func RegisterHealth(app *fiber.App, serviceName string, reporter HealthReporter) {
	app.Get("/health", func(c *fiber.Ctx) error {
		providers := map[string]scheduler.ProviderStatus{}
		if reporter != nil {
			providers = reporter.Status()
		}
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   serviceName,
			"providers": providers,
		})
	})
}

// ErrorHandler renders every handler error as {"error": message}. Messages of
// non-fiber errors are never sent to the client.
func ErrorHandler(logger *zap.SugaredLogger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := msgInternal

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		} else {
			logger.Errorw("unhandled error", "path", c.Path(), "error", err)
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

// weatherQuery holds query parameters for the weather endpoint.
type weatherQuery struct {
	Location string `validate:"required"`
}

func (q *weatherQuery) bind(c *fiber.Ctx) error {
	q.Location = strings.TrimSpace(c.Query("location"))
	return validate.Struct(q)
}

// destinationsQuery holds query parameters for the destinations endpoint.
type destinationsQuery struct {
	State string `validate:"required"`
}

func (q *destinationsQuery) bind(c *fiber.Ctx) error {
	q.State = strings.TrimSpace(c.Query("state"))
	return validate.Struct(q)
}
