package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/place-weather/internal/common"
	"github.com/i474232898/place-weather/internal/geocode"
	"github.com/i474232898/place-weather/internal/scheduler"
	"github.com/i474232898/place-weather/internal/store"
	"github.com/i474232898/place-weather/internal/weather"
)

type fakeLookup struct {
	result   weather.Result
	err      error
	calls    int
	text     string
	deadline time.Time
	block    bool
}

func (f *fakeLookup) Lookup(ctx context.Context, text string) (weather.Result, error) {
	f.calls++
	f.text = text
	f.deadline, _ = ctx.Deadline()
	if f.block {
		<-ctx.Done()
		return weather.Result{}, ctx.Err()
	}
	return f.result, f.err
}

type fakeHealth map[string]scheduler.ProviderStatus

func (f fakeHealth) Status() map[string]scheduler.ProviderStatus { return f }

var testDestinations = store.NewDestinationStore([]store.Destination{
	{ID: "spiti-valley", Name: "Spiti Valley", State: "Himachal Pradesh", Description: "Cold desert mountain valley"},
	{ID: "tirthan-valley", Name: "Tirthan Valley", State: "Himachal Pradesh", Description: "Serene riverside valley"},
	{ID: "majuli", Name: "Majuli Island", State: "Assam", Description: "Largest river island"},
})

func newTestApp(lookup WeatherLookup) *fiber.App {
	return newTestAppWithTimeout(lookup, time.Minute)
}

func newTestAppWithTimeout(lookup WeatherLookup, timeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(nil)})
	RegisterRoutes(app, lookup, testDestinations, timeout, nil)
	return app
}

func do(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func TestWeatherMissingLocation(t *testing.T) {
	lookup := &fakeLookup{}
	app := newTestApp(lookup)

	for _, target := range []string{"/api/weather", "/api/weather?location=", "/api/weather?location=%20%20"} {
		code, body := do(t, app, target)
		assert.Equal(t, http.StatusBadRequest, code, target)
		assert.Equal(t, map[string]any{"error": "Missing location query parameter"}, body, target)
	}
	assert.Zero(t, lookup.calls)
}

func TestWeatherOK(t *testing.T) {
	lookup := &fakeLookup{result: weather.Result{
		Location:    "Manali, Himachal Pradesh, India",
		Condition:   weather.ConditionCloudy,
		Temperature: 15,
		Humidity:    71,
		WindSpeed:   5,
		Forecast: []weather.ForecastDay{
			{Day: "Today", Condition: weather.ConditionCloudy, HighTemp: 18, LowTemp: 8},
		},
	}}
	app := newTestApp(lookup)

	code, body := do(t, app, "/api/weather?location=Manali,%20Himachal%20Pradesh")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "Manali, Himachal Pradesh", lookup.text)
	assert.Equal(t, "Manali, Himachal Pradesh, India", body["location"])
	assert.Equal(t, "cloudy", body["condition"])
	assert.Equal(t, 15.0, body["temperature"])
	assert.Equal(t, 5.0, body["windSpeed"])

	forecast, ok := body["forecast"].([]any)
	require.True(t, ok)
	require.Len(t, forecast, 1)
	assert.Equal(t, map[string]any{"day": "Today", "condition": "cloudy", "highTemp": 18.0, "lowTemp": 8.0}, forecast[0])
}

func TestWeatherLookupIsBounded(t *testing.T) {
	lookup := &fakeLookup{}
	before := time.Now()
	code, _ := do(t, newTestApp(lookup), "/api/weather?location=Leh")
	require.Equal(t, http.StatusOK, code)

	require.False(t, lookup.deadline.IsZero())
	assert.WithinDuration(t, before.Add(time.Minute), lookup.deadline, 5*time.Second)
}

func TestWeatherLookupTimeout(t *testing.T) {
	lookup := &fakeLookup{block: true}
	app := newTestAppWithTimeout(lookup, 20*time.Millisecond)

	code, body := do(t, app, "/api/weather?location=Leh")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestWeatherNotFound(t *testing.T) {
	app := newTestApp(&fakeLookup{err: geocode.ErrLocationNotFound})

	code, body := do(t, app, "/api/weather?location=Xyzabc%20Nonexistent%20Place")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Location not found", body["error"])
}

func TestWeatherProviderFailureIsHidden(t *testing.T) {
	err := common.NewProviderError("openmeteo", http.StatusBadGateway, errors.New("upstream said: secret detail"))
	app := newTestApp(&fakeLookup{err: err})

	code, body := do(t, app, "/api/weather?location=Leh")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, map[string]any{"error": "Internal server error"}, body)
}

func TestWeatherInvalidInputFromService(t *testing.T) {
	app := newTestApp(&fakeLookup{err: common.ErrInputInvalid})

	code, _ := do(t, app, "/api/weather?location=x")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStates(t *testing.T) {
	code, body := do(t, newTestApp(&fakeLookup{}), "/api/states")
	require.Equal(t, http.StatusOK, code)

	states, ok := body["states"].([]any)
	require.True(t, ok)
	require.Len(t, states, 36)
	assert.Equal(t, "Andhra Pradesh", states[0])
	assert.Equal(t, "Himachal Pradesh", states[8])
	assert.Equal(t, "Puducherry", states[35])
}

func TestDestinations(t *testing.T) {
	code, body := do(t, newTestApp(&fakeLookup{}), "/api/destinations?state=%20himachal%20pradesh%20")
	require.Equal(t, http.StatusOK, code)

	assert.Equal(t, "himachal pradesh", body["state"])
	list, ok := body["destinations"].([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "spiti-valley", list[0].(map[string]any)["id"])
}

func TestDestinationsNoneIsEmptyArray(t *testing.T) {
	app := newTestApp(&fakeLookup{})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/destinations?state=Goa", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"state": "Goa", "destinations": []}`, string(raw))
}

func TestDestinationsMissingState(t *testing.T) {
	code, body := do(t, newTestApp(&fakeLookup{}), "/api/destinations?state=")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Missing state query parameter", body["error"])
}

func TestHealth(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	app := fiber.New()
	RegisterHealth(app, "place-weather", fakeHealth{
		"openmeteo": {OK: false, LastError: "status 503", CheckedAt: at},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"status": "ok",
		"service": "place-weather",
		"providers": {"openmeteo": {"ok": false, "lastError": "status 503", "checkedAt": "2024-05-01T09:30:00Z"}}
	}`, string(raw))
}

func TestHealthWithoutReporter(t *testing.T) {
	app := fiber.New()
	RegisterHealth(app, "place-weather", nil)

	code, body := do(t, app, "/health")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]any{}, body["providers"])
}

func TestErrorHandlerUnknownRoute(t *testing.T) {
	code, body := do(t, newTestApp(&fakeLookup{}), "/api/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Cannot GET /api/nope", body["error"])
}
