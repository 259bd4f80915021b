package weather

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionSunny  Condition = "sunny"
	ConditionCloudy Condition = "cloudy"
	ConditionRainy  Condition = "rainy"
	ConditionSnowy  Condition = "snowy"
	ConditionWindy  Condition = "windy" // also the fallback for unmapped codes
)

// CurrentConditions is the provider's "current" block. Fields are nil when the
// provider omitted them.
type CurrentConditions struct {
	Temperature *float64 `json:"temperature_2m"`
	Humidity    *float64 `json:"relative_humidity_2m"`
	WindSpeed   *float64 `json:"wind_speed_10m"`
	WeatherCode *int     `json:"weather_code"`
}

// DailySeries holds parallel per-day arrays in chronological order.
type DailySeries struct {
	Time           []string   `json:"time"`
	WeatherCode    []*int     `json:"weather_code"`
	TemperatureMax []*float64 `json:"temperature_2m_max"`
	TemperatureMin []*float64 `json:"temperature_2m_min"`
}

// RawPayload is the forecast provider response before normalization.
type RawPayload struct {
	Current CurrentConditions `json:"current"`
	Daily   DailySeries       `json:"daily"`
}

// ForecastDay is one normalized entry of the daily forecast.
type ForecastDay struct {
	Day       string    `json:"day"`
	Condition Condition `json:"condition"`
	HighTemp  int       `json:"highTemp"`
	LowTemp   int       `json:"lowTemp"`
}

// Result is the normalized weather view returned to callers.
type Result struct {
	Location    string        `json:"location"`
	Condition   Condition     `json:"condition"`
	Temperature int           `json:"temperature"`
	Humidity    int           `json:"humidity"`
	WindSpeed   int           `json:"windSpeed"`
	Forecast    []ForecastDay `json:"forecast"`
}
