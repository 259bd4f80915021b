package weather

import (
	"fmt"
	"math"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/hi"
	ut "github.com/go-playground/universal-translator"
)

// ForecastDays is the maximum number of daily entries kept.
const ForecastDays = 5

const todayLabel = "Today"

// ConditionFromCode maps an Open-Meteo weather code to a Condition.
// A nil code maps to the fallback.
func ConditionFromCode(code *int) Condition {
	if code == nil {
		return ConditionWindy
	}
	c := *code
	switch {
	case c == 0:
		return ConditionSunny
	case c >= 1 && c <= 3:
		return ConditionCloudy
	case (c >= 51 && c <= 67) || (c >= 80 && c <= 82) || (c >= 95 && c <= 99):
		return ConditionRainy
	case (c >= 71 && c <= 77) || (c >= 85 && c <= 86):
		return ConditionSnowy
	default:
		return ConditionWindy
	}
}

// Normalizer reshapes raw provider payloads. Weekday labels are rendered in
// the configured locale.
type Normalizer struct {
	locale locales.Translator
}

var translators = ut.New(en.New(), en.New(), hi.New())

// NewNormalizer returns a Normalizer for locale ("en", "hi").
func NewNormalizer(locale string) (*Normalizer, error) {
	trans, found := translators.GetTranslator(locale)
	if !found {
		return nil, fmt.Errorf("unsupported forecast locale %q", locale)
	}
	return &Normalizer{locale: trans}, nil
}

// Normalize builds the Result for label from p. Missing numbers become 0.
func (n *Normalizer) Normalize(label string, p RawPayload) Result {
	days := p.Daily.Time
	if len(days) > ForecastDays {
		days = days[:ForecastDays]
	}

	forecast := make([]ForecastDay, 0, len(days))
	for i, date := range days {
		forecast = append(forecast, ForecastDay{
			Day:       n.dayLabel(i, date),
			Condition: ConditionFromCode(at(p.Daily.WeatherCode, i)),
			HighTemp:  round(at(p.Daily.TemperatureMax, i)),
			LowTemp:   round(at(p.Daily.TemperatureMin, i)),
		})
	}

	return Result{
		Location:    label,
		Condition:   ConditionFromCode(p.Current.WeatherCode),
		Temperature: round(p.Current.Temperature),
		Humidity:    round(p.Current.Humidity),
		WindSpeed:   round(p.Current.WindSpeed),
		Forecast:    forecast,
	}
}

func (n *Normalizer) dayLabel(idx int, date string) string {
	if idx == 0 {
		return todayLabel
	}
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return n.locale.WeekdayWide(d.Weekday())
}

func at[T any](s []*T, i int) *T {
	if i < len(s) {
		return s[i]
	}
	return nil
}

// round rounds to the nearest integer with halves toward positive infinity;
// nil is 0.
func round(v *float64) int {
	if v == nil {
		return 0
	}
	r := math.Round(*v)
	if *v-r == 0.5 {
		r++
	}
	return int(r)
}
