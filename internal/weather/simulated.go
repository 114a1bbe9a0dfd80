package weather

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
)

var conditions = []string{models.WeatherSunny, models.WeatherCloudy, models.WeatherRainy, models.WeatherSnowy}

type climate struct {
	probabilities    []float64
	minTemp, maxTemp float64
}

// climateFor returns the condition distribution and temperature range for a month.
func climateFor(month time.Month) climate {
	switch month {
	case time.December, time.January, time.February:
		return climate{[]float64{0.2, 0.3, 0.3, 0.2}, -5, 10}
	case time.March, time.April, time.May:
		return climate{[]float64{0.4, 0.3, 0.25, 0.05}, 5, 20}
	case time.June, time.July, time.August:
		return climate{[]float64{0.6, 0.25, 0.15, 0}, 15, 30}
	default:
		return climate{[]float64{0.3, 0.4, 0.29, 0.01}, 5, 20}
	}
}

// Simulated draws seasonal weather from its own random source. It never fails.
type Simulated struct {
	rng *rand.Rand
}

func NewSimulated(rng *rand.Rand) *Simulated {
	return &Simulated{rng: rng}
}

func (s *Simulated) Fetch(_ context.Context, date time.Time) (Weather, error) {
	return s.Draw(date), nil
}

// Draw picks a condition and a temperature rounded to one decimal.
func (s *Simulated) Draw(date time.Time) Weather {
	c := climateFor(date.Month())

	r := s.rng.Float64()
	condition := ""
	cumulative := 0.0
	for i, p := range c.probabilities {
		if p <= 0 {
			continue
		}
		cumulative += p
		condition = conditions[i]
		if r < cumulative {
			break
		}
	}

	temp := c.minTemp + s.rng.Float64()*(c.maxTemp-c.minTemp)
	return Weather{
		Date:        models.FormatDate(date),
		Temperature: math.Round(temp*10) / 10,
		Condition:   condition,
		Source:      SourceSimulated,
	}
}
