package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/goccy/go-json"
)

// maxForecastDay is the last daily entry the one-call forecast returns.
const maxForecastDay = 7

var ErrMissingAPIKey = errors.New("weather api key is not set")

// conditionKeywords is checked in order; the first keyword contained in the API condition wins.
var conditionKeywords = []struct {
	keyword   string
	condition string
}{
	{"clear", models.WeatherSunny},
	{"clouds", models.WeatherCloudy},
	{"rain", models.WeatherRainy},
	{"drizzle", models.WeatherRainy},
	{"thunderstorm", models.WeatherRainy},
	{"snow", models.WeatherSnowy},
	{"mist", models.WeatherCloudy},
	{"fog", models.WeatherCloudy},
}

// MapCondition converts an OpenWeatherMap "main" condition into one of the four simulated conditions.
func MapCondition(apiCondition string) string {
	c := strings.ToLower(apiCondition)
	for _, k := range conditionKeywords {
		if strings.Contains(c, k.keyword) {
			return k.condition
		}
	}
	return models.WeatherCloudy
}

type owmCondition struct {
	Main string `json:"main"`
}

type owmResponse struct {
	Current struct {
		Temp    float64        `json:"temp"`
		Weather []owmCondition `json:"weather"`
	} `json:"current"`
	Daily []struct {
		Temp struct {
			Day float64 `json:"day"`
		} `json:"temp"`
		Weather []owmCondition `json:"weather"`
	} `json:"daily"`
}

// OpenWeatherMap reads past weather from the timemachine endpoint and near-term forecasts from one-call.
type OpenWeatherMap struct {
	BaseURL   string
	APIKey    string
	Latitude  float64
	Longitude float64

	client *http.Client
	today  func() time.Time
}

func NewOpenWeatherMap(cfg models.WeatherConfig, client *http.Client) *OpenWeatherMap {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &OpenWeatherMap{
		BaseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:    cfg.APIKey,
		Latitude:  cfg.Latitude,
		Longitude: cfg.Longitude,
		client:    client,
		today:     time.Now,
	}
}

func (o *OpenWeatherMap) Fetch(ctx context.Context, date time.Time) (Weather, error) {
	if o.APIKey == "" {
		return Weather{}, ErrMissingAPIKey
	}

	days := models.DaysBetween(o.today(), date)
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(o.Latitude, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(o.Longitude, 'f', -1, 64))
	params.Set("appid", o.APIKey)
	params.Set("units", "metric")

	endpoint := o.BaseURL + "/onecall"
	if days < 0 {
		endpoint += "/timemachine"
		params.Set("dt", strconv.FormatInt(models.Day(date).Unix(), 10))
	} else {
		params.Set("exclude", "current,minutely,hourly,alerts")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Weather{}, fmt.Errorf("failed to build weather request: %w", err)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return Weather{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Weather{}, fmt.Errorf("weather api returned %s", resp.Status)
	}

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Weather{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	var (
		temp       float64
		conditions []owmCondition
	)
	if days < 0 {
		temp, conditions = body.Current.Temp, body.Current.Weather
	} else {
		idx := min(days, maxForecastDay)
		if idx >= len(body.Daily) {
			return Weather{}, fmt.Errorf("weather forecast has %d days, need day %d", len(body.Daily), idx)
		}
		temp, conditions = body.Daily[idx].Temp.Day, body.Daily[idx].Weather
	}
	if len(conditions) == 0 {
		return Weather{}, errors.New("weather response has no condition")
	}

	return Weather{
		Date:        models.FormatDate(date),
		Temperature: temp,
		Condition:   MapCondition(conditions[0].Main),
		Source:      SourceAPI,
	}, nil
}
