package weather

import (
	"context"
	"time"
)

// Weather is the condition observed or simulated for one date.
type Weather struct {
	Date        string  `json:"date"`
	Temperature float64 `json:"temperature"`
	Condition   string  `json:"condition"`
	Source      string  `json:"source"`
}

const (
	SourceSimulated = "simulated"
	SourceAPI       = "openweathermap"
)

// Source produces the weather for a date.
type Source interface {
	Fetch(ctx context.Context, date time.Time) (Weather, error)
}

// Cache stores weather by YYYY-MM-DD key. A miss is reported with ok false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (w Weather, ok bool, err error)
	Set(ctx context.Context, key string, w Weather) error
	Close() error
}
