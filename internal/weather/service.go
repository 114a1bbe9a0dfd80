package weather

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
)

const (
	// forecastHorizonDays bounds how far ahead the real API is asked.
	forecastHorizonDays = 10
	fetchTimeout        = 15 * time.Second
	defaultImpact       = 1.0
)

// Service turns a date into a demand factor: cache first, then the API when it applies, then simulation.
type Service struct {
	impact    map[string]float64
	simulated *Simulated
	api       Source
	cache     Cache
	today     func() time.Time
	logger    *log.Logger
}

// NewService wires the sources. api and cache may be nil.
func NewService(impact map[string]float64, simulated *Simulated, api Source, cache Cache, logger *log.Logger) *Service {
	return &Service{
		impact:    impact,
		simulated: simulated,
		api:       api,
		cache:     cache,
		today:     time.Now,
		logger:    logger.WithPrefix("weather"),
	}
}

// NewServiceFromConfig builds the cache and the API client the configuration asks for.
// The simulated source is seeded with seed so runs stay reproducible without the API.
func NewServiceFromConfig(ctx context.Context, cfg models.WeatherConfig, seed int64, logger *log.Logger) (*Service, error) {
	var cache Cache
	switch cfg.Cache {
	case "", "none":
	case "file":
		fc, err := NewFileCache(cfg.CacheFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("weather cache loaded", "entries", fc.Len(), "path", cfg.CacheFile)
		cache = fc
	case "redis":
		rc, err := NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			return nil, err
		}
		cache = rc
	default:
		return nil, fmt.Errorf("unsupported weather cache: %s", cfg.Cache)
	}

	var api Source
	if cfg.UseRealAPI {
		if cfg.APIKey == "" {
			logger.Warn("weather api key missing, using simulated weather")
		}
		api = NewOpenWeatherMap(cfg, nil)
	}

	return NewService(cfg.ImpactFactors, NewSimulated(rand.New(rand.NewSource(seed))), api, cache, logger), nil
}

// Weather returns the weather for date. It never fails: API and cache errors fall back to simulation.
func (s *Service) Weather(ctx context.Context, date time.Time) Weather {
	key := models.FormatDate(date)

	if s.cache != nil {
		w, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("weather cache read failed", "date", key, "err", err)
		} else if ok {
			return w
		}
	}

	w := s.fetch(ctx, date)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, w); err != nil {
			s.logger.Warn("weather cache write failed", "date", key, "err", err)
		}
	}
	return w
}

func (s *Service) fetch(ctx context.Context, date time.Time) Weather {
	if s.api != nil && models.DaysBetween(s.today(), date) < forecastHorizonDays {
		ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
		defer cancel()

		w, err := s.api.Fetch(ctx, date)
		if err == nil {
			s.logger.Debug("real weather fetched", "date", w.Date, "condition", w.Condition, "temperature", w.Temperature)
			return w
		}
		s.logger.Error("weather api call failed, using simulated weather", "date", models.FormatDate(date), "err", err)
	}

	w := s.simulated.Draw(date)
	s.logger.Debug("simulated weather", "date", w.Date, "condition", w.Condition, "temperature", w.Temperature)
	return w
}

// DemandFactor is the impact factor of the date's condition, 1.0 for unlisted conditions.
func (s *Service) DemandFactor(date time.Time) float64 {
	w := s.Weather(context.Background(), date)
	if f, ok := s.impact[w.Condition]; ok {
		return f
	}
	return defaultImpact
}

// Close releases the cache, persisting it when it is file backed.
func (s *Service) Close() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Close()
}
