package models

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type RoomTypeConfig struct {
	Name     string `mapstructure:"name" yaml:"name" validate:"required"`
	Count    int    `mapstructure:"count" yaml:"count" validate:"min=1"`
	Capacity int    `mapstructure:"capacity" yaml:"capacity" validate:"min=1"`
}

type HotelConfig struct {
	Name      string           `mapstructure:"name" yaml:"name" validate:"required"`
	RoomTypes []RoomTypeConfig `mapstructure:"room_types" yaml:"room_types" validate:"required,min=1,dive"`
}

// SeasonRange is an inclusive MM-DD range. Start after End wraps over the new year.
type SeasonRange struct {
	Start string `mapstructure:"start" yaml:"start" validate:"required"`
	End   string `mapstructure:"end" yaml:"end" validate:"required"`
}

type AdvanceBookingTier struct {
	MinDays    int     `mapstructure:"min_days" yaml:"min_days" validate:"min=0"`
	Multiplier float64 `mapstructure:"multiplier" yaml:"multiplier" validate:"gt=0"`
}

type PricingConfig struct {
	BaseRates           map[string]float64       `mapstructure:"base_rates" yaml:"base_rates" validate:"required,min=1,dive,gt=0"`
	OccupancyThresholds []float64                `mapstructure:"occupancy_thresholds" yaml:"occupancy_thresholds" validate:"required,min=1,dive,gte=0,lte=1"`
	PriceMultipliers    []float64                `mapstructure:"price_multipliers" yaml:"price_multipliers" validate:"required,min=1,dive,gt=0"`
	Seasons             map[string][]SeasonRange `mapstructure:"seasons" yaml:"seasons" validate:"required,dive,dive"`
	SeasonMultipliers   map[string]float64       `mapstructure:"season_multipliers" yaml:"season_multipliers" validate:"dive,gt=0"`
	AdvanceBooking      []AdvanceBookingTier     `mapstructure:"advance_booking" yaml:"advance_booking" validate:"required,min=1,dive"`
	MinMultiplier       float64                  `mapstructure:"min_multiplier" yaml:"min_multiplier" validate:"gt=0"`
	MaxMultiplier       float64                  `mapstructure:"max_multiplier" yaml:"max_multiplier" validate:"gt=0"`
}

type SimulationConfig struct {
	StartDate      time.Time `mapstructure:"start_date" yaml:"start_date"`
	Days           int       `mapstructure:"days" yaml:"days" validate:"min=1"`
	RequestsPerDay int       `mapstructure:"requests_per_day" yaml:"requests_per_day" validate:"min=0"`
	RandomSeed     *int64    `mapstructure:"random_seed" yaml:"random_seed" validate:"required"`
	ExportInterval int       `mapstructure:"export_interval" yaml:"export_interval" validate:"min=1"`
	AnalysisWindow int       `mapstructure:"analysis_window" yaml:"analysis_window" validate:"min=1"`
	ShowProgress   bool      `mapstructure:"show_progress" yaml:"show_progress"`
}

type CloudStorageConfig struct {
	Provider   string `mapstructure:"provider" yaml:"provider"`
	BucketName string `mapstructure:"bucket_name" yaml:"bucket_name"`
	Region     string `mapstructure:"region" yaml:"region"`
	Prefix     string `mapstructure:"prefix" yaml:"prefix"`
}

type DataConfig struct {
	ExportPath   string             `mapstructure:"export_path" yaml:"export_path" validate:"required"`
	Format       string             `mapstructure:"format" yaml:"format" validate:"oneof=csv json parquet"`
	Destination  string             `mapstructure:"destination" yaml:"destination" validate:"oneof=local cloud none"`
	CloudStorage CloudStorageConfig `mapstructure:"cloud_storage" yaml:"cloud_storage"`
	Stream       bool               `mapstructure:"stream" yaml:"stream"`
}

type DatabaseConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	URL     string `mapstructure:"url" yaml:"url"`
}

type WeatherConfig struct {
	Enabled       bool               `mapstructure:"enabled" yaml:"enabled"`
	UseRealAPI    bool               `mapstructure:"use_real_api" yaml:"use_real_api"`
	APIKey        string             `mapstructure:"api_key" yaml:"-"`
	BaseURL       string             `mapstructure:"base_url" yaml:"base_url"`
	Location      string             `mapstructure:"location" yaml:"location"`
	Latitude      float64            `mapstructure:"latitude" yaml:"latitude"`
	Longitude     float64            `mapstructure:"longitude" yaml:"longitude"`
	ImpactFactors map[string]float64 `mapstructure:"impact_factors" yaml:"impact_factors" validate:"dive,gt=0"`
	Cache         string             `mapstructure:"cache" yaml:"cache" validate:"oneof=none file redis"`
	CacheFile     string             `mapstructure:"cache_file" yaml:"cache_file"`
	RedisAddr     string             `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string             `mapstructure:"redis_password" yaml:"-"`
	CacheTTL      time.Duration      `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

type EventsConfig struct {
	Output           string `mapstructure:"output" yaml:"output" validate:"oneof=none console file kafka"`
	FilePath         string `mapstructure:"file_path" yaml:"file_path"`
	KafkaBrokerList  string `mapstructure:"kafka_broker_list" yaml:"kafka_broker_list"`
	SessionTimeoutMs int    `mapstructure:"session_timeout_ms" yaml:"session_timeout_ms"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

type Config struct {
	Hotel      HotelConfig      `mapstructure:"hotel" yaml:"hotel"`
	Pricing    PricingConfig    `mapstructure:"pricing" yaml:"pricing"`
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Data       DataConfig       `mapstructure:"data" yaml:"data"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Weather    WeatherConfig    `mapstructure:"weather" yaml:"weather"`
	Events     EventsConfig     `mapstructure:"events" yaml:"events"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

var monthDayPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)

// SetDefaults registers values for the engine constants. Hotel, pricing tables and the run itself stay required.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pricing.season_multipliers", map[string]float64{
		SeasonHigh:   1.3,
		SeasonMedium: 1.0,
		SeasonLow:    0.8,
	})
	v.SetDefault("pricing.advance_booking", []map[string]any{
		{"min_days": 60, "multiplier": 0.85},
		{"min_days": 30, "multiplier": 0.9},
		{"min_days": 14, "multiplier": 0.95},
		{"min_days": 7, "multiplier": 1.0},
		{"min_days": 3, "multiplier": 1.05},
		{"min_days": 0, "multiplier": 1.1},
	})
	v.SetDefault("pricing.min_multiplier", 0.7)
	v.SetDefault("pricing.max_multiplier", 1.5)
	v.SetDefault("simulation.export_interval", 30)
	v.SetDefault("simulation.analysis_window", 30)
	v.SetDefault("data.export_path", "./data/")
	v.SetDefault("data.format", "csv")
	v.SetDefault("data.destination", "local")
	v.SetDefault("weather.location", "Paris,FR")
	v.SetDefault("weather.latitude", 48.8566)
	v.SetDefault("weather.longitude", 2.3522)
	v.SetDefault("weather.base_url", "https://api.openweathermap.org/data/2.5")
	v.SetDefault("weather.impact_factors", map[string]float64{
		WeatherSunny:  1.2,
		WeatherCloudy: 1.0,
		WeatherRainy:  0.8,
		WeatherSnowy:  0.7,
	})
	v.SetDefault("weather.cache", "file")
	v.SetDefault("weather.cache_file", "./data/weather_cache.json")
	v.SetDefault("weather.cache_ttl", 24*time.Hour)
	v.SetDefault("events.output", "none")
	v.SetDefault("events.file_path", "./data/events")
	v.SetDefault("events.kafka_broker_list", "localhost:9092")
	v.SetDefault("log.level", "info")
}

// requiredKeys describe the hotel and the run. They have no defaults and must come from the file or the environment.
var requiredKeys = []string{
	"hotel.name",
	"hotel.room_types",
	"pricing.base_rates",
	"pricing.occupancy_thresholds",
	"pricing.price_multipliers",
	"pricing.seasons",
	"simulation.start_date",
	"simulation.days",
	"simulation.requests_per_day",
	"simulation.random_seed",
}

// LoadConfig initializes and reads the configuration using Viper. An empty cfgFile falls back to
// ./config.yaml and then $HOME/.hotelsim.yaml; with neither present the built-in hotel of
// DefaultConfig is used. HOTELSIM_* environment variables override every source.
func LoadConfig(v *viper.Viper, cfgFile string) (*Config, error) {
	switch {
	case cfgFile != "":
		v.SetConfigFile(cfgFile)
	case fileExists("config.yaml"):
		v.SetConfigFile("config.yaml")
	default:
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".hotelsim")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("hotelsim")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		setBuiltInHotel(v)
	}

	return DecodeConfig(v)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// setBuiltInHotel registers the DefaultConfig hotel and run as defaults, so the environment can still override them.
func setBuiltInHotel(v *viper.Viper) {
	d := DefaultConfig()

	roomTypes := make([]map[string]any, 0, len(d.Hotel.RoomTypes))
	for _, rt := range d.Hotel.RoomTypes {
		roomTypes = append(roomTypes, map[string]any{"name": rt.Name, "count": rt.Count, "capacity": rt.Capacity})
	}
	seasons := make(map[string]any, len(d.Pricing.Seasons))
	for name, ranges := range d.Pricing.Seasons {
		rs := make([]map[string]any, 0, len(ranges))
		for _, r := range ranges {
			rs = append(rs, map[string]any{"start": r.Start, "end": r.End})
		}
		seasons[name] = rs
	}

	v.SetDefault("hotel.name", d.Hotel.Name)
	v.SetDefault("hotel.room_types", roomTypes)
	v.SetDefault("pricing.base_rates", d.Pricing.BaseRates)
	v.SetDefault("pricing.occupancy_thresholds", d.Pricing.OccupancyThresholds)
	v.SetDefault("pricing.price_multipliers", d.Pricing.PriceMultipliers)
	v.SetDefault("pricing.seasons", seasons)
	v.SetDefault("simulation.start_date", FormatDate(d.Simulation.StartDate))
	v.SetDefault("simulation.days", d.Simulation.Days)
	v.SetDefault("simulation.requests_per_day", d.Simulation.RequestsPerDay)
	v.SetDefault("simulation.random_seed", *d.Simulation.RandomSeed)
}

// DecodeConfig decodes whatever v currently holds and validates it. Missing required keys are
// reported before decoding, since a zero value cannot be told apart from an absent one afterwards.
func DecodeConfig(v *viper.Viper) (*Config, error) {
	missing := &ConfigError{}
	for _, key := range requiredKeys {
		if !v.IsSet(key) {
			missing.add("%s is required", key)
		}
	}
	if len(missing.Problems) > 0 {
		return nil, missing
	}

	var cfg Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeHookFunc(DateLayout),
		)
	})
	if err := v.Unmarshal(&cfg, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration once, before anything runs. Every problem is reported in a single *ConfigError.
func (cfg *Config) Validate() error {
	cerr := &ConfigError{}

	if err := validator.New().Struct(cfg); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				cerr.add("%s failed %q", strings.TrimPrefix(fe.Namespace(), "Config."), fe.Tag())
			}
		} else {
			cerr.add("%v", err)
		}
	}

	cfg.normalize()

	if cfg.Simulation.StartDate.IsZero() {
		cerr.add("simulation.start_date is required")
	}

	seen := make(map[string]bool)
	for _, rt := range cfg.Hotel.RoomTypes {
		if seen[rt.Name] {
			cerr.add("room type %q is defined twice", rt.Name)
		}
		seen[rt.Name] = true
		if _, ok := cfg.Pricing.BaseRates[rt.Name]; !ok {
			cerr.add("pricing.base_rates has no rate for room type %q", rt.Name)
		}
	}
	for name := range cfg.Pricing.BaseRates {
		if !seen[name] {
			cerr.add("pricing.base_rates names unknown room type %q", name)
		}
	}

	p := cfg.Pricing
	if len(p.OccupancyThresholds) != len(p.PriceMultipliers) {
		cerr.add("pricing.occupancy_thresholds (%d) and pricing.price_multipliers (%d) must have the same length",
			len(p.OccupancyThresholds), len(p.PriceMultipliers))
	}
	if !sort.Float64sAreSorted(p.OccupancyThresholds) {
		cerr.add("pricing.occupancy_thresholds must be ascending")
	}
	if p.MinMultiplier > p.MaxMultiplier {
		cerr.add("pricing.min_multiplier %.2f exceeds pricing.max_multiplier %.2f", p.MinMultiplier, p.MaxMultiplier)
	}

	hasZeroTier := false
	for _, tier := range p.AdvanceBooking {
		if tier.MinDays == 0 {
			hasZeroTier = true
		}
	}
	if !hasZeroTier {
		cerr.add("pricing.advance_booking needs a 0-day tier")
	}

	for season, ranges := range p.Seasons {
		if _, ok := p.SeasonMultipliers[season]; !ok {
			cerr.add("pricing.season_multipliers has no multiplier for season %q", season)
		}
		for _, r := range ranges {
			if !monthDayPattern.MatchString(r.Start) || !monthDayPattern.MatchString(r.End) {
				cerr.add("season %q range %s..%s must use MM-DD bounds", season, r.Start, r.End)
			}
		}
	}
	if _, ok := p.SeasonMultipliers[DefaultSeason]; !ok {
		cerr.add("pricing.season_multipliers has no multiplier for the default season %q", DefaultSeason)
	}

	if cfg.Data.Destination == "cloud" && cfg.Data.CloudStorage.BucketName == "" {
		cerr.add("data.cloud_storage.bucket_name is required for cloud exports")
	}
	if cfg.Database.Enabled && cfg.Database.URL == "" {
		cerr.add("database.url is required when the database export is enabled")
	}
	if cfg.Weather.Cache == "redis" && cfg.Weather.RedisAddr == "" {
		cerr.add("weather.redis_addr is required for the redis cache")
	}

	if len(cerr.Problems) > 0 {
		return cerr
	}
	return nil
}

// normalize lowercases room type names so they line up with viper's case-insensitive map keys.
func (cfg *Config) normalize() {
	for i := range cfg.Hotel.RoomTypes {
		cfg.Hotel.RoomTypes[i].Name = strings.ToLower(strings.TrimSpace(cfg.Hotel.RoomTypes[i].Name))
	}
	if cfg.Simulation.StartDate.IsZero() {
		return
	}
	cfg.Simulation.StartDate = Day(cfg.Simulation.StartDate)
}

// RoomTypeNames returns the configured room types in configuration order.
func (cfg *Config) RoomTypeNames() []string {
	names := make([]string, 0, len(cfg.Hotel.RoomTypes))
	for _, rt := range cfg.Hotel.RoomTypes {
		names = append(names, rt.Name)
	}
	return names
}

// Seed returns the configured random seed.
func (cfg *Config) Seed() int64 {
	if cfg.Simulation.RandomSeed == nil {
		return 0
	}
	return *cfg.Simulation.RandomSeed
}

// DefaultConfig is the built-in "Le Petit Refuge" hotel starting today.
func DefaultConfig() *Config {
	seed := int64(42)
	return &Config{
		Hotel: HotelConfig{
			Name: "Le Petit Refuge",
			RoomTypes: []RoomTypeConfig{
				{Name: "standard", Count: 5, Capacity: 2},
				{Name: "confort", Count: 7, Capacity: 3},
				{Name: "suite", Count: 3, Capacity: 4},
			},
		},
		Pricing: PricingConfig{
			BaseRates: map[string]float64{
				"standard": 80,
				"confort":  120,
				"suite":    180,
			},
			OccupancyThresholds: []float64{0.3, 0.5, 0.8, 0.9},
			PriceMultipliers:    []float64{0.8, 0.9, 1.1, 1.25},
			Seasons: map[string][]SeasonRange{
				SeasonHigh: {
					{Start: "06-15", End: "09-15"},
					{Start: "12-15", End: "01-05"},
				},
				SeasonMedium: {
					{Start: "04-01", End: "06-14"},
					{Start: "09-16", End: "10-31"},
				},
				SeasonLow: {
					{Start: "01-06", End: "03-31"},
					{Start: "11-01", End: "12-14"},
				},
			},
			SeasonMultipliers: map[string]float64{SeasonHigh: 1.3, SeasonMedium: 1.0, SeasonLow: 0.8},
			AdvanceBooking: []AdvanceBookingTier{
				{MinDays: 60, Multiplier: 0.85},
				{MinDays: 30, Multiplier: 0.9},
				{MinDays: 14, Multiplier: 0.95},
				{MinDays: 7, Multiplier: 1.0},
				{MinDays: 3, Multiplier: 1.05},
				{MinDays: 0, Multiplier: 1.1},
			},
			MinMultiplier: 0.7,
			MaxMultiplier: 1.5,
		},
		Simulation: SimulationConfig{
			StartDate:      Day(time.Now()),
			Days:           90,
			RequestsPerDay: 15,
			RandomSeed:     &seed,
			ExportInterval: 30,
			AnalysisWindow: 30,
		},
		Data: DataConfig{
			ExportPath:  "./data/",
			Format:      "csv",
			Destination: "local",
		},
		Weather: WeatherConfig{
			BaseURL:   "https://api.openweathermap.org/data/2.5",
			Location:  "Paris,FR",
			Latitude:  48.8566,
			Longitude: 2.3522,
			ImpactFactors: map[string]float64{
				WeatherSunny:  1.2,
				WeatherCloudy: 1.0,
				WeatherRainy:  0.8,
				WeatherSnowy:  0.7,
			},
			Cache:     "file",
			CacheFile: "./data/weather_cache.json",
			CacheTTL:  24 * time.Hour,
		},
		Events: EventsConfig{
			Output:          "none",
			FilePath:        "./data/events",
			KafkaBrokerList: "localhost:9092",
		},
		Log: LogConfig{Level: "info"},
	}
}
