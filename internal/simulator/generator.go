package simulator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/factories"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/google/uuid"
)

// WeatherProvider returns a positive demand factor for a date. Implementations never fail.
type WeatherProvider interface {
	DemandFactor(date time.Time) float64
}

// Generator produces synthetic reservation requests. Every draw comes from the single rng
// it was built with, so two generators with equally seeded sources produce identical streams.
type Generator struct {
	rng       *rand.Rand
	calendar  *pricing.SeasonCalendar
	roomTypes []string
	baseRates map[string]float64
	meanRate  float64
	weather   WeatherProvider
	guests    *factories.GuestFactory
	logger    *log.Logger
}

// NewGenerator builds a generator. weather may be nil, in which case the demand factor is 1.
func NewGenerator(cfg *models.Config, rng *rand.Rand, calendar *pricing.SeasonCalendar, weather WeatherProvider, logger *log.Logger) *Generator {
	roomTypes := cfg.RoomTypeNames()
	// summed in configuration order so the float result never depends on map iteration
	mean := 0.0
	for _, rt := range roomTypes {
		mean += cfg.Pricing.BaseRates[rt]
	}
	if len(roomTypes) > 0 {
		mean /= float64(len(roomTypes))
	}

	g := &Generator{
		rng:       rng,
		calendar:  calendar,
		roomTypes: roomTypes,
		baseRates: cfg.Pricing.BaseRates,
		meanRate:  mean,
		weather:   weather,
		guests:    factories.NewGuestFactory(rng),
		logger:    logger.WithPrefix("generator"),
	}
	g.logger.Info("reservation generator initialised", "room_types", len(g.roomTypes))
	return g
}

// Generate draws one request made on date.
func (g *Generator) Generate(date time.Time) (*models.ReservationRequest, error) {
	date = models.Day(date)
	season := g.calendar.SeasonFor(date)
	influence := influenceFor(season)

	weatherFactor := 1.0
	if g.weather != nil {
		if f := g.weather.DemandFactor(date); f > 0 {
			weatherFactor = f
		}
	}
	demandFactor := influence.DemandMultiplier * weatherFactor
	budgetFactor := influence.BudgetMultiplier * weatherFactor

	checkIn := models.AddDays(date, 1+g.rng.Intn(maxCheckInOffset))
	nights := 1 + weightedChoice(g.rng, stayLengthWeights)
	checkOut := models.AddDays(checkIn, nights)
	guests := 1 + weightedChoice(g.rng, partySizeWeights)

	preferred := ""
	if g.rng.Float64() < preferenceChance && len(g.roomTypes) > 0 {
		preferred = g.roomTypes[weightedChoice(g.rng, preferenceWeightsFor(guests, len(g.roomTypes)))]
	}

	base := g.meanRate
	if preferred != "" {
		base = g.baseRates[preferred]
	}
	variation := minBudgetFactor + g.rng.Float64()*(maxBudgetFactor-minBudgetFactor)
	budget := base * variation * budgetFactor

	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return nil, fmt.Errorf("request id: %w", err)
	}
	guest := g.guests.CreateGuest()

	req, err := models.NewReservationRequest(id.String(), checkIn, checkOut, guests, budget, models.RequestDetails{
		PreferredRoomType: preferred,
		GuestName:         guest.Name,
		GuestEmail:        guest.Email,
		DemandFactor:      demandFactor,
	})
	if err != nil {
		return nil, err
	}

	g.logger.Debug("request generated",
		"request", req.ID, "guests", req.Guests,
		"check_in", models.FormatDate(req.CheckIn), "check_out", models.FormatDate(req.CheckOut),
		"budget", budget, "preferred", preferred, "season", season)
	return req, nil
}

// GenerateBatch draws count requests for date, dropping any that fail validation.
func (g *Generator) GenerateBatch(date time.Time, count int) []*models.ReservationRequest {
	requests := make([]*models.ReservationRequest, 0, count)
	for i := 0; i < count; i++ {
		req, err := g.Generate(date)
		if err != nil {
			g.logger.Error("request dropped", "date", models.FormatDate(date), "err", err)
			continue
		}
		requests = append(requests, req)
	}

	g.logger.Info("requests generated", "date", models.FormatDate(date), "count", len(requests))
	return requests
}
