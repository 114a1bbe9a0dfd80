package pricing

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
)

// roundingTolerance absorbs float noise such as 100*1.1 = 110.00000000000001 before rounding up.
const roundingTolerance = 1e-9

// Context is the breakdown behind one computed price. It is derived on demand and never stored.
type Context struct {
	Season              string  `json:"season"`
	SeasonMultiplier    float64 `json:"season_multiplier"`
	OccupancyMultiplier float64 `json:"occupancy_multiplier"`
	AdvanceMultiplier   float64 `json:"advance_multiplier"`
	TotalMultiplier     float64 `json:"total_multiplier"`
}

type Engine struct {
	baseRates         map[string]float64
	roomTypes         []string
	thresholds        []float64
	multipliers       []float64
	seasonMultipliers map[string]float64
	advanceTiers      []models.AdvanceBookingTier
	minMultiplier     float64
	maxMultiplier     float64
	calendar          *SeasonCalendar
	logger            *log.Logger
}

// NewEngine builds a pricing engine from validated configuration. roomTypes fixes the fallback order used by Negotiate.
func NewEngine(cfg models.PricingConfig, roomTypes []string, logger *log.Logger) *Engine {
	tiers := make([]models.AdvanceBookingTier, len(cfg.AdvanceBooking))
	copy(tiers, cfg.AdvanceBooking)
	// descending, so the first tier not above the advance wins
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].MinDays > tiers[j].MinDays })

	e := &Engine{
		baseRates:         cfg.BaseRates,
		roomTypes:         roomTypes,
		thresholds:        cfg.OccupancyThresholds,
		multipliers:       cfg.PriceMultipliers,
		seasonMultipliers: cfg.SeasonMultipliers,
		advanceTiers:      tiers,
		minMultiplier:     cfg.MinMultiplier,
		maxMultiplier:     cfg.MaxMultiplier,
		calendar:          NewSeasonCalendar(cfg.Seasons),
		logger:            logger.WithPrefix("pricing"),
	}
	e.logger.Info("revenue manager initialised", "room_types", len(roomTypes))
	return e
}

func (e *Engine) Calendar() *SeasonCalendar {
	return e.calendar
}

func (e *Engine) RoomTypes() []string {
	return e.roomTypes
}

func (e *Engine) BaseRate(roomType string) (float64, bool) {
	rate, ok := e.baseRates[roomType]
	return rate, ok
}

// Price computes the nightly price of roomType for the night of date. bookingDate is optional.
func (e *Engine) Price(roomType string, date time.Time, occupancyRate float64, bookingDate *time.Time) (int, error) {
	base, ok := e.baseRates[roomType]
	if !ok {
		return 0, fmt.Errorf("price %q: %w", roomType, models.ErrUnknownRoomType)
	}

	pc := e.Context(date, occupancyRate, bookingDate)
	price := RoundUp(base * pc.TotalMultiplier)

	e.logger.Debug("price computed",
		"room_type", roomType, "date", models.FormatDate(date),
		"occupancy", occupancyRate, "multiplier", pc.TotalMultiplier, "price", price)
	return price, nil
}

// Context derives the multipliers that apply to date.
func (e *Engine) Context(date time.Time, occupancyRate float64, bookingDate *time.Time) Context {
	season := e.calendar.SeasonFor(date)
	seasonMult, ok := e.seasonMultipliers[season]
	if !ok {
		seasonMult = 1.0
	}

	advanceMult := 1.0
	if bookingDate != nil {
		advanceMult = e.AdvanceMultiplier(models.DaysBetween(*bookingDate, date))
	}

	occupancyMult := e.OccupancyMultiplier(occupancyRate)
	total := seasonMult * occupancyMult * advanceMult

	return Context{
		Season:              season,
		SeasonMultiplier:    seasonMult,
		OccupancyMultiplier: occupancyMult,
		AdvanceMultiplier:   advanceMult,
		TotalMultiplier:     math.Max(e.minMultiplier, math.Min(e.maxMultiplier, total)),
	}
}

// OccupancyMultiplier picks the multiplier of the highest threshold not above rate; 1.0 below every threshold.
func (e *Engine) OccupancyMultiplier(rate float64) float64 {
	multiplier := 1.0
	for i, threshold := range e.thresholds {
		if rate >= threshold {
			multiplier = e.multipliers[i]
		}
	}
	return multiplier
}

// AdvanceMultiplier picks the tier with the largest min-days not above daysInAdvance.
// Negative advances resolve to the 0-day tier.
func (e *Engine) AdvanceMultiplier(daysInAdvance int) float64 {
	if daysInAdvance < 0 {
		daysInAdvance = 0
	}
	for _, tier := range e.advanceTiers {
		if daysInAdvance >= tier.MinDays {
			return tier.Multiplier
		}
	}
	return 1.0
}

// PricesForStay prices every night in [checkIn, checkOut), each against that night's occupancy.
func (e *Engine) PricesForStay(roomType string, checkIn, checkOut time.Time, occupancy OccupancySource, bookingDate *time.Time) ([]int, error) {
	nights := models.DaysBetween(checkIn, checkOut)
	prices := make([]int, 0, max(nights, 0))

	for night := 0; night < nights; night++ {
		date := models.AddDays(checkIn, night)
		price, err := e.Price(roomType, date, occupancy.OccupancyRate(date), bookingDate)
		if err != nil {
			return nil, err
		}
		prices = append(prices, price)
	}
	return prices, nil
}

// RoundUp rounds a price up to the next whole unit. Prices are never rounded down.
func RoundUp(amount float64) int {
	return int(math.Ceil(amount - roundingTolerance))
}

// AveragePrice is the mean of the nightly prices, 0 for an empty sequence.
func AveragePrice(prices []int) float64 {
	if len(prices) == 0 {
		return 0
	}
	sum := 0
	for _, p := range prices {
		sum += p
	}
	return float64(sum) / float64(len(prices))
}
