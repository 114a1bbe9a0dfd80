package pricing

import (
	"math"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
)

// RevenueSource is the hotel as seen by revenue analysis.
type RevenueSource interface {
	OccupancySource
	RevenueForDate(date time.Time) float64
}

type DailyFigures struct {
	Date          time.Time `json:"date"`
	Revenue       float64   `json:"revenue"`
	OccupancyRate float64   `json:"occupancy_rate"`
}

type RevenueAnalysis struct {
	Start               time.Time      `json:"start_date"`
	Days                int            `json:"days"`
	TotalRevenue        float64        `json:"total_revenue"`
	AverageDailyRevenue float64        `json:"average_daily_revenue"`
	AverageOccupancy    float64        `json:"average_occupancy"`
	Daily               []DailyFigures `json:"daily"`
}

type PriceSuggestion struct {
	RoomType               string  `json:"room_type"`
	CurrentBasePrice       float64 `json:"current_base_price"`
	SuggestedAdjustmentPct float64 `json:"suggested_adjustment_pct"`
	SuggestedNewBase       float64 `json:"suggested_new_base"`
	Reason                 string  `json:"reason"`
}

// AnalyzeRevenue sums revenue and averages occupancy over days nights starting at start.
func (e *Engine) AnalyzeRevenue(source RevenueSource, start time.Time, days int) RevenueAnalysis {
	analysis := RevenueAnalysis{Start: models.Day(start), Days: days}
	if days <= 0 {
		return analysis
	}

	occupancySum := 0.0
	for day := 0; day < days; day++ {
		date := models.AddDays(start, day)
		figures := DailyFigures{
			Date:          date,
			Revenue:       source.RevenueForDate(date),
			OccupancyRate: source.OccupancyRate(date),
		}
		analysis.Daily = append(analysis.Daily, figures)
		analysis.TotalRevenue += figures.Revenue
		occupancySum += figures.OccupancyRate
	}
	analysis.AverageDailyRevenue = analysis.TotalRevenue / float64(days)
	analysis.AverageOccupancy = occupancySum / float64(days)

	e.logger.Info("revenue analysed",
		"start", models.FormatDate(analysis.Start), "days", days,
		"total_revenue", math.Round(analysis.TotalRevenue*100)/100,
		"average_occupancy", analysis.AverageOccupancy)
	return analysis
}

// SuggestPriceAdjustments proposes new base rates from the window's average occupancy.
// Suggestions are informational and never change live pricing.
func (e *Engine) SuggestPriceAdjustments(analysis RevenueAnalysis) []PriceSuggestion {
	adjustment, reason := AdjustmentFor(analysis.AverageOccupancy)

	suggestions := make([]PriceSuggestion, 0, len(e.roomTypes))
	for _, roomType := range e.roomTypes {
		base := e.baseRates[roomType]
		suggestions = append(suggestions, PriceSuggestion{
			RoomType:               roomType,
			CurrentBasePrice:       base,
			SuggestedAdjustmentPct: math.Round(adjustment*10000) / 100,
			SuggestedNewBase:       math.RoundToEven(base * (1 + adjustment)),
			Reason:                 reason,
		})
	}

	e.logger.Info("price adjustments suggested", "average_occupancy", analysis.AverageOccupancy,
		"adjustment", adjustment, "reason", reason)
	return suggestions
}

// AdjustmentFor maps an average occupancy to a relative base-rate change and its reason.
func AdjustmentFor(averageOccupancy float64) (float64, string) {
	switch {
	case averageOccupancy < 0.5:
		return -0.10, "low occupancy"
	case averageOccupancy > 0.85:
		return 0.15, "high occupancy"
	case averageOccupancy < 0.65:
		return -0.05, "moderate occupancy"
	case averageOccupancy > 0.75:
		return 0.05, "good occupancy"
	default:
		return 0, "optimal occupancy"
	}
}
