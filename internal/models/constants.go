package models

const (
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusCompleted = "completed"

	SeasonHigh   = "high"
	SeasonMedium = "medium"
	SeasonLow    = "low"

	// DefaultSeason applies to dates that match no configured range.
	DefaultSeason = SeasonMedium

	WeatherSunny  = "sunny"
	WeatherCloudy = "cloudy"
	WeatherRainy  = "rainy"
	WeatherSnowy  = "snowy"

	RejectionNoOffer    = "no_offer"
	RejectionOverBudget = "over_budget"
	RejectionNoRoom     = "no_room"
	RejectionCommit     = "commit_failed"
)
