package repositories

import (
	"context"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

// OccupancySnapshot is one exported day of the occupancy window.
type OccupancySnapshot struct {
	Date          time.Time
	OccupancyRate float64
	Revenue       float64
	RoomTypes     []RoomTypeOccupancy
}

type RoomTypeOccupancy struct {
	RoomType      string  `json:"room_type"`
	Total         int     `json:"total"`
	Occupied      int     `json:"occupied"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type ReservationRepository interface {
	BulkUpsert(ctx context.Context, reservations []*models.Reservation) error
	GetAll(ctx context.Context) ([]*models.Reservation, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type OccupancyRepository interface {
	BulkUpsert(ctx context.Context, snapshots []OccupancySnapshot) error
	GetRange(ctx context.Context, start, end time.Time) ([]OccupancySnapshot, error)
	DeleteAll(ctx context.Context) error
}

type RevenueAnalysisRepository interface {
	Create(ctx context.Context, runName string, analysis pricing.RevenueAnalysis) error
	DeleteAll(ctx context.Context) error
}

type PriceSuggestionRepository interface {
	BulkCreate(ctx context.Context, runName string, suggestions []pricing.PriceSuggestion) error
	GetLatest(ctx context.Context) ([]pricing.PriceSuggestion, error)
	DeleteAll(ctx context.Context) error
}
