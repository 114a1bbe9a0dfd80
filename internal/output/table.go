package output

import (
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

type ColumnKind int

const (
	KindString ColumnKind = iota
	KindInt
	KindFloat
)

const (
	TableReservations     = "reservations"
	TableOccupancy        = "occupancy"
	TableRevenueAnalysis  = "revenue_analysis"
	TablePriceSuggestions = "price_suggestions"

	// TotalRowLabel marks the aggregate row of a revenue analysis.
	TotalRowLabel = "TOTAL"
)

type Column struct {
	Name string
	Kind ColumnKind
}

// Table is the tabular shape every exporter writes. Kind names the dataset; Name is the file stem.
// A nil cell is a missing value.
type Table struct {
	Kind    string
	Name    string
	Columns []Column
	Rows    [][]any
}

func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// OccupancyView is the hotel as seen by the occupancy export.
type OccupancyView interface {
	OccupancyRate(date time.Time) float64
	RevenueForDate(date time.Time) float64
	RoomTypeStats() []models.RoomTypeStats
	OccupiedByType(date time.Time) map[string]int
}

func ReservationsTable(reservations []*models.Reservation, name string) *Table {
	t := &Table{
		Kind: TableReservations,
		Name: name,
		Columns: []Column{
			{"reservation_id", KindString},
			{"request_id", KindString},
			{"check_in_date", KindString},
			{"check_out_date", KindString},
			{"guests", KindInt},
			{"preferred_room_type", KindString},
			{"room_id", KindInt},
			{"room_type", KindString},
			{"price_per_night", KindFloat},
			{"total_price", KindFloat},
			{"status", KindString},
			{"creation_date", KindString},
		},
	}

	for _, res := range reservations {
		var preferred any
		if res.PreferredRoomType != "" {
			preferred = res.PreferredRoomType
		}
		t.Rows = append(t.Rows, []any{
			res.ID,
			res.RequestID,
			models.FormatDate(res.CheckIn),
			models.FormatDate(res.CheckOut),
			res.Guests,
			preferred,
			res.RoomID,
			res.RoomType,
			res.PricePerNight,
			res.TotalPrice,
			res.Status,
			res.CreatedAt.Format(time.RFC3339),
		})
	}
	return t
}

// OccupancyTable has one row per day with hotel-wide figures followed by per room type counts.
func OccupancyTable(view OccupancyView, start time.Time, days int, name string) *Table {
	stats := view.RoomTypeStats()

	t := &Table{
		Kind: TableOccupancy,
		Name: name,
		Columns: []Column{
			{"date", KindString},
			{"occupancy_rate", KindFloat},
			{"revenue", KindFloat},
		},
	}
	for _, rt := range stats {
		t.Columns = append(t.Columns,
			Column{rt.Type + "_total", KindInt},
			Column{rt.Type + "_occupied", KindInt},
			Column{rt.Type + "_occupancy_rate", KindFloat},
		)
	}

	for day := 0; day < days; day++ {
		date := models.AddDays(start, day)
		occupied := view.OccupiedByType(date)

		row := []any{models.FormatDate(date), view.OccupancyRate(date), view.RevenueForDate(date)}
		for _, rt := range stats {
			rate := 0.0
			if rt.Count > 0 {
				rate = float64(occupied[rt.Type]) / float64(rt.Count)
			}
			row = append(row, rt.Count, occupied[rt.Type], rate)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// RevenueAnalysisTable starts with the TOTAL row, then one row per day of the window.
func RevenueAnalysisTable(analysis pricing.RevenueAnalysis, name string) *Table {
	t := &Table{
		Kind: TableRevenueAnalysis,
		Name: name,
		Columns: []Column{
			{"date", KindString},
			{"total_revenue", KindFloat},
			{"average_daily_revenue", KindFloat},
			{"average_occupancy", KindFloat},
			{"revenue", KindFloat},
			{"occupancy_rate", KindFloat},
		},
	}

	t.Rows = append(t.Rows, []any{
		TotalRowLabel,
		analysis.TotalRevenue,
		analysis.AverageDailyRevenue,
		analysis.AverageOccupancy,
		nil,
		nil,
	})
	for _, d := range analysis.Daily {
		t.Rows = append(t.Rows, []any{models.FormatDate(d.Date), nil, nil, nil, d.Revenue, d.OccupancyRate})
	}
	return t
}

func PriceSuggestionsTable(suggestions []pricing.PriceSuggestion, name string) *Table {
	t := &Table{
		Kind: TablePriceSuggestions,
		Name: name,
		Columns: []Column{
			{"room_type", KindString},
			{"current_base_price", KindFloat},
			{"suggested_adjustment_pct", KindFloat},
			{"suggested_new_base", KindFloat},
			{"reason", KindString},
		},
	}
	for _, s := range suggestions {
		t.Rows = append(t.Rows, []any{s.RoomType, s.CurrentBasePrice, s.SuggestedAdjustmentPct, s.SuggestedNewBase, s.Reason})
	}
	return t
}
