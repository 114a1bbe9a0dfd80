package pricing

import (
	"sort"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
)

// OccupancySource answers the occupancy rate of a night.
type OccupancySource interface {
	OccupancyRate(date time.Time) float64
}

// Inventory is what negotiation needs from the hotel: per-night occupancy and room availability.
type Inventory interface {
	OccupancySource
	FindCandidates(in, out time.Time, guests int, roomType string) []*models.Room
}

// Offer is the outcome of a negotiation. A zero Offer is a refusal; Reason explains it.
type Offer struct {
	OK            bool
	RoomType      string
	AveragePrice  float64
	NightlyPrices []int
	Reason        string
}

// NoOffer is returned when no room type is both affordable and available.
func NoOffer(reason string) Offer {
	return Offer{Reason: reason}
}

// Negotiate finds the first room type the guest can afford and the hotel can host.
// A preferred type is tried first, then every other type in configured order. Without a
// preference, types are tried from the cheapest base rate up.
func (e *Engine) Negotiate(req *models.ReservationRequest, inv Inventory, currentDate time.Time) Offer {
	bookingDate := models.Day(currentDate)

	var order []string
	if req.PreferredRoomType != "" {
		order = append(order, req.PreferredRoomType)
		for _, rt := range e.roomTypes {
			if rt != req.PreferredRoomType {
				order = append(order, rt)
			}
		}
	} else {
		order = e.byBaseRate()
	}

	priced, affordable := false, false
	for _, roomType := range order {
		prices, err := e.PricesForStay(roomType, req.CheckIn, req.CheckOut, inv, &bookingDate)
		if err != nil {
			e.logger.Warn("skipping room type", "request", req.ID, "room_type", roomType, "err", err)
			continue
		}
		priced = true

		avg := AveragePrice(prices)
		if !req.CanAfford(avg) {
			e.logger.Debug("over budget", "request", req.ID, "room_type", roomType,
				"average_price", avg, "budget", req.MaxBudget)
			continue
		}
		affordable = true

		if len(inv.FindCandidates(req.CheckIn, req.CheckOut, req.Guests, roomType)) == 0 {
			e.logger.Debug("no room available", "request", req.ID, "room_type", roomType)
			continue
		}

		return Offer{OK: true, RoomType: roomType, AveragePrice: avg, NightlyPrices: prices}
	}

	switch {
	case !priced:
		return NoOffer(models.RejectionNoOffer)
	case !affordable:
		return NoOffer(models.RejectionOverBudget)
	default:
		return NoOffer(models.RejectionNoRoom)
	}
}

// byBaseRate returns the room types by ascending base rate, keeping configured order on ties.
func (e *Engine) byBaseRate() []string {
	order := make([]string, len(e.roomTypes))
	copy(order, e.roomTypes)
	sort.SliceStable(order, func(i, j int) bool {
		return e.baseRates[order[i]] < e.baseRates[order[j]]
	})
	return order
}
