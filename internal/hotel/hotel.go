package hotel

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
)

// Hotel is the aggregate root over the room arena. Rooms are indexed by id and each keeps its
// stays sorted by check-in, so availability and coverage lookups are binary searches.
type Hotel struct {
	Name         string
	rooms        []*models.Room
	byID         map[int]*models.Room
	roomTypes    []models.RoomTypeConfig
	reservations map[string]*models.Room
	logger       *log.Logger
}

// New builds the inventory, numbering rooms from 1 in room-type configuration order.
func New(name string, roomTypes []models.RoomTypeConfig, logger *log.Logger) *Hotel {
	h := &Hotel{
		Name:         name,
		byID:         make(map[int]*models.Room),
		roomTypes:    roomTypes,
		reservations: make(map[string]*models.Room),
		logger:       logger.WithPrefix("hotel"),
	}

	roomID := 1
	for _, rt := range roomTypes {
		for i := 0; i < rt.Count; i++ {
			room := &models.Room{ID: roomID, Type: rt.Name, Capacity: rt.Capacity}
			h.rooms = append(h.rooms, room)
			h.byID[roomID] = room
			roomID++
		}
	}

	h.logger.Info("hotel initialised", "name", name, "rooms", len(h.rooms))
	return h
}

// Rooms returns the rooms in id order. Callers must not mutate them.
func (h *Hotel) Rooms() []*models.Room {
	return h.rooms
}

func (h *Hotel) Room(id int) (*models.Room, bool) {
	room, ok := h.byID[id]
	return room, ok
}

// RoomTypes returns the configured room types in configuration order.
func (h *Hotel) RoomTypes() []string {
	names := make([]string, 0, len(h.roomTypes))
	for _, rt := range h.roomTypes {
		names = append(names, rt.Name)
	}
	return names
}

// IsAvailable reports whether no stay on the room overlaps [in, out).
func (h *Hotel) IsAvailable(roomID int, in, out time.Time) bool {
	room, ok := h.byID[roomID]
	if !ok {
		return false
	}
	return isFree(room, models.Day(in), models.Day(out))
}

// FindCandidates lists rooms, in id order, that can hold guests for [in, out) and match roomType when given.
func (h *Hotel) FindCandidates(in, out time.Time, guests int, roomType string) []*models.Room {
	in, out = models.Day(in), models.Day(out)

	var candidates []*models.Room
	for _, room := range h.rooms {
		if roomType != "" && room.Type != roomType {
			continue
		}
		if room.Capacity < guests {
			continue
		}
		if isFree(room, in, out) {
			candidates = append(candidates, room)
		}
	}
	return candidates
}

// BestFit picks the smallest room that was offered, breaking ties on the lowest id.
func BestFit(candidates []*models.Room) *models.Room {
	var best *models.Room
	for _, room := range candidates {
		if best == nil ||
			room.Capacity < best.Capacity ||
			(room.Capacity == best.Capacity && room.ID < best.ID) {
			best = room
		}
	}
	return best
}

// Commit inserts the reservation's interval on the room and stamps the room onto the reservation.
func (h *Hotel) Commit(roomID int, reservation *models.Reservation) error {
	room, ok := h.byID[roomID]
	if !ok {
		return fmt.Errorf("commit reservation %s to room %d: %w", reservation.ID, roomID, models.ErrRoomNotFound)
	}
	if _, dup := h.reservations[reservation.ID]; dup {
		return fmt.Errorf("reservation %s is already committed", reservation.ID)
	}

	if reservation.Guests > room.Capacity {
		return &models.CapacityError{RoomID: room.ID, Capacity: room.Capacity, Guests: reservation.Guests}
	}

	in, out := models.Day(reservation.CheckIn), models.Day(reservation.CheckOut)
	if !isFree(room, in, out) {
		return &models.OverlapError{RoomID: room.ID, CheckIn: in, CheckOut: out}
	}

	idx := sort.Search(len(room.Stays), func(i int) bool {
		return !room.Stays[i].CheckIn.Before(in)
	})
	room.Stays = append(room.Stays, models.Stay{})
	copy(room.Stays[idx+1:], room.Stays[idx:])
	room.Stays[idx] = models.Stay{CheckIn: in, CheckOut: out, Reservation: reservation}

	reservation.RoomID = room.ID
	reservation.RoomType = room.Type
	h.reservations[reservation.ID] = room

	h.logger.Debug("reservation committed",
		"reservation", reservation.ID, "room", room.ID,
		"check_in", models.FormatDate(in), "check_out", models.FormatDate(out))
	return nil
}

// Book is the booking step: best-fit room of roomType for the reservation, then commit.
func (h *Hotel) Book(reservation *models.Reservation, roomType string) (*models.Room, error) {
	candidates := h.FindCandidates(reservation.CheckIn, reservation.CheckOut, reservation.Guests, roomType)
	room := BestFit(candidates)
	if room == nil {
		h.logger.Debug("no room available",
			"reservation", reservation.ID, "room_type", roomType,
			"check_in", models.FormatDate(reservation.CheckIn), "check_out", models.FormatDate(reservation.CheckOut))
		return nil, fmt.Errorf("book %s for %d guests: %w", roomType, reservation.Guests, models.ErrRoomNotFound)
	}

	if err := h.Commit(room.ID, reservation); err != nil {
		return nil, err
	}
	return room, nil
}

// Cancel frees the reservation's interval and marks it cancelled.
func (h *Hotel) Cancel(reservationID string) error {
	room, ok := h.reservations[reservationID]
	if !ok {
		return fmt.Errorf("cancel %s: %w", reservationID, models.ErrReservationUnknown)
	}

	for i, stay := range room.Stays {
		if stay.Reservation.ID != reservationID {
			continue
		}
		if err := stay.Reservation.Cancel(); err != nil {
			return fmt.Errorf("cancel %s: %w", reservationID, err)
		}
		room.Stays = append(room.Stays[:i], room.Stays[i+1:]...)
		delete(h.reservations, reservationID)
		h.logger.Info("reservation cancelled", "reservation", reservationID, "room", room.ID)
		return nil
	}
	return fmt.Errorf("cancel %s: %w", reservationID, models.ErrReservationUnknown)
}

// OccupancyRate is the share of rooms with a stay covering date; 0 for an empty hotel.
func (h *Hotel) OccupancyRate(date time.Time) float64 {
	if len(h.rooms) == 0 {
		return 0
	}
	date = models.Day(date)

	occupied := 0
	for _, room := range h.rooms {
		if _, ok := covering(room, date); ok {
			occupied++
		}
	}
	return float64(occupied) / float64(len(h.rooms))
}

// OccupancyForecast returns the occupancy for each of the days starting at start.
func (h *Hotel) OccupancyForecast(start time.Time, days int) map[string]float64 {
	forecast := make(map[string]float64, days)
	for day := 0; day < days; day++ {
		date := models.AddDays(start, day)
		forecast[models.FormatDate(date)] = h.OccupancyRate(date)
	}
	return forecast
}

// RevenueForDate amortises each covering stay's total price evenly over its nights.
func (h *Hotel) RevenueForDate(date time.Time) float64 {
	date = models.Day(date)

	revenue := 0.0
	for _, room := range h.rooms {
		stay, ok := covering(room, date)
		if !ok {
			continue
		}
		if nights := stay.Nights(); nights > 0 {
			revenue += stay.Reservation.TotalPrice / float64(nights)
		}
	}
	return revenue
}

// RoomTypeStats returns count and capacity per room type in configuration order.
func (h *Hotel) RoomTypeStats() []models.RoomTypeStats {
	stats := make([]models.RoomTypeStats, 0, len(h.roomTypes))
	for _, rt := range h.roomTypes {
		stats = append(stats, models.RoomTypeStats{Type: rt.Name, Count: rt.Count, Capacity: rt.Capacity})
	}
	return stats
}

// OccupiedByType counts occupied rooms per room type on date.
func (h *Hotel) OccupiedByType(date time.Time) map[string]int {
	date = models.Day(date)

	occupied := make(map[string]int, len(h.roomTypes))
	for _, rt := range h.roomTypes {
		occupied[rt.Name] = 0
	}
	for _, room := range h.rooms {
		if _, ok := covering(room, date); ok {
			occupied[room.Type]++
		}
	}
	return occupied
}

// isFree checks the neighbours of in's insertion point; sorted disjoint stays make that sufficient.
func isFree(room *models.Room, in, out time.Time) bool {
	idx := sort.Search(len(room.Stays), func(i int) bool {
		return !room.Stays[i].CheckIn.Before(in)
	})
	if idx > 0 && room.Stays[idx-1].Overlaps(in, out) {
		return false
	}
	if idx < len(room.Stays) && room.Stays[idx].Overlaps(in, out) {
		return false
	}
	return true
}

func covering(room *models.Room, date time.Time) (models.Stay, bool) {
	// first stay starting after date; only its predecessor can cover date
	idx := sort.Search(len(room.Stays), func(i int) bool {
		return room.Stays[i].CheckIn.After(date)
	})
	if idx > 0 && room.Stays[idx-1].Covers(date) {
		return room.Stays[idx-1], true
	}
	return models.Stay{}, false
}
