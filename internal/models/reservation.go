package models

import (
	"time"
)

// ReservationRequest is a guest's demand for a stay. It is immutable once constructed.
type ReservationRequest struct {
	ID                string    `json:"request_id"`
	CheckIn           time.Time `json:"check_in_date"`
	CheckOut          time.Time `json:"check_out_date"`
	Guests            int       `json:"guests"`
	MaxBudget         float64   `json:"max_budget"` // per night
	PreferredRoomType string    `json:"preferred_room_type,omitempty"`
	GuestName         string    `json:"guest_name,omitempty"`
	GuestEmail        string    `json:"guest_email,omitempty"`
	DemandFactor      float64   `json:"demand_factor"`
}

// RequestDetails carries the optional parts of a request.
type RequestDetails struct {
	PreferredRoomType string
	GuestName         string
	GuestEmail        string
	DemandFactor      float64
}

// NewReservationRequest validates and builds a request. Invalid dates or party size yield a *ValidationError.
func NewReservationRequest(id string, checkIn, checkOut time.Time, guests int, maxBudget float64, details RequestDetails) (*ReservationRequest, error) {
	verr := newValidationError()

	if id == "" {
		verr.addError("request_id", "provide a request id")
	}
	if !Day(checkIn).Before(Day(checkOut)) {
		verr.addError("check_in_date", "check-in must be before check-out")
	}
	if guests < 1 {
		verr.addError("guests", "at least one guest is required")
	}
	if maxBudget <= 0 {
		verr.addError("max_budget", "budget must be positive")
	}

	if verr.fieldsCount() > 0 {
		return nil, verr
	}

	return &ReservationRequest{
		ID:                id,
		CheckIn:           Day(checkIn),
		CheckOut:          Day(checkOut),
		Guests:            guests,
		MaxBudget:         maxBudget,
		PreferredRoomType: details.PreferredRoomType,
		GuestName:         details.GuestName,
		GuestEmail:        details.GuestEmail,
		DemandFactor:      details.DemandFactor,
	}, nil
}

func (r *ReservationRequest) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

func (r *ReservationRequest) CanAfford(pricePerNight float64) bool {
	return pricePerNight <= r.MaxBudget
}

type Reservation struct {
	ID                string    `json:"reservation_id"`
	RequestID         string    `json:"request_id"`
	CheckIn           time.Time `json:"check_in_date"`
	CheckOut          time.Time `json:"check_out_date"`
	Guests            int       `json:"guests"`
	PreferredRoomType string    `json:"preferred_room_type,omitempty"`
	GuestName         string    `json:"guest_name,omitempty"`
	RoomID            int       `json:"room_id"`
	RoomType          string    `json:"room_type"`
	PricePerNight     float64   `json:"price_per_night"`
	NightlyPrices     []int     `json:"nightly_prices"`
	TotalPrice        float64   `json:"total_price"`
	BookedOn          time.Time `json:"booked_on"`
	CreatedAt         time.Time `json:"creation_date"`
	Status            string    `json:"status"`
}

func (r *Reservation) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

// Cancel moves a confirmed reservation to cancelled.
func (r *Reservation) Cancel() error {
	if r.Status != ReservationStatusConfirmed {
		return ErrReservationClosed
	}
	r.Status = ReservationStatusCancelled
	return nil
}

// Complete marks the reservation completed once today has reached check-out.
func (r *Reservation) Complete(today time.Time) bool {
	if r.Status != ReservationStatusConfirmed || Day(today).Before(r.CheckOut) {
		return false
	}
	r.Status = ReservationStatusCompleted
	return true
}
