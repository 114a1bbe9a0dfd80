package simulator

import (
	"fmt"
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/goccy/go-json"
)

const (
	EventReservationConfirmed = "reservation_confirmed"
	EventRequestRejected      = "request_rejected"
	EventReservationCompleted = "reservation_completed"

	TopicReservations = "hotel_reservation_events"
	TopicRejections   = "hotel_rejection_events"
)

// EventDestination receives serialized booking events. Destinations that hold resources also implement io.Closer.
type EventDestination interface {
	WriteMessage(topic string, msg []byte) error
}

type EventMessage struct {
	Topic   string
	Message []byte
}

// BaseEvent is the common structure for all booking events
type BaseEvent struct {
	Timestamp     int64  `json:"timestamp"`
	EventType     string `json:"eventType"`
	SimulatedDate string `json:"simulatedDate"`
	RequestID     string `json:"requestId"`
}

type ReservationEvent struct {
	BaseEvent
	ReservationID string  `json:"reservationId"`
	RoomID        int     `json:"roomId"`
	RoomType      string  `json:"roomType"`
	CheckIn       string  `json:"checkInDate"`
	CheckOut      string  `json:"checkOutDate"`
	Guests        int     `json:"guests"`
	PricePerNight float64 `json:"pricePerNight"`
	NightlyPrices []int   `json:"nightlyPrices,omitempty"`
	TotalPrice    float64 `json:"totalPrice"`
	Status        string  `json:"status"`
}

type RejectionEvent struct {
	BaseEvent
	CheckIn           string  `json:"checkInDate"`
	CheckOut          string  `json:"checkOutDate"`
	Guests            int     `json:"guests"`
	MaxBudget         float64 `json:"maxBudget"`
	PreferredRoomType string  `json:"preferredRoomType,omitempty"`
	Reason            string  `json:"reason"`
}

func NewBaseEvent(eventType string, simulated time.Time, requestID string, now time.Time) BaseEvent {
	return BaseEvent{
		Timestamp:     now.Unix(),
		EventType:     eventType,
		SimulatedDate: models.FormatDate(simulated),
		RequestID:     requestID,
	}
}

func reservationEvent(eventType string, res *models.Reservation, simulated, now time.Time) (EventMessage, error) {
	event := ReservationEvent{
		BaseEvent:     NewBaseEvent(eventType, simulated, res.RequestID, now),
		ReservationID: res.ID,
		RoomID:        res.RoomID,
		RoomType:      res.RoomType,
		CheckIn:       models.FormatDate(res.CheckIn),
		CheckOut:      models.FormatDate(res.CheckOut),
		Guests:        res.Guests,
		PricePerNight: res.PricePerNight,
		NightlyPrices: res.NightlyPrices,
		TotalPrice:    res.TotalPrice,
		Status:        res.Status,
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return EventMessage{}, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return EventMessage{Topic: TopicReservations, Message: msg}, nil
}

func rejectionEvent(req *models.ReservationRequest, reason string, simulated, now time.Time) (EventMessage, error) {
	event := RejectionEvent{
		BaseEvent:         NewBaseEvent(EventRequestRejected, simulated, req.ID, now),
		CheckIn:           models.FormatDate(req.CheckIn),
		CheckOut:          models.FormatDate(req.CheckOut),
		Guests:            req.Guests,
		MaxBudget:         req.MaxBudget,
		PreferredRoomType: req.PreferredRoomType,
		Reason:            reason,
	}
	msg, err := json.Marshal(event)
	if err != nil {
		return EventMessage{}, fmt.Errorf("failed to marshal %s event: %w", EventRequestRejected, err)
	}
	return EventMessage{Topic: TopicRejections, Message: msg}, nil
}
