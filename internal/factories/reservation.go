package factories

import (
	"time"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/lucsky/cuid"
)

type ReservationFactory struct {
	now func() time.Time
}

func NewReservationFactory() *ReservationFactory {
	return &ReservationFactory{now: time.Now}
}

// CreateReservation settles a request at the negotiated offer. The reservation is confirmed but not yet
// committed to a room; the hotel stamps the room on commit.
func (rf *ReservationFactory) CreateReservation(req *models.ReservationRequest, offer pricing.Offer, bookedOn time.Time) *models.Reservation {
	nightly := make([]int, len(offer.NightlyPrices))
	copy(nightly, offer.NightlyPrices)

	return &models.Reservation{
		ID:                cuid.New(),
		RequestID:         req.ID,
		CheckIn:           req.CheckIn,
		CheckOut:          req.CheckOut,
		Guests:            req.Guests,
		PreferredRoomType: req.PreferredRoomType,
		GuestName:         req.GuestName,
		RoomType:          offer.RoomType,
		PricePerNight:     offer.AveragePrice,
		NightlyPrices:     nightly,
		TotalPrice:        offer.AveragePrice * float64(req.Nights()),
		BookedOn:          models.Day(bookedOn),
		CreatedAt:         rf.now(),
		Status:            models.ReservationStatusConfirmed,
	}
}
