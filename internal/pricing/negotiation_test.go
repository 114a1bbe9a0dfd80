package pricing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/hotel"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

var _ = Describe("Negotiate", func() {
	var (
		engine *pricing.Engine
		h      *hotel.Hotel
	)

	checkIn := models.AddDays(mayTenth, 10)
	checkOut := models.AddDays(checkIn, 2)

	request := func(guests int, budget float64, preferred string) *models.ReservationRequest {
		req, err := models.NewReservationRequest("req", checkIn, checkOut, guests, budget,
			models.RequestDetails{PreferredRoomType: preferred})
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	BeforeEach(func() {
		engine = newEngine()
		h = hotel.New("Test Inn", []models.RoomTypeConfig{
			{Name: "standard", Count: 1, Capacity: 2},
			{Name: "suite", Count: 1, Capacity: 4},
		}, discard)
	})

	It("offers the cheapest type that fits when there is no preference", func() {
		offer := engine.Negotiate(request(2, 500, ""), h, mayTenth)
		Expect(offer.OK).To(BeTrue())
		Expect(offer.RoomType).To(Equal("standard"))
		Expect(offer.NightlyPrices).To(Equal([]int{100, 100}))
		Expect(offer.AveragePrice).To(Equal(100.0))
	})

	It("tries the preferred type first", func() {
		offer := engine.Negotiate(request(2, 500, "suite"), h, mayTenth)
		Expect(offer.OK).To(BeTrue())
		Expect(offer.RoomType).To(Equal("suite"))
	})

	It("falls back when the preferred type is full", func() {
		Expect(h.Commit(2, &models.Reservation{ID: "x", CheckIn: checkIn, CheckOut: checkOut, Guests: 1})).To(Succeed())
		offer := engine.Negotiate(request(2, 500, "suite"), h, mayTenth)
		Expect(offer.OK).To(BeTrue())
		Expect(offer.RoomType).To(Equal("standard"))
	})

	It("falls back when the preferred type is over budget", func() {
		offer := engine.Negotiate(request(1, 150, "suite"), h, mayTenth)
		Expect(offer.OK).To(BeTrue())
		Expect(offer.RoomType).To(Equal("standard"))
	})

	It("skips an unknown preferred type", func() {
		offer := engine.Negotiate(request(1, 500, "penthouse"), h, mayTenth)
		Expect(offer.OK).To(BeTrue())
		Expect(offer.RoomType).To(Equal("standard"))
	})

	It("refuses when nothing is affordable", func() {
		offer := engine.Negotiate(request(1, 50, ""), h, mayTenth)
		Expect(offer.OK).To(BeFalse())
		Expect(offer.Reason).To(Equal(models.RejectionOverBudget))
	})

	It("refuses a party too large for every room", func() {
		small := hotel.New("Tiny", []models.RoomTypeConfig{{Name: "single", Count: 3, Capacity: 1}}, discard)
		cfg := testPricingConfig()
		cfg.BaseRates = map[string]float64{"single": 60}
		singles := pricing.NewEngine(cfg, []string{"single"}, discard)

		offer := singles.Negotiate(request(2, 1000, ""), small, mayTenth)
		Expect(offer.OK).To(BeFalse())
		Expect(offer.RoomType).To(BeEmpty())
		Expect(offer.NightlyPrices).To(BeEmpty())
		Expect(offer.Reason).To(Equal(models.RejectionNoRoom))
	})

	It("prices against the booking date", func() {
		// booked 10 days ahead: advance multiplier 1.0; booked on check-in eve: 1.1
		early := engine.Negotiate(request(1, 500, ""), h, mayTenth)
		late := engine.Negotiate(request(1, 500, ""), h, models.AddDays(checkIn, -1))
		Expect(early.NightlyPrices).To(Equal([]int{100, 100}))
		Expect(late.NightlyPrices).To(Equal([]int{110, 110}))
	})
})
