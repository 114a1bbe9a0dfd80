package simulator

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

var _ = Describe("processDailyRequests", func() {
	var (
		sim  *Simulator
		date time.Time
	)

	BeforeEach(func() {
		cfg := models.DefaultConfig()
		cfg.Hotel.RoomTypes = []models.RoomTypeConfig{{Name: "single", Count: 1, Capacity: 2}}
		cfg.Pricing.BaseRates = map[string]float64{"single": 100}
		date = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
		cfg.Simulation.StartDate = date
		Expect(cfg.Validate()).To(Succeed())
		sim = NewSimulator(cfg, log.New(io.Discard))
	})

	request := func(id string, from, nights int) *models.ReservationRequest {
		req, err := models.NewReservationRequest(id, models.AddDays(date, from), models.AddDays(date, from+nights), 2, 1000,
			models.RequestDetails{})
		Expect(err).ToNot(HaveOccurred())
		return req
	}

	It("accepts the first of two overlapping requests for the only room and rejects the second", func() {
		stats := sim.processDailyRequests([]*models.ReservationRequest{
			request("first", 5, 3),
			request("second", 6, 2),
		}, date)

		Expect(stats.Requests).To(Equal(2))
		Expect(stats.Accepted).To(Equal(1))
		Expect(stats.Rejected).To(Equal(1))
		Expect(sim.Reservations).To(HaveLen(1))
		Expect(sim.Reservations[0].RequestID).To(Equal("first"))
		Expect(stats.RejectedByReason).To(HaveKeyWithValue(models.RejectionNoRoom, 1))
	})

	It("rejects an offer whose room was committed after it was negotiated", func() {
		first, second := request("first", 5, 3), request("second", 6, 2)
		firstOffer := sim.Engine.Negotiate(first, sim.Hotel, date)
		secondOffer := sim.Engine.Negotiate(second, sim.Hotel, date)
		Expect(firstOffer.OK).To(BeTrue())
		Expect(secondOffer.OK).To(BeTrue())

		stats := DailyStats{RejectedByReason: make(map[string]int)}
		sim.settle(&stats, first, firstOffer, date)
		sim.settle(&stats, second, secondOffer, date)

		Expect(stats.Accepted).To(Equal(1))
		Expect(stats.Rejected).To(Equal(1))
		Expect(stats.RejectedByReason).To(HaveKeyWithValue(models.RejectionCommit, 1))
		Expect(sim.Reservations).To(HaveLen(1))
		Expect(sim.Reservations[0].RequestID).To(Equal("first"))
		Expect(sim.Hotel.OccupancyRate(models.AddDays(date, 6))).To(Equal(1.0))
	})

	It("refuses a direct commit of the overlapping stay", func() {
		sim.processDailyRequests([]*models.ReservationRequest{request("first", 5, 3)}, date)

		offer := pricing.Offer{OK: true, RoomType: "single", AveragePrice: 100, NightlyPrices: []int{100, 100}}
		second := sim.factory.CreateReservation(request("second", 6, 2), offer, date)
		err := sim.Hotel.Commit(1, second)
		Expect(models.IsOverlapError(err)).ToNot(BeNil())
	})
})
