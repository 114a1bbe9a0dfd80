package simulator_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/simulator"
)

type booking struct {
	requestID string
	roomID    int
	roomType  string
	nightly   []int
}

func bookings(result *simulator.Result) []booking {
	out := make([]booking, 0, len(result.Reservations))
	for _, res := range result.Reservations {
		out = append(out, booking{res.RequestID, res.RoomID, res.RoomType, res.NightlyPrices})
	}
	return out
}

var _ = Describe("Simulator", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("is deterministic for equal configurations", func() {
		a, err := simulator.NewSimulator(testConfig(), discard).Run(ctx)
		Expect(err).ToNot(HaveOccurred())
		b, err := simulator.NewSimulator(testConfig(), discard).Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		Expect(a.TotalReservations).To(BeNumerically(">", 0))
		Expect(bookings(a)).To(Equal(bookings(b)))
		Expect(a.TotalRevenue).To(Equal(b.TotalRevenue))
		Expect(a.Daily).To(Equal(b.Daily))
	})

	It("accounts for every request each day", func() {
		result, err := simulator.NewSimulator(testConfig(), discard).Run(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Daily).To(HaveLen(10))

		accepted := 0
		for _, day := range result.Daily {
			Expect(day.Accepted + day.Rejected).To(Equal(day.Requests))
			reasons := 0
			for _, n := range day.RejectedByReason {
				reasons += n
			}
			Expect(reasons).To(Equal(day.Rejected))
			Expect(day.OccupancyRate).To(BeNumerically(">=", 0))
			Expect(day.OccupancyRate).To(BeNumerically("<=", 1))
			accepted += day.Accepted
		}
		Expect(accepted).To(Equal(result.TotalReservations))
	})

	It("books every reservation on the negotiated type without overlaps", func() {
		sim := simulator.NewSimulator(testConfig(), discard)
		_, err := sim.Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		for _, res := range sim.Reservations {
			room, ok := sim.Hotel.Room(res.RoomID)
			Expect(ok).To(BeTrue())
			Expect(room.Type).To(Equal(res.RoomType))
			Expect(res.Guests).To(BeNumerically("<=", room.Capacity))
			Expect(res.NightlyPrices).To(HaveLen(res.Nights()))
		}
		for _, room := range sim.Hotel.Rooms() {
			for i := 1; i < len(room.Stays); i++ {
				Expect(room.Stays[i-1].Overlaps(room.Stays[i].CheckIn, room.Stays[i].CheckOut)).To(BeFalse())
			}
		}
	})

	It("exports on every interval and on the last day", func() {
		exporter := &recordingExporter{}
		sim := simulator.NewSimulator(testConfig(), discard, simulator.WithExporter(exporter))
		_, err := sim.Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		Expect(exporter.names("reservations")).To(Equal([]string{
			"reservations_2025-05-04", "reservations_2025-05-08", "reservations_2025-05-10",
		}))
		Expect(exporter.names("price_suggestions")).To(ConsistOf(
			"price_suggestions_2025-05-04", "price_suggestions_2025-05-08", "price_suggestions_2025-05-10",
		))
		// the analysis window never reaches before the first simulated day
		Expect(exporter.calls[1]).To(Equal(exportCall{kind: "occupancy", name: "occupancy_2025-05-04", rows: 4}))
		Expect(sim.LatestAnalysis()).ToNot(BeNil())
		Expect(sim.LatestAnalysis().Days).To(Equal(10))
		Expect(sim.Suggestions()).To(HaveLen(3))
	})

	It("keeps running when exports fail", func() {
		exporter := &recordingExporter{err: errExportDown}
		result, err := simulator.NewSimulator(testConfig(), discard, simulator.WithExporter(exporter)).Run(ctx)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Daily).To(HaveLen(10))
		Expect(exporter.calls).To(HaveLen(12))
	})

	It("publishes an event per decision", func() {
		dest := newMemoryDestination()
		result, err := simulator.NewSimulator(testConfig(), discard, simulator.WithEventDestination(dest)).Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		rejected := 0
		for _, day := range result.Daily {
			rejected += day.Rejected
		}
		Expect(dest.messages[simulator.TopicRejections]).To(HaveLen(rejected))
		Expect(len(dest.messages[simulator.TopicReservations])).To(BeNumerically(">=", result.TotalReservations))
		Expect(string(dest.messages[simulator.TopicReservations][0])).To(ContainSubstring(`"eventType":"reservation_confirmed"`))
	})

	It("ignores a failing event destination", func() {
		dest := newMemoryDestination()
		dest.err = errExportDown
		_, err := simulator.NewSimulator(testConfig(), discard, simulator.WithEventDestination(dest)).Run(ctx)
		Expect(err).ToNot(HaveOccurred())
	})

	It("stops between days when the context is cancelled", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		result, err := simulator.NewSimulator(testConfig(), discard).Run(cancelled)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result).To(BeNil())
	})

	It("summarises the run", func() {
		sim := simulator.NewSimulator(testConfig(), discard)
		result, err := sim.Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		summary := sim.Summary()
		Expect(summary.Period.StartDate).To(Equal("2025-05-01"))
		Expect(summary.Period.EndDate).To(Equal("2025-05-10"))
		Expect(summary.Period.TotalDays).To(Equal(10))
		Expect(summary.Performance.TotalReservations).To(Equal(result.TotalReservations))
		Expect(summary.Performance.AverageDailyRevenue).To(BeNumerically("~", result.TotalRevenue/10, 1e-9))
		Expect(summary.Hotel.TotalRooms).To(Equal(15))
		Expect(summary.Hotel.RoomTypes).To(HaveLen(3))
	})

	It("completes reservations whose check-out has passed", func() {
		cfg := testConfig()
		cfg.Simulation.Days = 45
		sim := simulator.NewSimulator(cfg, discard)
		_, err := sim.Run(ctx)
		Expect(err).ToNot(HaveOccurred())

		last := models.AddDays(cfg.Simulation.StartDate, cfg.Simulation.Days-1)
		for _, res := range sim.Reservations {
			if !last.Before(res.CheckOut) {
				Expect(res.Status).To(Equal(models.ReservationStatusCompleted))
			} else {
				Expect(res.Status).To(Equal(models.ReservationStatusConfirmed))
			}
		}
	})
})
