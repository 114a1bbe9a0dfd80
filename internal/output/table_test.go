package output_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/output"
)

var _ = Describe("Tables", func() {
	It("lays out reservations with stable columns", func() {
		_, reservations := sampleHotel()
		t := output.ReservationsTable(reservations, "reservations_2025-05-01")

		Expect(t.ColumnNames()).To(Equal([]string{
			"reservation_id", "request_id", "check_in_date", "check_out_date", "guests", "preferred_room_type",
			"room_id", "room_type", "price_per_night", "total_price", "status", "creation_date",
		}))
		Expect(t.Rows).To(HaveLen(1))
		Expect(t.Rows[0][2]).To(Equal("2025-05-01"))
		Expect(t.Rows[0][5]).To(BeNil())
		Expect(t.Rows[0][6]).To(Equal(1))
		Expect(t.Rows[0][11]).To(Equal("2025-04-20T09:30:00Z"))
	})

	It("adds per room type occupancy columns", func() {
		h, _ := sampleHotel()
		t := output.OccupancyTable(h, day0, 3, "occupancy_2025-05-03")

		Expect(t.ColumnNames()).To(Equal([]string{
			"date", "occupancy_rate", "revenue",
			"standard_total", "standard_occupied", "standard_occupancy_rate",
			"suite_total", "suite_occupied", "suite_occupancy_rate",
		}))
		Expect(t.Rows).To(HaveLen(3))
		Expect(t.Rows[0]).To(Equal([]any{"2025-05-01", 0.5, 110.0, 1, 1, 1.0, 1, 0, 0.0}))
		Expect(t.Rows[2]).To(Equal([]any{"2025-05-03", 0.0, 0.0, 1, 0, 0.0, 1, 0, 0.0}))
	})

	It("puts the TOTAL row first in a revenue analysis", func() {
		t := output.RevenueAnalysisTable(sampleAnalysis(), "revenue_analysis_2025-05-02")
		Expect(t.Rows).To(HaveLen(3))
		Expect(t.Rows[0]).To(Equal([]any{output.TotalRowLabel, 220.0, 110.0, 0.5, nil, nil}))
		Expect(t.Rows[1]).To(Equal([]any{"2025-05-01", nil, nil, nil, 110.0, 0.5}))
	})

	It("builds suggestions rows", func() {
		t := output.PriceSuggestionsTable(sampleSuggestions(), "price_suggestions_2025-05-02")
		Expect(t.Rows).To(Equal([][]any{{"standard", 100.0, -5.0, 95.0, "moderate occupancy"}}))
	})

	It("snapshots occupancy for the repositories", func() {
		h, _ := sampleHotel()
		snapshots := output.OccupancySnapshots(h, day0, 2)
		Expect(snapshots).To(HaveLen(2))
		Expect(snapshots[1].OccupancyRate).To(Equal(0.5))
		Expect(snapshots[1].RoomTypes[0].Occupied).To(Equal(1))
		Expect(snapshots[1].RoomTypes[1].OccupancyRate).To(BeZero())
	})
})
