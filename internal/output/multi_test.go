package output_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/hotel"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/output"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

// countingExporter counts calls and returns err from each of them.
type countingExporter struct {
	calls int
	err   error
}

func (c *countingExporter) ExportReservations(context.Context, []*models.Reservation, string) error {
	c.calls++
	return c.err
}

func (c *countingExporter) ExportOccupancy(context.Context, *hotel.Hotel, time.Time, int, string) error {
	c.calls++
	return c.err
}

func (c *countingExporter) ExportRevenueAnalysis(context.Context, pricing.RevenueAnalysis, string) error {
	c.calls++
	return c.err
}

func (c *countingExporter) ExportPriceSuggestions(context.Context, []pricing.PriceSuggestion, string) error {
	c.calls++
	return c.err
}

var _ = Describe("MultiExporter", func() {
	It("reaches every exporter and joins their errors", func() {
		errA, errB := errors.New("disk full"), errors.New("broker down")
		a, b, ok := &countingExporter{err: errA}, &countingExporter{err: errB}, &countingExporter{}
		multi := output.MultiExporter{a, ok, b}

		err := multi.ExportPriceSuggestions(context.Background(), sampleSuggestions(), "price_suggestions_2025-05-02")
		Expect(err).To(MatchError(errA))
		Expect(err).To(MatchError(errB))
		Expect([]int{a.calls, ok.calls, b.calls}).To(Equal([]int{1, 1, 1}))
	})

	It("succeeds when every exporter does", func() {
		multi := output.MultiExporter{&countingExporter{}, &countingExporter{}}
		Expect(multi.ExportRevenueAnalysis(context.Background(), sampleAnalysis(), "revenue_analysis_2025-05-02")).To(Succeed())
	})
})
