package pricing_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
)

var _ = Describe("Revenue analysis", func() {
	var engine *pricing.Engine

	BeforeEach(func() {
		engine = newEngine()
	})

	It("sums revenue and averages occupancy over the window", func() {
		analysis := engine.AnalyzeRevenue(constantOccupancy{rate: 0.4, revenue: 250}, mayTenth, 4)
		Expect(analysis.Days).To(Equal(4))
		Expect(analysis.Daily).To(HaveLen(4))
		Expect(analysis.Daily[3].Date).To(Equal(models.AddDays(mayTenth, 3)))
		Expect(analysis.TotalRevenue).To(Equal(1000.0))
		Expect(analysis.AverageDailyRevenue).To(Equal(250.0))
		Expect(analysis.AverageOccupancy).To(BeNumerically("~", 0.4, 1e-9))
	})

	It("returns an empty analysis for an empty window", func() {
		analysis := engine.AnalyzeRevenue(constantOccupancy{rate: 1}, mayTenth, 0)
		Expect(analysis.Daily).To(BeEmpty())
		Expect(analysis.AverageOccupancy).To(BeZero())
	})

	It("suggests +15% for high occupancy over 30 days", func() {
		analysis := engine.AnalyzeRevenue(constantOccupancy{rate: 0.9, revenue: 100}, mayTenth, 30)
		suggestions := engine.SuggestPriceAdjustments(analysis)

		Expect(suggestions).To(HaveLen(2))
		Expect(suggestions[0]).To(Equal(pricing.PriceSuggestion{
			RoomType:               "standard",
			CurrentBasePrice:       100,
			SuggestedAdjustmentPct: 15,
			SuggestedNewBase:       115,
			Reason:                 "high occupancy",
		}))
		Expect(suggestions[1].SuggestedNewBase).To(Equal(230.0))
	})

	It("rounds half-way new base rates to the even neighbour", func() {
		cfg := testPricingConfig()
		cfg.BaseRates = map[string]float64{"standard": 25, "suite": 35}
		engine := pricing.NewEngine(cfg, []string{"standard", "suite"}, discard)

		analysis := engine.AnalyzeRevenue(constantOccupancy{rate: 0.2, revenue: 10}, mayTenth, 30)
		suggestions := engine.SuggestPriceAdjustments(analysis)

		Expect(suggestions).To(HaveLen(2))
		Expect(suggestions[0].SuggestedAdjustmentPct).To(Equal(-10.0))
		Expect(suggestions[0].SuggestedNewBase).To(Equal(22.0))
		Expect(suggestions[1].SuggestedNewBase).To(Equal(32.0))
	})

	DescribeTable("AdjustmentFor",
		func(occupancy, adjustment float64, reason string) {
			adj, why := pricing.AdjustmentFor(occupancy)
			Expect(adj).To(Equal(adjustment))
			Expect(why).To(Equal(reason))
		},
		Entry("low", 0.3, -0.10, "low occupancy"),
		Entry("moderate", 0.6, -0.05, "moderate occupancy"),
		Entry("optimal", 0.7, 0.0, "optimal occupancy"),
		Entry("good", 0.8, 0.05, "good occupancy"),
		Entry("high", 0.9, 0.15, "high occupancy"),
	)
})
