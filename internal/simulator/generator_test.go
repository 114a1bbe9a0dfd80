package simulator_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/chrisdamba/hotelsim/internal/simulator"
)

var _ = Describe("Generator", func() {
	newGenerator := func(seed int64, weather simulator.WeatherProvider) *simulator.Generator {
		cfg := testConfig()
		calendar := pricing.NewSeasonCalendar(cfg.Pricing.Seasons)
		return simulator.NewGenerator(cfg, rand.New(rand.NewSource(seed)), calendar, weather, discard)
	}

	It("produces identical streams for equal seeds", func() {
		a := newGenerator(99, nil).GenerateBatch(startDate, 50)
		b := newGenerator(99, nil).GenerateBatch(startDate, 50)
		Expect(a).To(HaveLen(50))
		Expect(a).To(Equal(b))
	})

	It("produces different streams for different seeds", func() {
		a := newGenerator(1, nil).GenerateBatch(startDate, 20)
		b := newGenerator(2, nil).GenerateBatch(startDate, 20)
		Expect(a[0].ID).ToNot(Equal(b[0].ID))
	})

	It("draws requests within the demand model's ranges", func() {
		roomTypes := testConfig().RoomTypeNames()
		for _, req := range newGenerator(7, nil).GenerateBatch(startDate, 300) {
			advance := models.DaysBetween(startDate, req.CheckIn)
			Expect(advance).To(BeNumerically(">=", 1))
			Expect(advance).To(BeNumerically("<=", 30))
			Expect(req.Nights()).To(BeNumerically(">=", 1))
			Expect(req.Nights()).To(BeNumerically("<=", 7))
			Expect(req.Guests).To(BeNumerically(">=", 1))
			Expect(req.Guests).To(BeNumerically("<=", 5))
			Expect(req.MaxBudget).To(BeNumerically(">", 0))
			Expect(req.GuestName).ToNot(BeEmpty())
			if req.PreferredRoomType != "" {
				Expect(roomTypes).To(ContainElement(req.PreferredRoomType))
			}
		}
	})

	It("scales budgets with the weather demand factor", func() {
		plain := newGenerator(5, nil).GenerateBatch(startDate, 10)
		sunny := newGenerator(5, fixedWeather(1.2)).GenerateBatch(startDate, 10)
		for i := range plain {
			Expect(sunny[i].MaxBudget).To(BeNumerically("~", plain[i].MaxBudget*1.2, 1e-6))
			Expect(sunny[i].ID).To(Equal(plain[i].ID))
		}
	})
})
