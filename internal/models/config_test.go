package models_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/viper"

	"github.com/chrisdamba/hotelsim/internal/models"
)

const sampleConfig = `
hotel:
  name: Test Inn
  room_types:
    - name: Standard
      count: 2
      capacity: 2
    - name: suite
      count: 1
      capacity: 4
pricing:
  base_rates:
    standard: 100
    suite: 200
  occupancy_thresholds: [0.5]
  price_multipliers: [1.1]
  seasons:
    high:
      - start: "12-15"
        end: "01-05"
simulation:
  start_date: "2025-01-01"
  days: 10
  requests_per_day: 3
  random_seed: 7
`

// withoutKeys drops every line of sampleConfig that starts with one of keys.
func withoutKeys(keys ...string) string {
	var kept []string
	for _, line := range strings.Split(sampleConfig, "\n") {
		drop := false
		for _, key := range keys {
			if strings.HasPrefix(strings.TrimSpace(line), key+":") {
				drop = true
			}
		}
		if !drop {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func writeConfig(dir, name, content string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
	return path
}

// setenv sets an environment variable for the current spec only.
func setenv(key, value string) {
	old, had := os.LookupEnv(key)
	Expect(os.Setenv(key, value)).To(Succeed())
	DeferCleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

var _ = Describe("Config", func() {
	Describe("DefaultConfig", func() {
		It("is valid", func() {
			Expect(models.DefaultConfig().Validate()).To(Succeed())
		})

		It("lists room types in configuration order", func() {
			Expect(models.DefaultConfig().RoomTypeNames()).To(Equal([]string{"standard", "confort", "suite"}))
		})
	})

	Describe("Validate", func() {
		var cfg *models.Config

		BeforeEach(func() {
			cfg = models.DefaultConfig()
		})

		It("requires a base rate for every room type", func() {
			delete(cfg.Pricing.BaseRates, "suite")
			cerr := models.IsConfigError(cfg.Validate())
			Expect(cerr).ToNot(BeNil())
			Expect(cerr.Problems).To(ContainElement(ContainSubstring(`no rate for room type "suite"`)))
		})

		It("requires parallel threshold and multiplier lists", func() {
			cfg.Pricing.PriceMultipliers = cfg.Pricing.PriceMultipliers[:2]
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("must have the same length")))
		})

		It("requires ascending thresholds", func() {
			cfg.Pricing.OccupancyThresholds = []float64{0.9, 0.8, 0.5, 0.3}
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("must be ascending")))
		})

		It("requires a 0-day advance tier", func() {
			cfg.Pricing.AdvanceBooking = cfg.Pricing.AdvanceBooking[:3]
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("0-day tier")))
		})

		It("rejects malformed season bounds", func() {
			cfg.Pricing.Seasons[models.SeasonHigh] = []models.SeasonRange{{Start: "6-15", End: "09-15"}}
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("MM-DD")))
		})

		It("rejects min multiplier above max", func() {
			cfg.Pricing.MinMultiplier = 2
			Expect(cfg.Validate()).To(MatchError(ContainSubstring("exceeds")))
		})

		It("reports structural problems through the validator", func() {
			cfg.Hotel.RoomTypes[0].Count = 0
			cfg.Data.Format = "xml"
			cerr := models.IsConfigError(cfg.Validate())
			Expect(cerr).ToNot(BeNil())
			Expect(cerr.Problems).To(ContainElement(ContainSubstring("Count")))
			Expect(cerr.Problems).To(ContainElement(ContainSubstring("Format")))
		})
	})

	Describe("LoadConfig", func() {
		It("reads a YAML file, applies defaults and normalises names", func() {
			path := filepath.Join(GinkgoT().TempDir(), "config.yaml")
			Expect(os.WriteFile(path, []byte(sampleConfig), 0o644)).To(Succeed())

			cfg, err := models.LoadConfig(viper.New(), path)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Hotel.Name).To(Equal("Test Inn"))
			Expect(cfg.RoomTypeNames()).To(Equal([]string{"standard", "suite"}))
			Expect(cfg.Simulation.StartDate).To(Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
			Expect(cfg.Seed()).To(Equal(int64(7)))
			Expect(cfg.Pricing.MaxMultiplier).To(Equal(1.5))
			Expect(cfg.Pricing.AdvanceBooking).To(HaveLen(6))
			Expect(cfg.Simulation.ExportInterval).To(Equal(30))
		})

		DescribeTable("rejects a file that leaves out a required key",
			func(missing []string, keys ...string) {
				path := writeConfig(GinkgoT().TempDir(), "config.yaml", withoutKeys(keys...))

				_, err := models.LoadConfig(viper.New(), path)
				cerr := models.IsConfigError(err)
				Expect(cerr).ToNot(BeNil())
				for _, key := range missing {
					Expect(cerr.Problems).To(ContainElement(key + " is required"))
				}
			},
			Entry("requests per day", []string{"simulation.requests_per_day"}, "requests_per_day"),
			Entry("occupancy lists", []string{"pricing.occupancy_thresholds", "pricing.price_multipliers"},
				"occupancy_thresholds", "price_multipliers"),
			Entry("days", []string{"simulation.days"}, "days"),
			Entry("start date", []string{"simulation.start_date"}, "start_date"),
			Entry("random seed", []string{"simulation.random_seed"}, "random_seed"),
		)

		It("rejects empty occupancy lists", func() {
			content := strings.NewReplacer("[0.5]", "[]", "[1.1]", "[]").Replace(sampleConfig)
			path := writeConfig(GinkgoT().TempDir(), "config.yaml", content)

			_, err := models.LoadConfig(viper.New(), path)
			Expect(err).To(MatchError(ContainSubstring("OccupancyThresholds")))
		})

		It("reads .hotelsim.yaml from the home directory", func() {
			home := GinkgoT().TempDir()
			writeConfig(home, ".hotelsim.yaml", strings.Replace(sampleConfig, "Test Inn", "Dotfile Inn", 1))
			setenv("HOME", home)

			cfg, err := models.LoadConfig(viper.New(), "")
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Hotel.Name).To(Equal("Dotfile Inn"))
			Expect(cfg.Simulation.Days).To(Equal(10))
		})

		It("applies environment overrides to the built-in hotel", func() {
			setenv("HOME", GinkgoT().TempDir())
			setenv("HOTELSIM_SIMULATION_DAYS", "5")
			setenv("HOTELSIM_SIMULATION_START_DATE", "2025-03-01")

			cfg, err := models.LoadConfig(viper.New(), "")
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Hotel.Name).To(Equal("Le Petit Refuge"))
			Expect(cfg.Simulation.Days).To(Equal(5))
			Expect(cfg.Simulation.StartDate).To(Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(cfg.Simulation.RequestsPerDay).To(Equal(15))
			Expect(cfg.RoomTypeNames()).To(Equal([]string{"standard", "confort", "suite"}))
			Expect(cfg.Pricing.OccupancyThresholds).To(Equal([]float64{0.3, 0.5, 0.8, 0.9}))
		})

		It("applies environment overrides on top of a file", func() {
			path := writeConfig(GinkgoT().TempDir(), "config.yaml", sampleConfig)
			setenv("HOTELSIM_SIMULATION_REQUESTS_PER_DAY", "9")

			cfg, err := models.LoadConfig(viper.New(), path)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Simulation.RequestsPerDay).To(Equal(9))
		})

		It("fails on a missing explicit file", func() {
			_, err := models.LoadConfig(viper.New(), filepath.Join(GinkgoT().TempDir(), "absent.yaml"))
			Expect(err).To(HaveOccurred())
		})
	})
})
