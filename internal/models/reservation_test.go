package models_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/chrisdamba/hotelsim/internal/models"
)

var _ = Describe("ReservationRequest", func() {
	in := time.Date(2025, 7, 1, 15, 30, 0, 0, time.UTC)
	out := time.Date(2025, 7, 4, 9, 0, 0, 0, time.UTC)

	It("truncates dates to days and counts nights", func() {
		req, err := models.NewReservationRequest("r1", in, out, 2, 150, models.RequestDetails{PreferredRoomType: "suite"})
		Expect(err).ToNot(HaveOccurred())
		Expect(req.CheckIn).To(Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))
		Expect(req.Nights()).To(Equal(3))
		Expect(req.PreferredRoomType).To(Equal("suite"))
	})

	It("rejects inverted dates, empty parties and non-positive budgets in one error", func() {
		_, err := models.NewReservationRequest("", out, in, 0, 0, models.RequestDetails{})
		verr := models.IsValidationError(err)
		Expect(verr).ToNot(BeNil())
		Expect(verr.Fields()).To(HaveKey("request_id"))
		Expect(verr.Fields()).To(HaveKey("check_in_date"))
		Expect(verr.Fields()).To(HaveKey("guests"))
		Expect(verr.Fields()).To(HaveKey("max_budget"))
	})

	It("rejects a zero-night stay", func() {
		_, err := models.NewReservationRequest("r1", in, in, 1, 100, models.RequestDetails{})
		Expect(models.IsValidationError(err)).ToNot(BeNil())
	})

	It("affords prices up to and including the budget", func() {
		req, err := models.NewReservationRequest("r1", in, out, 1, 100, models.RequestDetails{})
		Expect(err).ToNot(HaveOccurred())
		Expect(req.CanAfford(100)).To(BeTrue())
		Expect(req.CanAfford(100.5)).To(BeFalse())
	})
})

var _ = Describe("Reservation lifecycle", func() {
	var res *models.Reservation

	BeforeEach(func() {
		res = &models.Reservation{
			ID:       "res-1",
			CheckIn:  models.Day(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)),
			CheckOut: models.Day(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)),
			Status:   models.ReservationStatusConfirmed,
		}
	})

	It("completes only once check-out is reached", func() {
		Expect(res.Complete(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC))).To(BeFalse())
		Expect(res.Status).To(Equal(models.ReservationStatusConfirmed))
		Expect(res.Complete(time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC))).To(BeTrue())
		Expect(res.Status).To(Equal(models.ReservationStatusCompleted))
		Expect(res.Complete(time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC))).To(BeFalse())
	})

	It("cancels a confirmed reservation once", func() {
		Expect(res.Cancel()).To(Succeed())
		Expect(res.Status).To(Equal(models.ReservationStatusCancelled))
		Expect(res.Cancel()).To(MatchError(models.ErrReservationClosed))
	})
})

var _ = Describe("Dates", func() {
	It("counts calendar days across a DST-free UTC calendar", func() {
		a := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
		Expect(models.DaysBetween(a, models.AddDays(a, 3))).To(Equal(3))
		Expect(models.DaysBetween(models.AddDays(a, 3), a)).To(Equal(-3))
		Expect(models.FormatDate(models.AddDays(a, 2))).To(Equal("2024-02-29"))
	})

	It("parses YYYY-MM-DD", func() {
		d, err := models.ParseDate("2025-12-31")
		Expect(err).ToNot(HaveOccurred())
		Expect(d).To(Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)))

		_, err = models.ParseDate("31/12/2025")
		Expect(err).To(HaveOccurred())
	})
})
