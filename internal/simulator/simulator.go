package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/factories"
	"github.com/chrisdamba/hotelsim/internal/hotel"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/schollz/progressbar/v3"
)

// DataExporter is the sink for periodic exports. Failures are logged by the simulator and never abort a run.
type DataExporter interface {
	ExportReservations(ctx context.Context, reservations []*models.Reservation, name string) error
	ExportOccupancy(ctx context.Context, h *hotel.Hotel, start time.Time, days int, name string) error
	ExportRevenueAnalysis(ctx context.Context, analysis pricing.RevenueAnalysis, name string) error
	ExportPriceSuggestions(ctx context.Context, suggestions []pricing.PriceSuggestion, name string) error
}

type DailyStats struct {
	Date             time.Time      `json:"date"`
	Requests         int            `json:"requests"`
	Accepted         int            `json:"accepted"`
	Rejected         int            `json:"rejected"`
	RejectedByReason map[string]int `json:"rejected_by_reason"`
	AcceptanceRate   float64        `json:"acceptance_rate"`
	OccupancyRate    float64        `json:"occupancy_rate"`
	Revenue          float64        `json:"revenue"`
}

type Result struct {
	TotalReservations int                   `json:"total_reservations"`
	TotalRevenue      float64               `json:"total_revenue"`
	AverageOccupancy  float64               `json:"average_occupancy"`
	Reservations      []*models.Reservation `json:"-"`
	Daily             []DailyStats          `json:"daily"`
}

type Summary struct {
	Period struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		TotalDays int    `json:"total_days"`
	} `json:"simulation_period"`
	Performance struct {
		TotalReservations    int     `json:"total_reservations"`
		TotalRevenue         float64 `json:"total_revenue"`
		AverageDailyRevenue  float64 `json:"average_daily_revenue"`
		AverageOccupancyRate float64 `json:"average_occupancy_rate"`
	} `json:"performance"`
	Hotel struct {
		Name       string                 `json:"name"`
		TotalRooms int                    `json:"total_rooms"`
		RoomTypes  []models.RoomTypeStats `json:"room_types"`
	} `json:"hotel_details"`
}

type Option func(*Simulator)

func WithWeather(weather WeatherProvider) Option {
	return func(s *Simulator) { s.weather = weather }
}

func WithExporter(exporter DataExporter) Option {
	return func(s *Simulator) { s.exporter = exporter }
}

func WithEventDestination(events EventDestination) Option {
	return func(s *Simulator) { s.events = events }
}

// WithRand replaces the source seeded from the configuration.
func WithRand(rng *rand.Rand) Option {
	return func(s *Simulator) { s.Rng = rng }
}

// Simulator is the day-by-day orchestrator. It is the only writer of the hotel and of the
// reservation collection, and processes each day's requests strictly in generation order.
type Simulator struct {
	Config       *models.Config
	Hotel        *hotel.Hotel
	Engine       *pricing.Engine
	Generator    *Generator
	Rng          *rand.Rand
	Reservations []*models.Reservation
	Daily        []DailyStats

	suggestions []pricing.PriceSuggestion
	analysis    *pricing.RevenueAnalysis

	weather  WeatherProvider
	exporter DataExporter
	events   EventDestination
	factory  *factories.ReservationFactory
	now      func() time.Time
	logger   *log.Logger
}

// NewSimulator wires the hotel, pricing engine and generator from a validated configuration.
func NewSimulator(cfg *models.Config, logger *log.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		Config:  cfg,
		Rng:     rand.New(rand.NewSource(cfg.Seed())),
		factory: factories.NewReservationFactory(),
		now:     time.Now,
		logger:  logger.WithPrefix("simulator"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Hotel = hotel.New(cfg.Hotel.Name, cfg.Hotel.RoomTypes, logger)
	s.Engine = pricing.NewEngine(cfg.Pricing, cfg.RoomTypeNames(), logger)
	s.Generator = NewGenerator(cfg, s.Rng, s.Engine.Calendar(), s.weather, logger)

	s.logger.Info("simulator initialised",
		"days", cfg.Simulation.Days, "requests_per_day", cfg.Simulation.RequestsPerDay,
		"start_date", models.FormatDate(cfg.Simulation.StartDate))
	return s
}

// Run simulates every configured day. Cancellation is honoured between days.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	sc := s.Config.Simulation
	s.logger.Info("simulation starting", "start_date", models.FormatDate(sc.StartDate), "days", sc.Days)

	var bar *progressbar.ProgressBar
	if sc.ShowProgress {
		bar = progressbar.Default(int64(sc.Days), "simulating")
	}

	for day := 0; day < sc.Days; day++ {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("simulation interrupted", "day", day+1, "err", err)
			return nil, err
		}

		date := models.AddDays(sc.StartDate, day)
		s.logger.Debug("simulating day", "day", day+1, "of", sc.Days, "date", models.FormatDate(date))

		s.completeReservations(date)
		requests := s.Generator.GenerateBatch(date, sc.RequestsPerDay)
		stats := s.processDailyRequests(requests, date)
		s.Daily = append(s.Daily, stats)

		if (day+1)%sc.ExportInterval == 0 || day == sc.Days-1 {
			s.exportSimulationData(ctx, date, day)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	result := s.result()
	s.logger.Info("simulation completed",
		"reservations", result.TotalReservations,
		"revenue", fmt.Sprintf("%.2f", result.TotalRevenue),
		"average_occupancy", fmt.Sprintf("%.1f%%", result.AverageOccupancy*100))
	return result, nil
}

func (s *Simulator) processDailyRequests(requests []*models.ReservationRequest, date time.Time) DailyStats {
	stats := DailyStats{
		Date:             date,
		Requests:         len(requests),
		RejectedByReason: make(map[string]int),
	}

	for _, req := range requests {
		offer := s.Engine.Negotiate(req, s.Hotel, date)
		if !offer.OK {
			s.reject(&stats, req, offer.Reason, date)
			continue
		}

		s.settle(&stats, req, offer, date)
	}

	if total := stats.Accepted + stats.Rejected; total > 0 {
		stats.AcceptanceRate = float64(stats.Accepted) / float64(total)
	}
	stats.OccupancyRate = s.Hotel.OccupancyRate(date)
	stats.Revenue = s.Hotel.RevenueForDate(date)

	s.logger.Info("day processed",
		"date", models.FormatDate(date),
		"accepted", stats.Accepted, "total", stats.Accepted+stats.Rejected,
		"acceptance_rate", fmt.Sprintf("%.1f%%", stats.AcceptanceRate*100))
	return stats
}

// settle books an accepted offer on its room type. An offer whose room was taken since it was
// negotiated is rejected as commit_failed.
func (s *Simulator) settle(stats *DailyStats, req *models.ReservationRequest, offer pricing.Offer, date time.Time) {
	reservation := s.factory.CreateReservation(req, offer, date)
	room, err := s.Hotel.Book(reservation, offer.RoomType)
	if err != nil {
		s.logger.Debug("commit failed", "request", req.ID, "room_type", offer.RoomType, "err", err)
		s.reject(stats, req, models.RejectionCommit, date)
		return
	}

	s.Reservations = append(s.Reservations, reservation)
	stats.Accepted++
	s.logger.Debug("reservation confirmed",
		"reservation", reservation.ID, "room", room.ID, "room_type", room.Type,
		"price_per_night", reservation.PricePerNight)
	s.publish(reservationEvent(EventReservationConfirmed, reservation, date, s.now()))
}

func (s *Simulator) reject(stats *DailyStats, req *models.ReservationRequest, reason string, date time.Time) {
	stats.Rejected++
	stats.RejectedByReason[reason]++
	s.logger.Debug("request rejected", "request", req.ID, "reason", reason)
	s.publish(rejectionEvent(req, reason, date, s.now()))
}

// completeReservations closes every confirmed reservation whose check-out has been reached.
func (s *Simulator) completeReservations(date time.Time) {
	for _, res := range s.Reservations {
		if res.Complete(date) {
			s.publish(reservationEvent(EventReservationCompleted, res, date, s.now()))
		}
	}
}

// exportSimulationData exports the trailing window ending on date and refreshes the price suggestions.
func (s *Simulator) exportSimulationData(ctx context.Context, date time.Time, day int) {
	lookBack := min(s.Config.Simulation.AnalysisWindow, day+1)
	windowStart := models.AddDays(date, -(lookBack - 1))
	stamp := models.FormatDate(date)

	analysis := s.Engine.AnalyzeRevenue(s.Hotel, windowStart, lookBack)
	s.analysis = &analysis
	s.suggestions = s.Engine.SuggestPriceAdjustments(analysis)

	if s.exporter == nil {
		return
	}

	if err := s.exporter.ExportReservations(ctx, s.Reservations, "reservations_"+stamp); err != nil {
		s.logger.Warn("reservations export failed", "err", err)
	}
	if err := s.exporter.ExportOccupancy(ctx, s.Hotel, windowStart, lookBack, "occupancy_"+stamp); err != nil {
		s.logger.Warn("occupancy export failed", "err", err)
	}
	if err := s.exporter.ExportRevenueAnalysis(ctx, analysis, "revenue_analysis_"+stamp); err != nil {
		s.logger.Warn("revenue analysis export failed", "err", err)
	}
	if err := s.exporter.ExportPriceSuggestions(ctx, s.suggestions, "price_suggestions_"+stamp); err != nil {
		s.logger.Warn("price suggestions export failed", "err", err)
	}
	s.logger.Info("simulation data exported", "day", day+1, "window_start", models.FormatDate(windowStart), "days", lookBack)
}

func (s *Simulator) publish(msg EventMessage, err error) {
	if s.events == nil {
		return
	}
	if err != nil {
		s.logger.Warn("error serializing event", "err", err)
		return
	}
	if err := s.events.WriteMessage(msg.Topic, msg.Message); err != nil {
		s.logger.Warn("failed to write event", "topic", msg.Topic, "err", err)
	}
}

func (s *Simulator) result() *Result {
	total := 0.0
	for _, res := range s.Reservations {
		total += res.TotalPrice
	}
	return &Result{
		TotalReservations: len(s.Reservations),
		TotalRevenue:      total,
		AverageOccupancy:  s.AverageOccupancy(),
		Reservations:      s.Reservations,
		Daily:             s.Daily,
	}
}

// AverageOccupancy is the mean occupancy over the configured horizon.
func (s *Simulator) AverageOccupancy() float64 {
	days := s.Config.Simulation.Days
	if days <= 0 {
		return 0
	}
	sum := 0.0
	for day := 0; day < days; day++ {
		sum += s.Hotel.OccupancyRate(models.AddDays(s.Config.Simulation.StartDate, day))
	}
	return sum / float64(days)
}

// Suggestions returns the most recent price suggestions, nil before the first export.
func (s *Simulator) Suggestions() []pricing.PriceSuggestion {
	return s.suggestions
}

// LatestAnalysis returns the most recent revenue analysis, nil before the first export.
func (s *Simulator) LatestAnalysis() *pricing.RevenueAnalysis {
	return s.analysis
}

func (s *Simulator) Summary() Summary {
	var summary Summary
	days := s.Config.Simulation.Days
	start := s.Config.Simulation.StartDate

	summary.Period.StartDate = models.FormatDate(start)
	summary.Period.EndDate = models.FormatDate(models.AddDays(start, days-1))
	summary.Period.TotalDays = days

	result := s.result()
	summary.Performance.TotalReservations = result.TotalReservations
	summary.Performance.TotalRevenue = result.TotalRevenue
	if days > 0 {
		summary.Performance.AverageDailyRevenue = result.TotalRevenue / float64(days)
	}
	summary.Performance.AverageOccupancyRate = result.AverageOccupancy

	summary.Hotel.Name = s.Hotel.Name
	summary.Hotel.TotalRooms = len(s.Hotel.Rooms())
	summary.Hotel.RoomTypes = s.Hotel.RoomTypeStats()

	s.logger.Info("simulation summary generated",
		"reservations", result.TotalReservations,
		"revenue", fmt.Sprintf("%.2f", result.TotalRevenue),
		"average_occupancy", fmt.Sprintf("%.1f%%", result.AverageOccupancy*100))
	return summary
}
