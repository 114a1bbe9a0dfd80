package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/output"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/chrisdamba/hotelsim/internal/simulator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// maxWindowDays caps the occupancy window a single request may ask for.
const maxWindowDays = 366

// Handler serves read-only views of a finished simulation.
type Handler struct {
	sim    *simulator.Simulator
	logger *log.Logger
}

func NewHandler(sim *simulator.Simulator, logger *log.Logger) *Handler {
	return &Handler{sim: sim, logger: logger.WithPrefix("api")}
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	corsConfig.MaxAge = 12 * time.Hour
	if len(allowedOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = allowedOrigins
	}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		v1.GET("/summary", h.GetSummary)
		v1.GET("/occupancy", h.GetOccupancy)
		v1.GET("/reservations", h.GetReservations)
		v1.GET("/analysis", h.GetAnalysis)
		v1.GET("/suggestions", h.GetSuggestions)
		v1.GET("/prices", h.GetPrice)
	}
	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug("request served",
			"method", c.Request.Method, "path", c.Request.URL.Path,
			"status", c.Writer.Status(), "duration", time.Since(start))
	}
}

func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.sim.Summary())
}

// GetOccupancy returns per-day occupancy for ?start=YYYY-MM-DD&days=N, defaulting to the simulated horizon.
func (h *Handler) GetOccupancy(c *gin.Context) {
	sc := h.sim.Config.Simulation

	start := sc.StartDate
	if raw := c.Query("start"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be a YYYY-MM-DD date"})
			return
		}
		start = parsed
	}

	days := sc.Days
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxWindowDays {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 366"})
			return
		}
		days = n
	}

	c.JSON(http.StatusOK, output.OccupancySnapshots(h.sim.Hotel, start, days))
}

// GetReservations lists reservations, optionally filtered by ?status= and ?room_type=.
func (h *Handler) GetReservations(c *gin.Context) {
	status := c.Query("status")
	roomType := c.Query("room_type")

	reservations := make([]*models.Reservation, 0, len(h.sim.Reservations))
	for _, res := range h.sim.Reservations {
		if status != "" && res.Status != status {
			continue
		}
		if roomType != "" && res.RoomType != roomType {
			continue
		}
		reservations = append(reservations, res)
	}
	c.JSON(http.StatusOK, gin.H{"count": len(reservations), "reservations": reservations})
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis := h.sim.LatestAnalysis()
	if analysis == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no revenue analysis yet"})
		return
	}
	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) GetSuggestions(c *gin.Context) {
	suggestions := h.sim.Suggestions()
	if suggestions == nil {
		suggestions = []pricing.PriceSuggestion{}
	}
	c.JSON(http.StatusOK, suggestions)
}

type priceQuote struct {
	RoomType      string          `json:"room_type"`
	Date          string          `json:"date"`
	BookingDate   string          `json:"booking_date"`
	OccupancyRate float64         `json:"occupancy_rate"`
	BaseRate      float64         `json:"base_rate"`
	Price         int             `json:"price"`
	Breakdown     pricing.Context `json:"breakdown"`
}

// GetPrice quotes ?room_type= for the night of ?date= against the simulated occupancy.
// ?booking_date= defaults to the last simulated day.
func (h *Handler) GetPrice(c *gin.Context) {
	roomType := c.Query("room_type")
	base, ok := h.sim.Engine.BaseRate(roomType)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown room type " + strconv.Quote(roomType)})
		return
	}

	date, err := models.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be a YYYY-MM-DD date"})
		return
	}

	sc := h.sim.Config.Simulation
	bookingDate := models.AddDays(sc.StartDate, sc.Days-1)
	if raw := c.Query("booking_date"); raw != "" {
		if bookingDate, err = models.ParseDate(raw); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "booking_date must be a YYYY-MM-DD date"})
			return
		}
	}

	occupancy := h.sim.Hotel.OccupancyRate(date)
	price, err := h.sim.Engine.Price(roomType, date, occupancy, &bookingDate)
	if err != nil {
		h.logger.Error("price quote failed", "room_type", roomType, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, priceQuote{
		RoomType:      roomType,
		Date:          models.FormatDate(date),
		BookingDate:   models.FormatDate(bookingDate),
		OccupancyRate: occupancy,
		BaseRate:      base,
		Price:         price,
		Breakdown:     h.sim.Engine.Context(date, occupancy, &bookingDate),
	})
}
