package output

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/cloudwriter"
	"github.com/chrisdamba/hotelsim/internal/hotel"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/chrisdamba/hotelsim/internal/repositories"
	"github.com/goccy/go-json"
)

// FileExporter writes every export as one file named <name>.<extension> on a target.
type FileExporter struct {
	writer TableWriter
	target Target
	logger *log.Logger
}

func NewFileExporter(writer TableWriter, target Target, logger *log.Logger) *FileExporter {
	return &FileExporter{writer: writer, target: target, logger: logger.WithPrefix("exporter")}
}

func (e *FileExporter) write(table *Table) error {
	if len(table.Rows) == 0 {
		e.logger.Warn("no data to export", "table", table.Name)
		return nil
	}
	if err := e.writer.WriteTable(e.target, table); err != nil {
		return fmt.Errorf("export %s: %w", table.Name, err)
	}
	e.logger.Info("data exported", "location", e.target.Location(fileName(e.writer, table)), "rows", len(table.Rows))
	return nil
}

func (e *FileExporter) ExportReservations(_ context.Context, reservations []*models.Reservation, name string) error {
	return e.write(ReservationsTable(reservations, name))
}

func (e *FileExporter) ExportOccupancy(_ context.Context, h *hotel.Hotel, start time.Time, days int, name string) error {
	return e.write(OccupancyTable(h, start, days, name))
}

func (e *FileExporter) ExportRevenueAnalysis(_ context.Context, analysis pricing.RevenueAnalysis, name string) error {
	return e.write(RevenueAnalysisTable(analysis, name))
}

func (e *FileExporter) ExportPriceSuggestions(_ context.Context, suggestions []pricing.PriceSuggestion, name string) error {
	return e.write(PriceSuggestionsTable(suggestions, name))
}

// MessageWriter is any destination that accepts topic messages, such as the Kafka producer.
type MessageWriter interface {
	WriteMessage(topic string, msg []byte) error
}

// StreamExporter publishes every exported row as a JSON message on topic hotel_<table kind>.
type StreamExporter struct {
	dest   MessageWriter
	logger *log.Logger
}

func NewStreamExporter(dest MessageWriter, logger *log.Logger) *StreamExporter {
	return &StreamExporter{dest: dest, logger: logger.WithPrefix("stream")}
}

func TopicFor(table *Table) string {
	return "hotel_" + table.Kind
}

func (s *StreamExporter) publish(table *Table) error {
	topic := TopicFor(table)
	for _, row := range table.Rows {
		record, err := rowJSON(table, row)
		if err != nil {
			return fmt.Errorf("stream %s: %w", table.Name, err)
		}
		if err := s.dest.WriteMessage(topic, record); err != nil {
			return fmt.Errorf("stream %s: %w", table.Name, err)
		}
	}
	s.logger.Debug("rows streamed", "topic", topic, "rows", len(table.Rows))
	return nil
}

func (s *StreamExporter) ExportReservations(_ context.Context, reservations []*models.Reservation, name string) error {
	return s.publish(ReservationsTable(reservations, name))
}

func (s *StreamExporter) ExportOccupancy(_ context.Context, h *hotel.Hotel, start time.Time, days int, name string) error {
	return s.publish(OccupancyTable(h, start, days, name))
}

func (s *StreamExporter) ExportRevenueAnalysis(_ context.Context, analysis pricing.RevenueAnalysis, name string) error {
	return s.publish(RevenueAnalysisTable(analysis, name))
}

func (s *StreamExporter) ExportPriceSuggestions(_ context.Context, suggestions []pricing.PriceSuggestion, name string) error {
	return s.publish(PriceSuggestionsTable(suggestions, name))
}

// PostgresExporter persists exports through the repositories.
type PostgresExporter struct {
	Reservations repositories.ReservationRepository
	Occupancy    repositories.OccupancyRepository
	Revenue      repositories.RevenueAnalysisRepository
	Suggestions  repositories.PriceSuggestionRepository
	logger       *log.Logger
}

func NewPostgresExporter(
	reservations repositories.ReservationRepository,
	occupancy repositories.OccupancyRepository,
	revenue repositories.RevenueAnalysisRepository,
	suggestions repositories.PriceSuggestionRepository,
	logger *log.Logger,
) *PostgresExporter {
	return &PostgresExporter{
		Reservations: reservations,
		Occupancy:    occupancy,
		Revenue:      revenue,
		Suggestions:  suggestions,
		logger:       logger.WithPrefix("postgres"),
	}
}

func (p *PostgresExporter) ExportReservations(ctx context.Context, reservations []*models.Reservation, name string) error {
	if err := p.Reservations.BulkUpsert(ctx, reservations); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	p.logger.Debug("reservations persisted", "count", len(reservations))
	return nil
}

func (p *PostgresExporter) ExportOccupancy(ctx context.Context, h *hotel.Hotel, start time.Time, days int, name string) error {
	if err := p.Occupancy.BulkUpsert(ctx, OccupancySnapshots(h, start, days)); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}

func (p *PostgresExporter) ExportRevenueAnalysis(ctx context.Context, analysis pricing.RevenueAnalysis, name string) error {
	if err := p.Revenue.Create(ctx, name, analysis); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}

func (p *PostgresExporter) ExportPriceSuggestions(ctx context.Context, suggestions []pricing.PriceSuggestion, name string) error {
	if err := p.Suggestions.BulkCreate(ctx, name, suggestions); err != nil {
		return fmt.Errorf("persist %s: %w", name, err)
	}
	return nil
}

// OccupancySnapshots is the occupancy window in repository form.
func OccupancySnapshots(view OccupancyView, start time.Time, days int) []repositories.OccupancySnapshot {
	stats := view.RoomTypeStats()
	snapshots := make([]repositories.OccupancySnapshot, 0, max(days, 0))
	for day := 0; day < days; day++ {
		date := models.AddDays(start, day)
		occupied := view.OccupiedByType(date)

		snapshot := repositories.OccupancySnapshot{
			Date:          date,
			OccupancyRate: view.OccupancyRate(date),
			Revenue:       view.RevenueForDate(date),
		}
		for _, rt := range stats {
			rate := 0.0
			if rt.Count > 0 {
				rate = float64(occupied[rt.Type]) / float64(rt.Count)
			}
			snapshot.RoomTypes = append(snapshot.RoomTypes, repositories.RoomTypeOccupancy{
				RoomType:      rt.Type,
				Total:         rt.Count,
				Occupied:      occupied[rt.Type],
				OccupancyRate: rate,
			})
		}
		snapshots = append(snapshots, snapshot)
	}
	return snapshots
}

// MultiExporter fans every export out to all exporters and joins their errors.
type MultiExporter []Exporter

// Exporter mirrors the simulator's exporter contract.
type Exporter interface {
	ExportReservations(ctx context.Context, reservations []*models.Reservation, name string) error
	ExportOccupancy(ctx context.Context, h *hotel.Hotel, start time.Time, days int, name string) error
	ExportRevenueAnalysis(ctx context.Context, analysis pricing.RevenueAnalysis, name string) error
	ExportPriceSuggestions(ctx context.Context, suggestions []pricing.PriceSuggestion, name string) error
}

func (m MultiExporter) each(fn func(Exporter) error) error {
	var errs []error
	for _, e := range m {
		if err := fn(e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiExporter) ExportReservations(ctx context.Context, reservations []*models.Reservation, name string) error {
	return m.each(func(e Exporter) error { return e.ExportReservations(ctx, reservations, name) })
}

func (m MultiExporter) ExportOccupancy(ctx context.Context, h *hotel.Hotel, start time.Time, days int, name string) error {
	return m.each(func(e Exporter) error { return e.ExportOccupancy(ctx, h, start, days, name) })
}

func (m MultiExporter) ExportRevenueAnalysis(ctx context.Context, analysis pricing.RevenueAnalysis, name string) error {
	return m.each(func(e Exporter) error { return e.ExportRevenueAnalysis(ctx, analysis, name) })
}

func (m MultiExporter) ExportPriceSuggestions(ctx context.Context, suggestions []pricing.PriceSuggestion, name string) error {
	return m.each(func(e Exporter) error { return e.ExportPriceSuggestions(ctx, suggestions, name) })
}

// MarshalSummary renders any export payload with the same encoder the writers use.
func MarshalSummary(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

// NewFileExporterFromConfig builds the file exporter for data.destination local or cloud.
func NewFileExporterFromConfig(ctx context.Context, cfg models.DataConfig, logger *log.Logger) (*FileExporter, error) {
	writer, err := NewTableWriter(cfg.Format)
	if err != nil {
		return nil, err
	}

	var target Target
	switch cfg.Destination {
	case "local":
		local, err := NewLocalTarget(cfg.ExportPath)
		if err != nil {
			return nil, err
		}
		target = local
	case "cloud":
		switch cfg.CloudStorage.Provider {
		case "s3", "":
			factory, err := cloudwriter.NewS3WriterFactory(ctx, cfg.CloudStorage.Region)
			if err != nil {
				return nil, fmt.Errorf("failed to create cloud writer factory: %w", err)
			}
			target = NewCloudTarget(factory, cfg.CloudStorage.BucketName, cfg.CloudStorage.Prefix)
		default:
			return nil, fmt.Errorf("unsupported cloud storage provider: %s", cfg.CloudStorage.Provider)
		}
	default:
		return nil, fmt.Errorf("unsupported output destination: %s", cfg.Destination)
	}

	logger.Info("data exporter initialised", "format", cfg.Format, "destination", cfg.Destination)
	return NewFileExporter(writer, target, logger), nil
}
