package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/chrisdamba/hotelsim/internal/output"
	"github.com/chrisdamba/hotelsim/internal/repositories/postgres"
	"github.com/chrisdamba/hotelsim/internal/simulator"
	"github.com/chrisdamba/hotelsim/internal/weather"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

// app is one configured simulation together with the resources it must release.
type app struct {
	cfg     *models.Config
	logger  *log.Logger
	sim     *simulator.Simulator
	closers []func() error
}

func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: newLogger(cfg.Log.Level)}
	if cfgFile == "" {
		a.logger.Debug("configuration loaded", "hotel", cfg.Hotel.Name)
	} else {
		a.logger.Info("using config file", "path", cfgFile)
	}

	var opts []simulator.Option

	if cfg.Weather.Enabled {
		svc, err := weather.NewServiceFromConfig(ctx, cfg.Weather, cfg.Seed(), a.logger)
		if err != nil {
			a.logger.Warn("weather unavailable, demand is not weather adjusted", "err", err)
		} else {
			a.closers = append(a.closers, svc.Close)
			opts = append(opts, simulator.WithWeather(svc))
		}
	}

	events, err := output.NewEventDestination(cfg.Events, cmd.ErrOrStderr(), a.logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create event destination: %w", err)
	}
	if events != nil {
		a.closers = append(a.closers, events.Close)
		opts = append(opts, simulator.WithEventDestination(events))
	}

	exporters, err := a.exporters(ctx, events)
	if err != nil {
		a.close()
		return nil, err
	}
	if len(exporters) > 0 {
		opts = append(opts, simulator.WithExporter(exporters))
	}

	a.sim = simulator.NewSimulator(cfg, a.logger, opts...)
	return a, nil
}

// exporters assembles the file, database and stream exporters the configuration enables.
func (a *app) exporters(ctx context.Context, events output.OutputDestination) (output.MultiExporter, error) {
	cfg := a.cfg
	var exporters output.MultiExporter

	if cfg.Data.Destination != "none" {
		fe, err := output.NewFileExporterFromConfig(ctx, cfg.Data, a.logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create data exporter: %w", err)
		}
		exporters = append(exporters, fe)
	}

	if cfg.Database.Enabled {
		pool, err := pgxpool.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		exporters = append(exporters, output.NewPostgresExporter(
			postgres.NewReservationRepository(pool),
			postgres.NewOccupancyRepository(pool),
			postgres.NewRevenueAnalysisRepository(pool),
			postgres.NewPriceSuggestionRepository(pool),
			a.logger,
		))
		a.logger.Info("database export enabled")
	}

	if cfg.Data.Stream {
		if events == nil {
			a.logger.Warn("data.stream needs events.output to be set, stream export disabled")
		} else {
			exporters = append(exporters, output.NewStreamExporter(events, a.logger))
		}
	}
	return exporters, nil
}

// close releases resources in reverse order of acquisition.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("error closing resource", "err", err)
		}
	}
	a.closers = nil
}
