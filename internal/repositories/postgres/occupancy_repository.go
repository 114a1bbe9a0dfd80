package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisdamba/hotelsim/internal/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OccupancyRepository struct {
	pool *pgxpool.Pool
}

func NewOccupancyRepository(pool *pgxpool.Pool) *OccupancyRepository {
	return &OccupancyRepository{pool: pool}
}

// BulkUpsert stores one row per day; a later export of the same day replaces the earlier figures.
func (r *OccupancyRepository) BulkUpsert(ctx context.Context, snapshots []repositories.OccupancySnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}

	stmt := `
        INSERT INTO occupancy (date, occupancy_rate, revenue, room_types)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (date) DO UPDATE SET
            occupancy_rate = EXCLUDED.occupancy_rate,
            revenue = EXCLUDED.revenue,
            room_types = EXCLUDED.room_types`

	batch := &pgx.Batch{}
	for _, s := range snapshots {
		batch.Queue(stmt, s.Date, s.OccupancyRate, s.Revenue, s.RoomTypes)
	}

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert occupancy: %w", err)
	}
	return nil
}

func (r *OccupancyRepository) GetRange(ctx context.Context, start, end time.Time) ([]repositories.OccupancySnapshot, error) {
	query := `
        SELECT date, occupancy_rate, revenue, room_types
        FROM occupancy
        WHERE date >= $1 AND date < $2
        ORDER BY date`

	rows, err := r.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (repositories.OccupancySnapshot, error) {
		var s repositories.OccupancySnapshot
		err := row.Scan(&s.Date, &s.OccupancyRate, &s.Revenue, &s.RoomTypes)
		return s, err
	})
}

func (r *OccupancyRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE occupancy")
	return err
}
