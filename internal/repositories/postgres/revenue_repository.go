package postgres

import (
	"context"

	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RevenueAnalysisRepository struct {
	pool *pgxpool.Pool
}

func NewRevenueAnalysisRepository(pool *pgxpool.Pool) *RevenueAnalysisRepository {
	return &RevenueAnalysisRepository{pool: pool}
}

func (r *RevenueAnalysisRepository) Create(ctx context.Context, runName string, analysis pricing.RevenueAnalysis) error {
	query := `
        INSERT INTO revenue_analyses (
            run_name, start_date, days, total_revenue, average_daily_revenue, average_occupancy
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (run_name) DO UPDATE SET
            start_date = EXCLUDED.start_date,
            days = EXCLUDED.days,
            total_revenue = EXCLUDED.total_revenue,
            average_daily_revenue = EXCLUDED.average_daily_revenue,
            average_occupancy = EXCLUDED.average_occupancy`

	_, err := r.pool.Exec(ctx, query,
		runName,
		analysis.Start,
		analysis.Days,
		analysis.TotalRevenue,
		analysis.AverageDailyRevenue,
		analysis.AverageOccupancy,
	)
	return err
}

func (r *RevenueAnalysisRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE revenue_analyses")
	return err
}
