package postgres

import (
	"context"

	"github.com/chrisdamba/hotelsim/internal/pricing"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PriceSuggestionRepository struct {
	pool *pgxpool.Pool
}

func NewPriceSuggestionRepository(pool *pgxpool.Pool) *PriceSuggestionRepository {
	return &PriceSuggestionRepository{pool: pool}
}

func (r *PriceSuggestionRepository) BulkCreate(ctx context.Context, runName string, suggestions []pricing.PriceSuggestion) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	stmt := `
        INSERT INTO price_suggestions (
            run_name, room_type, current_base_price, suggested_adjustment_pct,
            suggested_new_base, reason
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (run_name, room_type) DO NOTHING`

	for _, s := range suggestions {
		_, err = tx.Exec(ctx, stmt,
			runName,
			s.RoomType,
			s.CurrentBasePrice,
			s.SuggestedAdjustmentPct,
			s.SuggestedNewBase,
			s.Reason,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// GetLatest returns the suggestions of the most recent export run.
func (r *PriceSuggestionRepository) GetLatest(ctx context.Context) ([]pricing.PriceSuggestion, error) {
	query := `
        SELECT room_type, current_base_price, suggested_adjustment_pct, suggested_new_base, reason
        FROM price_suggestions
        WHERE run_name = (SELECT run_name FROM price_suggestions ORDER BY created_at DESC LIMIT 1)
        ORDER BY room_type`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suggestions []pricing.PriceSuggestion
	for rows.Next() {
		var s pricing.PriceSuggestion
		if err := rows.Scan(&s.RoomType, &s.CurrentBasePrice, &s.SuggestedAdjustmentPct, &s.SuggestedNewBase, &s.Reason); err != nil {
			return nil, err
		}
		suggestions = append(suggestions, s)
	}
	return suggestions, rows.Err()
}

func (r *PriceSuggestionRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE price_suggestions")
	return err
}
