package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
        reservation_id      TEXT PRIMARY KEY,
        request_id          TEXT NOT NULL,
        check_in_date       DATE NOT NULL,
        check_out_date      DATE NOT NULL,
        guests              INTEGER NOT NULL,
        preferred_room_type TEXT,
        room_id             INTEGER NOT NULL,
        room_type           TEXT NOT NULL,
        price_per_night     DOUBLE PRECISION NOT NULL,
        nightly_prices      INTEGER[] NOT NULL,
        total_price         DOUBLE PRECISION NOT NULL,
        status              TEXT NOT NULL,
        booked_on           DATE NOT NULL,
        creation_date       TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS occupancy (
        date           DATE PRIMARY KEY,
        occupancy_rate DOUBLE PRECISION NOT NULL,
        revenue        DOUBLE PRECISION NOT NULL,
        room_types     JSONB NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS revenue_analyses (
        run_name              TEXT PRIMARY KEY,
        start_date            DATE NOT NULL,
        days                  INTEGER NOT NULL,
        total_revenue         DOUBLE PRECISION NOT NULL,
        average_daily_revenue DOUBLE PRECISION NOT NULL,
        average_occupancy     DOUBLE PRECISION NOT NULL,
        created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS price_suggestions (
        run_name                 TEXT NOT NULL,
        room_type                TEXT NOT NULL,
        current_base_price       DOUBLE PRECISION NOT NULL,
        suggested_adjustment_pct DOUBLE PRECISION NOT NULL,
        suggested_new_base       DOUBLE PRECISION NOT NULL,
        reason                   TEXT NOT NULL,
        created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
        PRIMARY KEY (run_name, room_type)
    )`,
}

// Migrate creates the export tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
