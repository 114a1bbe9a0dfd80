package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/hotelsim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// BulkUpsert writes every reservation in one batch. Exports repeat the whole collection, so existing rows
// only have their status refreshed.
func (r *ReservationRepository) BulkUpsert(ctx context.Context, reservations []*models.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}

	stmt := `
        INSERT INTO reservations (
            reservation_id, request_id, check_in_date, check_out_date, guests,
            preferred_room_type, room_id, room_type, price_per_night, nightly_prices,
            total_price, status, booked_on, creation_date
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
        )
        ON CONFLICT (reservation_id) DO UPDATE SET status = EXCLUDED.status`

	batch := &pgx.Batch{}
	for _, res := range reservations {
		batch.Queue(stmt,
			res.ID,
			res.RequestID,
			res.CheckIn,
			res.CheckOut,
			res.Guests,
			res.PreferredRoomType,
			res.RoomID,
			res.RoomType,
			res.PricePerNight,
			res.NightlyPrices,
			res.TotalPrice,
			res.Status,
			res.BookedOn,
			res.CreatedAt,
		)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert reservations: %w", err)
	}
	return tx.Commit(ctx)
}

func (r *ReservationRepository) GetAll(ctx context.Context) ([]*models.Reservation, error) {
	query := `
        SELECT
            reservation_id, request_id, check_in_date, check_out_date, guests,
            preferred_room_type, room_id, room_type, price_per_night, nightly_prices,
            total_price, status, booked_on, creation_date
        FROM reservations
        ORDER BY booked_on, creation_date`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []*models.Reservation
	for rows.Next() {
		res := &models.Reservation{}
		err := rows.Scan(
			&res.ID,
			&res.RequestID,
			&res.CheckIn,
			&res.CheckOut,
			&res.Guests,
			&res.PreferredRoomType,
			&res.RoomID,
			&res.RoomType,
			&res.PricePerNight,
			&res.NightlyPrices,
			&res.TotalPrice,
			&res.Status,
			&res.BookedOn,
			&res.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	return reservations, rows.Err()
}

func (r *ReservationRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM reservations").Scan(&count)
	return count, err
}

func (r *ReservationRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE reservations")
	return err
}
