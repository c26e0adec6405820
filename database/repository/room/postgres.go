package roomRepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"george/models"
)

// PostgresRoomRepo reads room reference data from the rooms table.
type PostgresRoomRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRoomRepo(pool *pgxpool.Pool) *PostgresRoomRepo {
	return &PostgresRoomRepo{pool: pool}
}

func (r *PostgresRoomRepo) GetAll(ctx context.Context) ([]models.RoomType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx,
		`SELECT room_type, capacity, nightly_rate, description FROM rooms ORDER BY nightly_rate`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	var rooms []models.RoomType
	for rows.Next() {
		var rt models.RoomType
		if err := rows.Scan(&rt.Name, &rt.Capacity, &rt.NightlyRate, &rt.Description); err != nil {
			return nil, fmt.Errorf("failed to scan room row: %w", err)
		}
		rooms = append(rooms, rt)
	}
	return rooms, rows.Err()
}

func (r *PostgresRoomRepo) GetByName(ctx context.Context, name string) (*models.RoomType, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rt models.RoomType
	err := r.pool.QueryRow(ctx,
		`SELECT room_type, capacity, nightly_rate, description FROM rooms WHERE lower(room_type) = lower($1)`,
		name,
	).Scan(&rt.Name, &rt.Capacity, &rt.NightlyRate, &rt.Description)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room %q: %w", name, err)
	}
	return &rt, nil
}
