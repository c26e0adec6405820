package roomRepo

import (
	"context"

	"george/models"
)

// Repository provides read-only access to room reference data.
type Repository interface {
	GetAll(ctx context.Context) ([]models.RoomType, error)
	// GetByName resolves a room type by name, case-insensitively.
	// Returns (nil, nil) when no such room exists.
	GetByName(ctx context.Context, name string) (*models.RoomType, error)
}
