package roomRepo

import (
	"context"
	"strings"

	"george/models"
)

// MemoryRoomRepo serves room reference data from a fixed in-memory list.
// Used in tests and when running without a database.
type MemoryRoomRepo struct {
	rooms []models.RoomType
}

// NewMemoryRoomRepo returns a repo seeded with the given rooms, or with the
// default Chez Govinda room list when none are given.
func NewMemoryRoomRepo(rooms ...models.RoomType) *MemoryRoomRepo {
	if len(rooms) == 0 {
		rooms = DefaultRooms()
	}
	return &MemoryRoomRepo{rooms: rooms}
}

// DefaultRooms mirrors the seed rows in database/schema.sql.
func DefaultRooms() []models.RoomType {
	return []models.RoomType{
		{Name: "Single Room", Capacity: 1, NightlyRate: 95, Description: "Cosy single room with garden view"},
		{Name: "Twin Room", Capacity: 2, NightlyRate: 140, Description: "Two single beds, courtyard side"},
		{Name: "Double Room", Capacity: 2, NightlyRate: 150, Description: "Spacious double room with queen-size bed"},
		{Name: "Family Room", Capacity: 4, NightlyRate: 210, Description: "Family room sleeping up to four guests"},
	}
}

func (r *MemoryRoomRepo) GetAll(_ context.Context) ([]models.RoomType, error) {
	out := make([]models.RoomType, len(r.rooms))
	copy(out, r.rooms)
	return out, nil
}

func (r *MemoryRoomRepo) GetByName(_ context.Context, name string) (*models.RoomType, error) {
	for _, rt := range r.rooms {
		if strings.EqualFold(rt.Name, name) {
			room := rt
			return &room, nil
		}
	}
	return nil, nil
}
