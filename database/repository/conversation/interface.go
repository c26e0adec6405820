package conversationRepo

import (
	"context"

	"george/models"
)

// Repository is the durable archive of conversation turns. The live memory
// window lives in Redis; every turn is also appended here so the full
// transcript survives session expiry.
type Repository interface {
	Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error
	GetBySession(ctx context.Context, sessionID string, limit int64) ([]models.ConversationTurn, error)
}
