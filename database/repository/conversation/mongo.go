package conversationRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"george/models"
)

type turnDoc struct {
	SessionID string                  `bson:"session_id"`
	Turn      models.ConversationTurn `bson:"turn"`
}

// MongoConversationRepo archives turns in the conversations collection.
type MongoConversationRepo struct {
	coll *mongo.Collection
}

func NewMongoConversationRepo(client *mongo.Client, dbName string) *MongoConversationRepo {
	return &MongoConversationRepo{coll: client.Database(dbName).Collection("conversations")}
}

func (r *MongoConversationRepo) Append(ctx context.Context, sessionID string, turns ...models.ConversationTurn) error {
	if len(turns) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(turns))
	for _, t := range turns {
		docs = append(docs, turnDoc{SessionID: sessionID, Turn: t})
	}
	if _, err := r.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to archive conversation turns: %w", err)
	}
	return nil
}

func (r *MongoConversationRepo) GetBySession(ctx context.Context, sessionID string, limit int64) ([]models.ConversationTurn, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.M{"turn.timestamp": 1})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation archive: %w", err)
	}
	defer cur.Close(ctx)

	var turns []models.ConversationTurn
	for cur.Next(ctx) {
		var doc turnDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode archived turn: %w", err)
		}
		turns = append(turns, doc.Turn)
	}
	return turns, cur.Err()
}
