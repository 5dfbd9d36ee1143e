package repository

import (
	"context"
	"fmt"
	"roombook/pkg/config"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomFencesCollection = "Room_fences"
)

// RoomFenceRepository serializes booking transactions per room across
// processes. Claiming writes the room's fence document inside the caller's
// transaction, so two transactions on the same room cannot both commit: the
// second one hits a write conflict and is retried against the newer snapshot.
type RoomFenceRepository interface {
	Claim(ctx context.Context, roomID string) error
}

type mongoRoomFenceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoRoomFenceRepository(cfg *config.Config) RoomFenceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomFenceRepository{
		cfg:        cfg,
		collection: db.Collection(RoomFencesCollection),
	}
}

func (r *mongoRoomFenceRepository) Claim(ctx context.Context, roomID string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"seq": 1},
		"$set": bson.M{"claimed_at": time.Now().UTC()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": roomID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to claim room fence: %w", err)
	}
	return nil
}
