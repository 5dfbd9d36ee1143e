package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/model"
	"roombook/pkg/timerange"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ReservationsCollection = "Reservations"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, tenantID string, id string) (*model.Reservation, error)
	Update(ctx context.Context, tenantID string, id string, reservation *model.Reservation) error
	Delete(ctx context.Context, tenantID string, id string) error
	// FindConflict returns the earliest reservation of roomID overlapping rng,
	// or nil when the room is free.
	FindConflict(ctx context.Context, roomID string, rng timerange.Range) (*model.Reservation, error)
	// FindOverlapping returns every reservation of the tenant overlapping rng.
	FindOverlapping(ctx context.Context, tenantID string, rng timerange.Range) ([]*model.Reservation, error)
	Search(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoReservationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoReservationRepository(cfg *config.Config) ReservationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoReservationRepository{
		cfg:        cfg,
		collection: db.Collection(ReservationsCollection),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

func (r *mongoReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reservation.CreatedAt = now
	reservation.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, reservation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", roomserrors.ErrBookingConflict, err)
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		reservation.ID = oid.Hex()
	}
	return nil
}

func (r *mongoReservationRepository) FindByID(ctx context.Context, tenantID string, id string) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	filter := bson.M{"_id": objectID, "tenant_id": tenantID}

	var reservation model.Reservation
	if err := r.collection.FindOne(ctx, filter).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, roomserrors.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) Update(ctx context.Context, tenantID string, id string, reservation *model.Reservation) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	reservation.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	filter := bson.M{"_id": objectID, "tenant_id": tenantID}
	update := bson.M{
		"$set": bson.M{
			"title":      reservation.Title,
			"start_time": reservation.StartTime,
			"end_time":   reservation.EndTime,
			"updated_at": reservation.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %v", roomserrors.ErrBookingConflict, err)
		}
		return fmt.Errorf("failed to update reservation: %w", err)
	}

	if result.MatchedCount == 0 {
		return roomserrors.ErrReservationNotFound
	}

	return nil
}

func (r *mongoReservationRepository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID, "tenant_id": tenantID})
	if err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if result.DeletedCount == 0 {
		return roomserrors.ErrReservationNotFound
	}

	return nil
}

func (r *mongoReservationRepository) FindConflict(ctx context.Context, roomID string, rng timerange.Range) (*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := overlapFilter(rng)
	filter["room_id"] = roomID

	opts := options.FindOne().SetSort(bson.D{{Key: "start_time", Value: 1}})

	var reservation model.Reservation
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&reservation); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check reservation conflict: %w", err)
	}

	return &reservation, nil
}

func (r *mongoReservationRepository) FindOverlapping(ctx context.Context, tenantID string, rng timerange.Range) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := overlapFilter(rng)
	filter["tenant_id"] = tenantID

	opts := options.Find().SetProjection(bson.M{"room_id": 1, "start_time": 1, "end_time": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var reservations []*model.Reservation
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) Search(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, buildSearchFilter(tenantID, filter), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search reservations: %w", err)
	}
	defer cursor.Close(ctx)

	reservations := []*model.Reservation{}
	if err = cursor.All(ctx, &reservations); err != nil {
		return nil, fmt.Errorf("failed to decode reservations: %w", err)
	}

	return reservations, nil
}

func (r *mongoReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}

// overlapFilter matches stored [start_time, end_time) intervals that
// intersect rng. Touching endpoints do not match.
func overlapFilter(rng timerange.Range) bson.M {
	return bson.M{
		"start_time": bson.M{"$lt": rng.End},
		"end_time":   bson.M{"$gt": rng.Start},
	}
}

func buildSearchFilter(tenantID string, f model.ReservationFilter) bson.M {
	filter := bson.M{"tenant_id": tenantID}

	if f.RoomID != "" {
		filter["room_id"] = f.RoomID
	}
	if f.StartTime != nil {
		filter["end_time"] = bson.M{"$gt": *f.StartTime}
	}
	if f.EndTime != nil {
		filter["start_time"] = bson.M{"$lt": *f.EndTime}
	}

	return filter
}
