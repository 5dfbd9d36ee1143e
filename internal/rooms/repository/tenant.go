package repository

import (
	"context"
	"errors"
	"fmt"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/pkg/config"
	"roombook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	TenantsCollection = "Tenants"
)

var ErrTenantNotFound = errors.New("tenant not found")

type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) error
	FindByID(ctx context.Context, id string) (*model.Tenant, error)
}

type mongoTenantRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTenantRepository(cfg *config.Config) TenantRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTenantRepository{
		cfg:        cfg,
		collection: db.Collection(TenantsCollection),
	}
}

func (r *mongoTenantRepository) Create(ctx context.Context, tenant *model.Tenant) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	tenant.CreatedAt = now
	tenant.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tenant.ID = oid.Hex()
	}
	return nil
}

func (r *mongoTenantRepository) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", roomserrors.ErrInvalidID, id)
	}

	var tenant model.Tenant
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&tenant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find tenant: %w", err)
	}

	return &tenant, nil
}
