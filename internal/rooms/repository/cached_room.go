package repository

import (
	"context"
	"roombook/pkg/cache"
	"roombook/pkg/logger"
	"roombook/pkg/model"
)

// cachedRoomRepository keeps each tenant's room list in memory. Rooms change
// only through seeding, so a short TTL bounds staleness. Single room lookups
// go to the store because the booking transaction re-validates ownership
// against its own snapshot.
type cachedRoomRepository struct {
	next  RoomRepository
	cache *cache.Cache[[]*model.Room]
	log   *logger.Logger
}

func NewCachedRoomRepository(next RoomRepository, c *cache.Cache[[]*model.Room], log *logger.Logger) RoomRepository {
	return &cachedRoomRepository{
		next:  next,
		cache: c,
		log:   log,
	}
}

func (r *cachedRoomRepository) Create(ctx context.Context, room *model.Room) error {
	if err := r.next.Create(ctx, room); err != nil {
		return err
	}
	r.cache.Delete(room.TenantID)
	return nil
}

func (r *cachedRoomRepository) FindByIDForTenant(ctx context.Context, tenantID string, roomID string) (*model.Room, error) {
	return r.next.FindByIDForTenant(ctx, tenantID, roomID)
}

func (r *cachedRoomRepository) FindByTenant(ctx context.Context, tenantID string) ([]*model.Room, error) {
	if rooms, ok := r.cache.Get(tenantID); ok {
		return rooms, nil
	}

	rooms, err := r.next.FindByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if !r.cache.Set(tenantID, rooms) {
		r.log.Debug("Room list not admitted to cache", "tenant_id", tenantID)
	}
	return rooms, nil
}
