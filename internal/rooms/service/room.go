package service

import (
	"context"
	"errors"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/repository"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
)

type RoomService interface {
	List(ctx context.Context, tenantID string) ([]*model.Room, error)
	GetByID(ctx context.Context, tenantID string, roomID string) (*model.Room, error)
}

type roomService struct {
	repo repository.RoomRepository
	cfg  *config.Config
}

func NewRoomService(repo repository.RoomRepository, cfg *config.Config) RoomService {
	return &roomService{
		repo: repo,
		cfg:  cfg,
	}
}

func (s *roomService) List(ctx context.Context, tenantID string) ([]*model.Room, error) {
	rooms, err := s.repo.FindByTenant(ctx, tenantID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "tenant_id", tenantID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) GetByID(ctx context.Context, tenantID string, roomID string) (*model.Room, error) {
	room, err := s.repo.FindByIDForTenant(ctx, tenantID, roomID)
	if err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, roomserrors.RoomNotFound(roomID)
		}
		s.cfg.Log.Error("Failed to get room", "tenant_id", tenantID, "room_id", roomID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}
