package service

import (
	"context"
	"errors"
	"roombook/internal/rooms/events"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/repository"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/lock"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"
	"roombook/pkg/timerange"
	"time"

	"golang.org/x/sync/errgroup"
)

type ReservationService interface {
	BookRoom(ctx context.Context, tenantID string, roomID string, req *model.BookingRequest) (*model.Reservation, error)
	HasConflict(ctx context.Context, tenantID string, roomID string, start, end time.Time) (bool, error)
	AvailableRooms(ctx context.Context, tenantID string, start, end time.Time) ([]*model.Room, error)
	ListBookings(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error)
	GetByID(ctx context.Context, tenantID string, id string) (*model.Reservation, error)
	Update(ctx context.Context, tenantID string, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, tenantID string, id string) error
}

type reservationService struct {
	repo      repository.ReservationRepository
	roomRepo  repository.RoomRepository
	fenceRepo repository.RoomFenceRepository
	locker    *lock.KeyedLocker
	validator *validator.ReservationValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	roomRepo repository.RoomRepository,
	fenceRepo repository.RoomFenceRepository,
	locker *lock.KeyedLocker,
	validator *validator.ReservationValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		roomRepo:  roomRepo,
		fenceRepo: fenceRepo,
		locker:    locker,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// BookRoom commits a reservation if and only if the room belongs to the
// tenant and no committed reservation on it overlaps the requested interval.
// Bookings on one room are serialized twice: by the in-process locker, and
// across processes by the fence document every booking transaction writes.
func (s *reservationService) BookRoom(ctx context.Context, tenantID string, roomID string, req *model.BookingRequest) (*model.Reservation, error) {
	req.Title = sanitizer.SanitizeTitle(req.Title)
	if err := s.validator.ValidateBookingRequest(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "room_id", roomID, "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	rng := timerange.Range{Start: *req.StartTime, End: *req.EndTime}.UTC()
	if err := rng.Validate(); err != nil {
		return nil, roomserrors.InvalidInterval(rng.Start, rng.End)
	}

	bookCtx, cancel := context.WithTimeout(ctx, s.cfg.BookingLockTimeout)
	defer cancel()

	release, err := s.locker.Acquire(bookCtx, roomID)
	if err != nil {
		s.cfg.Log.Warn("Room lock not acquired", "room_id", roomID, "error", err)
		return nil, roomserrors.Busy(roomID, err)
	}
	defer release()

	reservation := &model.Reservation{
		RoomID:    roomID,
		TenantID:  tenantID,
		Title:     req.Title,
		StartTime: rng.Start,
		EndTime:   rng.End,
	}

	err = s.repo.ExecuteTransaction(bookCtx, func(txCtx context.Context) error {
		reservation.ID = ""

		if _, err := s.roomRepo.FindByIDForTenant(txCtx, tenantID, roomID); err != nil {
			if errors.Is(err, roomserrors.ErrRoomNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
				return roomserrors.RoomNotFound(roomID)
			}
			return err
		}

		if err := s.fenceRepo.Claim(txCtx, roomID); err != nil {
			return err
		}

		existing, err := s.repo.FindConflict(txCtx, roomID, rng)
		if err != nil {
			return err
		}
		if existing != nil && existing.Range().Overlaps(rng) {
			return roomserrors.BookingConflict(existing)
		}

		return s.repo.Create(txCtx, reservation)
	})
	if err != nil {
		return nil, s.bookingError(bookCtx, roomID, err)
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"tenant_id", tenantID,
		"room_id", roomID,
		"start_time", reservation.StartTime,
		"end_time", reservation.EndTime,
	)
	s.publish(ctx, events.TypeReservationCreated, reservation)
	return reservation, nil
}

func (s *reservationService) bookingError(ctx context.Context, roomID string, err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		s.cfg.Log.Info("Booking rejected", "room_id", roomID, "code", appErr.Code)
		return appErr
	}

	if errors.Is(err, roomserrors.ErrBookingConflict) {
		s.cfg.Log.Info("Booking rejected by unique index", "room_id", roomID)
		return roomserrors.BookingConflict(nil)
	}

	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		s.cfg.Log.Warn("Booking timed out", "room_id", roomID, "error", err)
		return roomserrors.Busy(roomID, err)
	}

	s.cfg.Log.Error("Failed to create reservation", "room_id", roomID, "error", err)
	return roomserrors.PersistenceFailure("Failed to create reservation", err)
}

func (s *reservationService) HasConflict(ctx context.Context, tenantID string, roomID string, start, end time.Time) (bool, error) {
	rng := timerange.Range{Start: start, End: end}.UTC()
	if err := rng.Validate(); err != nil {
		return false, roomserrors.InvalidInterval(rng.Start, rng.End)
	}

	if _, err := s.roomRepo.FindByIDForTenant(ctx, tenantID, roomID); err != nil {
		if errors.Is(err, roomserrors.ErrRoomNotFound) || errors.Is(err, roomserrors.ErrInvalidID) {
			return false, roomserrors.RoomNotFound(roomID)
		}
		s.cfg.Log.Error("Failed to load room", "room_id", roomID, "error", err)
		return false, roomserrors.PersistenceFailure("Failed to check availability", err)
	}

	existing, err := s.repo.FindConflict(ctx, roomID, rng)
	if err != nil {
		s.cfg.Log.Error("Failed to check conflict", "room_id", roomID, "error", err)
		return false, roomserrors.PersistenceFailure("Failed to check availability", err)
	}

	if existing == nil {
		return false, nil
	}
	return hasConflict([]*model.Reservation{existing}, rng), nil
}

func (s *reservationService) AvailableRooms(ctx context.Context, tenantID string, start, end time.Time) ([]*model.Room, error) {
	rng := timerange.Range{Start: start, End: end}.UTC()
	if err := rng.Validate(); err != nil {
		return nil, roomserrors.InvalidInterval(rng.Start, rng.End)
	}

	var rooms []*model.Room
	var reservations []*model.Reservation

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rooms, err = s.roomRepo.FindByTenant(gctx, tenantID)
		return err
	})
	g.Go(func() error {
		var err error
		reservations, err = s.repo.FindOverlapping(gctx, tenantID, rng)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to load availability", "tenant_id", tenantID, "error", err)
		return nil, roomserrors.PersistenceFailure("Failed to retrieve available rooms", err)
	}

	available := roomsWithoutConflict(rooms, reservations, rng)

	s.cfg.Log.Debug("Availability computed",
		"tenant_id", tenantID,
		"rooms", len(rooms),
		"available", len(available),
	)
	return available, nil
}

func (s *reservationService) ListBookings(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error) {
	if filter.StartTime != nil {
		t := filter.StartTime.UTC()
		filter.StartTime = &t
	}
	if filter.EndTime != nil {
		t := filter.EndTime.UTC()
		filter.EndTime = &t
	}
	if filter.StartTime != nil && filter.EndTime != nil && !filter.StartTime.Before(*filter.EndTime) {
		return nil, roomserrors.InvalidInterval(*filter.StartTime, *filter.EndTime)
	}

	var reservations []*model.Reservation
	var rooms []*model.Room

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		reservations, err = s.repo.Search(gctx, tenantID, filter)
		return err
	})
	g.Go(func() error {
		var err error
		rooms, err = s.roomRepo.FindByTenant(gctx, tenantID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.cfg.Log.Error("Failed to list bookings", "tenant_id", tenantID, "error", err)
		return nil, roomserrors.PersistenceFailure("Failed to retrieve bookings", err)
	}

	attachRooms(reservations, rooms)
	return reservations, nil
}

func (s *reservationService) GetByID(ctx context.Context, tenantID string, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	if room, err := s.roomRepo.FindByIDForTenant(ctx, tenantID, reservation.RoomID); err == nil {
		reservation.Room = room.Summary()
	}
	return reservation, nil
}

// Update is an administrative override: it rewrites title and times without
// re-running the conflict check. The unique (room_id, start_time) index still
// rejects an exact start collision.
func (s *reservationService) Update(ctx context.Context, tenantID string, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if update.Title != nil {
		title := sanitizer.SanitizeTitle(*update.Title)
		update.Title = &title
	}
	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	existing, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}

	merged := mergeReservationUpdate(existing, update)
	rng := merged.Range().UTC()
	if err := rng.Validate(); err != nil {
		return nil, roomserrors.InvalidInterval(rng.Start, rng.End)
	}
	merged.StartTime, merged.EndTime = rng.Start, rng.End
	if err := s.validator.ValidateReservation(merged); err != nil {
		s.cfg.Log.Warn("Updated reservation failed validation", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid reservation", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, tenantID, id, merged); err != nil {
		if errors.Is(err, roomserrors.ErrBookingConflict) {
			return nil, roomserrors.BookingConflict(nil)
		}
		if errors.Is(err, roomserrors.ErrReservationNotFound) {
			return nil, roomserrors.ReservationNotFound(id)
		}
		s.cfg.Log.Error("Failed to update reservation", "id", id, "error", err)
		return nil, roomserrors.PersistenceFailure("Failed to update reservation", err)
	}

	s.cfg.Log.Info("Reservation updated successfully", "id", id, "tenant_id", tenantID)
	s.publish(ctx, events.TypeReservationUpdated, merged)
	return merged, nil
}

func (s *reservationService) Delete(ctx context.Context, tenantID string, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	var deleted *model.Reservation
	err := s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, tenantID, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(txCtx, tenantID, id); err != nil {
			return err
		}
		deleted = existing
		return nil
	})
	if err != nil {
		return s.lookupError(id, err)
	}

	s.cfg.Log.Info("Reservation deleted successfully", "id", id, "tenant_id", tenantID)
	s.publish(ctx, events.TypeReservationDeleted, deleted)
	return nil
}

func (s *reservationService) lookupError(id string, err error) error {
	if errors.Is(err, roomserrors.ErrReservationNotFound) {
		return roomserrors.ReservationNotFound(id)
	}
	if errors.Is(err, roomserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid reservation ID format")
	}
	if apperrors.IsAppError(err) {
		return apperrors.AsAppError(err)
	}
	s.cfg.Log.Error("Failed to retrieve reservation", "id", id, "error", err)
	return roomserrors.PersistenceFailure("Failed to retrieve reservation", err)
}

func (s *reservationService) publish(ctx context.Context, eventType string, r *model.Reservation) {
	if err := s.publisher.Publish(ctx, events.NewReservationEvent(eventType, r)); err != nil {
		s.cfg.Log.Warn("Failed to publish reservation event",
			"event_type", eventType,
			"id", r.ID,
			"room_id", r.RoomID,
			"error", err,
		)
	}
}

func mergeReservationUpdate(existing *model.Reservation, update *model.ReservationUpdate) *model.Reservation {
	merged := *existing

	if update.Title != nil {
		merged.Title = *update.Title
	}
	if update.StartTime != nil {
		merged.StartTime = *update.StartTime
	}
	if update.EndTime != nil {
		merged.EndTime = *update.EndTime
	}

	return &merged
}

func attachRooms(reservations []*model.Reservation, rooms []*model.Room) {
	summaries := make(map[string]*model.RoomSummary, len(rooms))
	for _, room := range rooms {
		summaries[room.ID] = room.Summary()
	}
	for _, r := range reservations {
		r.Room = summaries[r.RoomID]
	}
}
