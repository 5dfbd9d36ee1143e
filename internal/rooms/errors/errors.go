package errors

import (
	"errors"
	"fmt"
	"net/http"
	apperrors "roombook/pkg/errors"
	"roombook/pkg/model"
	"roombook/pkg/timerange"
	"time"
)

var (
	ErrRoomNotFound = errors.New("room not found or does not belong to tenant")

	ErrInvalidInterval = timerange.ErrInvalidInterval

	ErrBookingConflict = errors.New("room is already booked for this time period")

	ErrBusy = errors.New("room is busy, retry the booking")

	ErrPersistence = errors.New("reservation store failure")

	ErrReservationNotFound = errors.New("reservation not found")

	ErrInvalidID = errors.New("invalid ID format")
)

const (
	CodeRoomNotFound       = "ROOM_NOT_FOUND"
	CodeInvalidInterval    = "INVALID_INTERVAL"
	CodeBookingConflict    = "BOOKING_CONFLICT"
	CodeBusy               = "BUSY"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
)

func RoomNotFound(roomID string) *apperrors.AppError {
	return &apperrors.AppError{
		Code:       CodeRoomNotFound,
		Message:    "Room not found or does not belong to tenant",
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"room_id": roomID},
		Err:        ErrRoomNotFound,
	}
}

func InvalidInterval(start, end time.Time) *apperrors.AppError {
	return &apperrors.AppError{
		Code:       CodeInvalidInterval,
		Message:    "Start time must be before end time",
		HTTPStatus: http.StatusBadRequest,
		Details: map[string]any{
			"start_time": start.Format(time.RFC3339),
			"end_time":   end.Format(time.RFC3339),
		},
		Err: ErrInvalidInterval,
	}
}

// BookingConflict keeps the 400 status existing clients already handle.
func BookingConflict(existing *model.Reservation) *apperrors.AppError {
	appErr := &apperrors.AppError{
		Code:       CodeBookingConflict,
		Message:    "Room is already booked for this time period",
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrBookingConflict,
	}
	if existing != nil {
		appErr.Details = map[string]any{
			"conflicting_reservation_id": existing.ID,
			"conflicting_start_time":     existing.StartTime.Format(time.RFC3339),
			"conflicting_end_time":       existing.EndTime.Format(time.RFC3339),
		}
	}
	return appErr
}

func Busy(roomID string, cause error) *apperrors.AppError {
	return &apperrors.AppError{
		Code:       CodeBusy,
		Message:    "Room is busy with another booking, please retry",
		HTTPStatus: http.StatusServiceUnavailable,
		Details:    map[string]any{"room_id": roomID, "retryable": true},
		Err:        fmt.Errorf("%w: %w", ErrBusy, cause),
	}
}

func PersistenceFailure(message string, cause error) *apperrors.AppError {
	return &apperrors.AppError{
		Code:       CodePersistenceFailure,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Details:    map[string]any{"retryable": true},
		Err:        fmt.Errorf("%w: %w", ErrPersistence, cause),
	}
}

func ReservationNotFound(id string) *apperrors.AppError {
	appErr := apperrors.NotFoundWithID("Reservation", id)
	appErr.Err = ErrReservationNotFound
	return appErr
}
