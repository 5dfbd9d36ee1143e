package model

import (
	"roombook/pkg/timerange"
	"time"
)

type Reservation struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	RoomID    string       `json:"room_id" bson:"room_id" validate:"required,mongodb"`
	TenantID  string       `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	Title     string       `json:"title" bson:"title" validate:"required,min=1,max=200"`
	StartTime time.Time    `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time    `json:"end_time" bson:"end_time" validate:"required"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
	Room      *RoomSummary `json:"room,omitempty" bson:"-"`
}

func (r *Reservation) Range() timerange.Range {
	return timerange.Range{Start: r.StartTime, End: r.EndTime}
}

// BookingRequest is the body of a booking call. Pointers let a missing
// field be told apart from a zero time.
type BookingRequest struct {
	Title     string     `json:"title" validate:"required,max=200"`
	StartTime *time.Time `json:"start_time" validate:"required"`
	EndTime   *time.Time `json:"end_time" validate:"required"`
}

type ReservationUpdate struct {
	Title     *string    `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

// ReservationFilter narrows a tenant's reservations. Nil bounds are open.
type ReservationFilter struct {
	StartTime *time.Time
	EndTime   *time.Time
	RoomID    string
}
