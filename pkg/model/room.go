package model

import "time"

// RoomFeatures lists the capabilities every tenant can rely on as typed
// flags. Anything else a tenant wants to record goes into Extra.
type RoomFeatures struct {
	HasProjector         bool           `json:"has_projector" bson:"has_projector"`
	HasVideoConference   bool           `json:"has_video_conference" bson:"has_video_conference"`
	HasWhiteboard        bool           `json:"has_whiteboard" bson:"has_whiteboard"`
	HasPhone             bool           `json:"has_phone" bson:"has_phone"`
	WheelchairAccessible bool           `json:"wheelchair_accessible" bson:"wheelchair_accessible"`
	Extra                map[string]any `json:"extra,omitempty" bson:"extra,omitempty"`
}

type Room struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TenantID  string       `json:"tenant_id" bson:"tenant_id" validate:"required,mongodb"`
	Name      string       `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Capacity  int          `json:"capacity" bson:"capacity" validate:"required,min=1,max=10000"`
	Features  RoomFeatures `json:"features" bson:"features"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time    `json:"updated_at" bson:"updated_at"`
}

// RoomSummary is the room projection attached to listed reservations.
type RoomSummary struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Capacity int          `json:"capacity"`
	Features RoomFeatures `json:"features"`
}

func (r *Room) Summary() *RoomSummary {
	return &RoomSummary{
		ID:       r.ID,
		Name:     r.Name,
		Capacity: r.Capacity,
		Features: r.Features,
	}
}
