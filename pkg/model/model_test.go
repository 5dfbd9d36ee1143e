package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestReservation_Range(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	r := &Reservation{StartTime: start, EndTime: end}

	rng := r.Range()
	if !rng.Start.Equal(start) || !rng.End.Equal(end) {
		t.Errorf("unexpected range: %+v", rng)
	}
}

func TestRoom_Summary(t *testing.T) {
	room := &Room{
		ID:       "65f000000000000000000001",
		TenantID: "65f000000000000000000002",
		Name:     "Conference Room A",
		Capacity: 10,
		Features: RoomFeatures{HasProjector: true, Extra: map[string]any{"floor": 3}},
	}

	s := room.Summary()
	if s.ID != room.ID || s.Name != room.Name || s.Capacity != room.Capacity {
		t.Errorf("summary does not match room: %+v", s)
	}
	if !s.Features.HasProjector {
		t.Error("expected features to be carried over")
	}
}

func TestRoomFeatures_JSON(t *testing.T) {
	f := RoomFeatures{
		HasVideoConference: true,
		Extra:              map[string]any{"coffee_machine": true},
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["has_video_conference"] != true {
		t.Errorf("expected has_video_conference=true, got %v", decoded["has_video_conference"])
	}
	if decoded["has_projector"] != false {
		t.Errorf("expected typed flags to always be present, got %v", decoded["has_projector"])
	}
	extra, ok := decoded["extra"].(map[string]any)
	if !ok || extra["coffee_machine"] != true {
		t.Errorf("expected extra map to round trip, got %v", decoded["extra"])
	}
}

func TestBookingRequest_MissingFieldsDecodeAsNil(t *testing.T) {
	var req BookingRequest
	if err := json.Unmarshal([]byte(`{"title":"Standup"}`), &req); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if req.StartTime != nil || req.EndTime != nil {
		t.Error("expected missing times to decode as nil")
	}
}
