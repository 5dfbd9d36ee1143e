package service

import (
	"roombook/pkg/model"
	"roombook/pkg/timerange"
)

// hasConflict reports whether any reservation overlaps rng.
func hasConflict(existing []*model.Reservation, rng timerange.Range) bool {
	for _, r := range existing {
		if r.Range().Overlaps(rng) {
			return true
		}
	}
	return false
}

// roomsWithoutConflict keeps the rooms none of the reservations overlapping
// rng are booked on. Input order is preserved.
func roomsWithoutConflict(rooms []*model.Room, reservations []*model.Reservation, rng timerange.Range) []*model.Room {
	busy := make(map[string]struct{}, len(reservations))
	for _, r := range reservations {
		if r.Range().Overlaps(rng) {
			busy[r.RoomID] = struct{}{}
		}
	}

	available := make([]*model.Room, 0, len(rooms))
	for _, room := range rooms {
		if _, ok := busy[room.ID]; !ok {
			available = append(available, room)
		}
	}
	return available
}
