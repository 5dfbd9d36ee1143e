package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"roombook/internal/rooms/repository"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/timerange"
)

type memTenants struct {
	created []*model.Tenant
}

func (m *memTenants) Create(ctx context.Context, tenant *model.Tenant) error {
	tenant.ID = fmt.Sprintf("%024x", len(m.created)+1)
	m.created = append(m.created, tenant)
	return nil
}

func (m *memTenants) FindByID(ctx context.Context, id string) (*model.Tenant, error) {
	return nil, repository.ErrTenantNotFound
}

type memRooms struct {
	created []*model.Room
}

func (m *memRooms) Create(ctx context.Context, room *model.Room) error {
	room.ID = fmt.Sprintf("%024x", 0x100+len(m.created))
	m.created = append(m.created, room)
	return nil
}

func (m *memRooms) FindByIDForTenant(ctx context.Context, tenantID, roomID string) (*model.Room, error) {
	return nil, errors.New("not implemented")
}

func (m *memRooms) FindByTenant(ctx context.Context, tenantID string) ([]*model.Room, error) {
	return m.created, nil
}

type memReservations struct {
	repository.ReservationRepository
	created   []*model.Reservation
	createErr error
}

func (m *memReservations) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, reservation)
	return nil
}

func newTestSeeder(reservations *memReservations) (*Seeder, *memTenants, *memRooms) {
	tenants := &memTenants{}
	rooms := &memRooms{}
	s := NewSeeder(tenants, rooms, reservations, logger.New(logger.Config{Output: io.Discard}))
	s.now = func() time.Time { return time.Date(2026, 3, 10, 8, 17, 0, 0, time.UTC) }
	return s, tenants, rooms
}

func TestSeeder_Run(t *testing.T) {
	reservations := &memReservations{}
	s, tenants, rooms := newTestSeeder(reservations)

	result, err := s.Run(context.Background(), DefaultTenantName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(tenants.created) != 1 || result.Tenant.Name != "Test Tenant" {
		t.Fatalf("unexpected tenants: %+v", tenants.created)
	}
	if len(rooms.created) != 2 {
		t.Fatalf("expected 2 rooms, got %d", len(rooms.created))
	}

	a, b := rooms.created[0], rooms.created[1]
	if a.Name != "Conference Room A" || a.Capacity != 10 || !a.Features.HasProjector || !a.Features.HasVideoConference {
		t.Errorf("unexpected first room: %+v", a)
	}
	if b.Name != "Meeting Room B" || b.Capacity != 6 || !b.Features.HasWhiteboard {
		t.Errorf("unexpected second room: %+v", b)
	}

	if len(reservations.created) != 10 {
		t.Fatalf("expected 10 reservations, got %d", len(reservations.created))
	}

	first := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, r := range reservations.created {
		wantRoom := rooms.created[i%2].ID
		wantStart := first.Add(time.Duration(i) * 2 * time.Hour)
		if r.RoomID != wantRoom {
			t.Errorf("meeting %d: expected room %s, got %s", i, wantRoom, r.RoomID)
		}
		if !r.StartTime.Equal(wantStart) || r.EndTime.Sub(r.StartTime) != time.Hour {
			t.Errorf("meeting %d: unexpected window %s - %s", i, r.StartTime, r.EndTime)
		}
		if r.TenantID != result.Tenant.ID {
			t.Errorf("meeting %d: wrong tenant %s", i, r.TenantID)
		}
	}
}

func TestDemoMeetings_NoOverlapPerRoom(t *testing.T) {
	rooms := DemoRooms("t")
	rooms[0].ID, rooms[1].ID = "a", "b"

	meetings := DemoMeetings("t", rooms, time.Now())
	for i, x := range meetings {
		for _, y := range meetings[i+1:] {
			if x.RoomID != y.RoomID {
				continue
			}
			rx := timerange.Range{Start: x.StartTime, End: x.EndTime}
			ry := timerange.Range{Start: y.StartTime, End: y.EndTime}
			if rx.Overlaps(ry) {
				t.Errorf("%s overlaps %s", x.Title, y.Title)
			}
		}
	}
}

func TestDemoMeetings_NoRooms(t *testing.T) {
	if got := DemoMeetings("t", nil, time.Now()); got != nil {
		t.Errorf("expected no meetings without rooms, got %d", len(got))
	}
}

func TestSeeder_RunPropagatesErrors(t *testing.T) {
	s, _, _ := newTestSeeder(&memReservations{createErr: errors.New("duplicate key")})

	_, err := s.Run(context.Background(), DefaultTenantName)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), `failed to seed reservation "Meeting 1"`) {
		t.Errorf("unexpected error: %v", err)
	}
}
