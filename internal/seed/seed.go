// Package seed loads demo data for local development. It is run from
// cmd/seed and never at service startup.
package seed

import (
	"context"
	"fmt"
	"time"

	"roombook/internal/rooms/repository"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/sanitizer"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DefaultTenantName = "Test Tenant"

	demoMeetings        = 10
	demoMeetingSpacing  = 2 * time.Hour
	demoMeetingDuration = time.Hour
)

type Result struct {
	Tenant       *model.Tenant
	Rooms        []*model.Room
	Reservations []*model.Reservation
}

type Seeder struct {
	tenants      repository.TenantRepository
	rooms        repository.RoomRepository
	reservations repository.ReservationRepository
	log          *logger.Logger
	now          func() time.Time
}

func NewSeeder(tenants repository.TenantRepository, rooms repository.RoomRepository, reservations repository.ReservationRepository, log *logger.Logger) *Seeder {
	return &Seeder{
		tenants:      tenants,
		rooms:        rooms,
		reservations: reservations,
		log:          log,
		now:          time.Now,
	}
}

// Run creates one tenant with two rooms and ten one-hour meetings, two
// hours apart, alternating between the rooms.
func (s *Seeder) Run(ctx context.Context, tenantName string) (*Result, error) {
	tenant := &model.Tenant{
		Name:        tenantName,
		Description: tenantName + " Description",
	}
	if err := s.tenants.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("failed to seed tenant: %w", err)
	}
	s.log.Info("Tenant created successfully", "tenant_id", tenant.ID, "name", tenant.Name)

	rooms := DemoRooms(tenant.ID)
	for _, room := range rooms {
		room.Name = sanitizer.SanitizeRoomName(room.Name)
		if err := s.rooms.Create(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to seed room %s: %w", room.Name, err)
		}
	}
	s.log.Info("Rooms created successfully", "tenant_id", tenant.ID, "count", len(rooms))

	reservations := DemoMeetings(tenant.ID, rooms, s.now())
	for _, reservation := range reservations {
		if err := s.reservations.Create(ctx, reservation); err != nil {
			return nil, fmt.Errorf("failed to seed reservation %q: %w", reservation.Title, err)
		}
	}
	s.log.Info("Sample data inserted successfully", "tenant_id", tenant.ID, "reservations", len(reservations))

	return &Result{
		Tenant:       tenant,
		Rooms:        rooms,
		Reservations: reservations,
	}, nil
}

func DemoRooms(tenantID string) []*model.Room {
	return []*model.Room{
		{
			TenantID: tenantID,
			Name:     "Conference Room A",
			Capacity: 10,
			Features: model.RoomFeatures{HasProjector: true, HasVideoConference: true},
		},
		{
			TenantID: tenantID,
			Name:     "Meeting Room B",
			Capacity: 6,
			Features: model.RoomFeatures{HasWhiteboard: true},
		},
	}
}

// DemoMeetings starts at the first full hour after now.
func DemoMeetings(tenantID string, rooms []*model.Room, now time.Time) []*model.Reservation {
	if len(rooms) == 0 {
		return nil
	}

	first := now.UTC().Truncate(time.Hour).Add(time.Hour)
	meetings := make([]*model.Reservation, 0, demoMeetings)
	for i := 0; i < demoMeetings; i++ {
		start := first.Add(time.Duration(i) * demoMeetingSpacing)
		meetings = append(meetings, &model.Reservation{
			RoomID:    rooms[i%len(rooms)].ID,
			TenantID:  tenantID,
			Title:     fmt.Sprintf("Meeting %d", i+1),
			StartTime: start,
			EndTime:   start.Add(demoMeetingDuration),
		})
	}
	return meetings
}

// Reset empties every service collection. Collections and indexes are kept.
func Reset(ctx context.Context, db *mongo.Database, log *logger.Logger) error {
	for _, name := range []string{
		repository.ReservationsCollection,
		repository.RoomFencesCollection,
		repository.RoomsCollection,
		repository.TenantsCollection,
	} {
		result, err := db.Collection(name).DeleteMany(ctx, bson.M{})
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", name, err)
		}
		log.Info("Collection cleared", "collection", name, "deleted", result.DeletedCount)
	}
	return nil
}
