package service

import (
	"context"
	"fmt"
	"io"
	roomserrors "roombook/internal/rooms/errors"
	"roombook/internal/rooms/events"
	"roombook/internal/rooms/validator"
	"roombook/pkg/config"
	mongotx "roombook/pkg/db/mongo"
	"roombook/pkg/lock"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"roombook/pkg/timerange"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory stand-in for the three Mongo repositories. Its
// transaction runs fn directly, so mutual exclusion comes from the service's
// locker alone.
type memStore struct {
	mu           sync.Mutex
	rooms        map[string]*model.Room
	reservations map[string]*model.Reservation
	fences       map[string]int
	nextID       int

	createErr   error
	findErr     error
	claimDelay  time.Duration
	createHook  func()
	uniqueIndex bool
}

func newMemStore() *memStore {
	return &memStore{
		rooms:        make(map[string]*model.Room),
		reservations: make(map[string]*model.Reservation),
		fences:       make(map[string]int),
		uniqueIndex:  true,
	}
}

func (m *memStore) addRoom(id, tenantID, name string) *model.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	room := &model.Room{ID: id, TenantID: tenantID, Name: name, Capacity: 4}
	m.rooms[id] = room
	return room
}

func (m *memStore) count(roomID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.reservations {
		if r.RoomID == roomID {
			n++
		}
	}
	return n
}

func (m *memStore) all() []*model.Reservation {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Reservation, 0, len(m.reservations))
	for _, r := range m.reservations {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

// reservations

func (m *memStore) Create(ctx context.Context, reservation *model.Reservation) error {
	if m.createHook != nil {
		m.createHook()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if m.uniqueIndex {
		for _, r := range m.reservations {
			if r.RoomID == reservation.RoomID && r.StartTime.Equal(reservation.StartTime) {
				return fmt.Errorf("%w: E11000 duplicate key", roomserrors.ErrBookingConflict)
			}
		}
	}
	m.nextID++
	reservation.ID = fmt.Sprintf("%024x", m.nextID)
	cp := *reservation
	m.reservations[reservation.ID] = &cp
	return nil
}

func (m *memStore) FindByID(ctx context.Context, tenantID string, id string) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(id) != 24 {
		return nil, roomserrors.ErrInvalidID
	}
	r, ok := m.reservations[id]
	if !ok || r.TenantID != tenantID {
		return nil, roomserrors.ErrReservationNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memStore) Update(ctx context.Context, tenantID string, id string, reservation *model.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.TenantID != tenantID {
		return roomserrors.ErrReservationNotFound
	}
	r.Title = reservation.Title
	r.StartTime = reservation.StartTime
	r.EndTime = reservation.EndTime
	return nil
}

func (m *memStore) Delete(ctx context.Context, tenantID string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reservations[id]
	if !ok || r.TenantID != tenantID {
		return roomserrors.ErrReservationNotFound
	}
	delete(m.reservations, id)
	return nil
}

func (m *memStore) FindConflict(ctx context.Context, roomID string, rng timerange.Range) (*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var found *model.Reservation
	for _, r := range m.reservations {
		if r.RoomID == roomID && r.Range().Overlaps(rng) {
			if found == nil || r.StartTime.Before(found.StartTime) {
				cp := *r
				found = &cp
			}
		}
	}
	return found, nil
}

func (m *memStore) FindOverlapping(ctx context.Context, tenantID string, rng timerange.Range) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []*model.Reservation
	for _, r := range m.reservations {
		if r.TenantID == tenantID && r.Range().Overlaps(rng) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) Search(ctx context.Context, tenantID string, f model.ReservationFilter) ([]*model.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}
	out := []*model.Reservation{}
	for _, r := range m.reservations {
		if r.TenantID != tenantID {
			continue
		}
		if f.RoomID != "" && r.RoomID != f.RoomID {
			continue
		}
		if f.StartTime != nil && !r.EndTime.After(*f.StartTime) {
			continue
		}
		if f.EndTime != nil && !r.StartTime.Before(*f.EndTime) {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func (m *memStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

// rooms

type memRooms struct{ *memStore }

func (r memRooms) Create(ctx context.Context, room *model.Room) error {
	r.addRoom(room.ID, room.TenantID, room.Name)
	return nil
}

func (r memRooms) FindByIDForTenant(ctx context.Context, tenantID string, roomID string) (*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[roomID]
	if !ok || room.TenantID != tenantID {
		return nil, roomserrors.ErrRoomNotFound
	}
	cp := *room
	return &cp, nil
}

func (r memRooms) FindByTenant(ctx context.Context, tenantID string) ([]*model.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Room{}
	for _, room := range r.rooms {
		if room.TenantID == tenantID {
			cp := *room
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// fences

type memFences struct{ *memStore }

func (f memFences) Claim(ctx context.Context, roomID string) error {
	if f.claimDelay > 0 {
		select {
		case <-time.After(f.claimDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fences[roomID]++
	return nil
}

// events

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ReservationEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	store     *memStore
	publisher *recordingPublisher
	svc       ReservationService
	cfg       *config.Config
}

func newFixture(lockTimeout time.Duration) *fixture {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{
		BookingLockTimeout: lockTimeout,
		Log:                log,
	}
	store := newMemStore()
	pub := &recordingPublisher{}
	svc := NewReservationService(
		store,
		memRooms{store},
		memFences{store},
		lock.NewKeyedLocker(lockTimeout),
		validator.NewReservationValidator(log),
		pub,
		cfg,
	)
	return &fixture{store: store, publisher: pub, svc: svc, cfg: cfg}
}
