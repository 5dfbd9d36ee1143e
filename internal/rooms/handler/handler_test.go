package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	roomserrors "roombook/internal/rooms/errors"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	testTenant = "65f000000000000000000002"
	testRoom   = "65f000000000000000000010"
	testResv   = "65f000000000000000000100"
)

type mockReservationService struct {
	bookFunc      func(ctx context.Context, tenantID, roomID string, req *model.BookingRequest) (*model.Reservation, error)
	conflictFunc  func(ctx context.Context, tenantID, roomID string, start, end time.Time) (bool, error)
	availableFunc func(ctx context.Context, tenantID string, start, end time.Time) ([]*model.Room, error)
	listFunc      func(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error)
	updateFunc    func(ctx context.Context, tenantID, id string, update *model.ReservationUpdate) (*model.Reservation, error)
	deleteFunc    func(ctx context.Context, tenantID, id string) error
}

func (m *mockReservationService) BookRoom(ctx context.Context, tenantID, roomID string, req *model.BookingRequest) (*model.Reservation, error) {
	if m.bookFunc != nil {
		return m.bookFunc(ctx, tenantID, roomID, req)
	}
	return &model.Reservation{ID: testResv, RoomID: roomID, TenantID: tenantID}, nil
}

func (m *mockReservationService) HasConflict(ctx context.Context, tenantID, roomID string, start, end time.Time) (bool, error) {
	if m.conflictFunc != nil {
		return m.conflictFunc(ctx, tenantID, roomID, start, end)
	}
	return false, nil
}

func (m *mockReservationService) AvailableRooms(ctx context.Context, tenantID string, start, end time.Time) ([]*model.Room, error) {
	if m.availableFunc != nil {
		return m.availableFunc(ctx, tenantID, start, end)
	}
	return []*model.Room{}, nil
}

func (m *mockReservationService) ListBookings(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, tenantID, filter)
	}
	return []*model.Reservation{}, nil
}

func (m *mockReservationService) GetByID(ctx context.Context, tenantID, id string) (*model.Reservation, error) {
	if id != testResv {
		return nil, roomserrors.ReservationNotFound(id)
	}
	return &model.Reservation{ID: id, TenantID: tenantID}, nil
}

func (m *mockReservationService) Update(ctx context.Context, tenantID, id string, update *model.ReservationUpdate) (*model.Reservation, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, tenantID, id, update)
	}
	return &model.Reservation{ID: id}, nil
}

func (m *mockReservationService) Delete(ctx context.Context, tenantID, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, tenantID, id)
	}
	return nil
}

type mockRoomService struct {
	rooms []*model.Room
}

func (m *mockRoomService) List(ctx context.Context, tenantID string) ([]*model.Room, error) {
	return m.rooms, nil
}

func (m *mockRoomService) GetByID(ctx context.Context, tenantID, roomID string) (*model.Room, error) {
	for _, room := range m.rooms {
		if room.ID == roomID {
			return room, nil
		}
	}
	return nil, roomserrors.RoomNotFound(roomID)
}

func newTestRouter(reservations *mockReservationService, rooms *mockRoomService) *httprouter.Router {
	log := logger.New(logger.Config{Output: io.Discard})
	router := httprouter.New()
	NewAPI(
		NewRoomHandler(rooms, reservations, log),
		NewBookingHandler(reservations, log),
	).RegisterRoutes(router)
	return router
}

func doRequest(router http.Handler, method, path, tenantID, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if tenantID != "" {
		req.Header.Set(httputil.TenantIDHeader, tenantID)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) httputil.ErrorResponse {
	t.Helper()
	var resp httputil.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestBook_Created(t *testing.T) {
	var gotTenant, gotRoom string
	var gotReq *model.BookingRequest
	svc := &mockReservationService{
		bookFunc: func(ctx context.Context, tenantID, roomID string, req *model.BookingRequest) (*model.Reservation, error) {
			gotTenant, gotRoom, gotReq = tenantID, roomID, req
			return &model.Reservation{
				ID:        testResv,
				RoomID:    roomID,
				TenantID:  tenantID,
				Title:     req.Title,
				StartTime: *req.StartTime,
				EndTime:   *req.EndTime,
			}, nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})

	body := `{"title":"Planning","start_time":"2026-03-10T09:00:00Z","end_time":"2026-03-10T10:00:00Z"}`
	rec := doRequest(router, http.MethodPost, "/api/v1/rooms/id/"+testRoom+"/book", testTenant, body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if gotTenant != testTenant || gotRoom != testRoom {
		t.Errorf("service got tenant=%s room=%s", gotTenant, gotRoom)
	}
	if gotReq == nil || gotReq.Title != "Planning" || gotReq.StartTime == nil {
		t.Fatalf("request body not decoded: %+v", gotReq)
	}

	var resp struct {
		Data model.Reservation `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if resp.Data.ID != testResv || !resp.Data.StartTime.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected reservation: %+v", resp.Data)
	}
}

func TestBook_TenantHeader(t *testing.T) {
	called := false
	svc := &mockReservationService{
		bookFunc: func(ctx context.Context, tenantID, roomID string, req *model.BookingRequest) (*model.Reservation, error) {
			called = true
			return nil, nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})
	body := `{"title":"x","start_time":"2026-03-10T09:00:00Z","end_time":"2026-03-10T10:00:00Z"}`

	tests := []struct {
		name     string
		tenantID string
	}{
		{"missing", ""},
		{"not an object id", "tenant-a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodPost, "/api/v1/rooms/id/"+testRoom+"/book", tt.tenantID, body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if code := decodeError(t, rec).Code; code != apperrors.CodeInvalidInput {
				t.Errorf("expected %s, got %s", apperrors.CodeInvalidInput, code)
			}
		})
	}

	if called {
		t.Error("service must not be called without a valid tenant")
	}
}

func TestBook_InvalidBody(t *testing.T) {
	router := newTestRouter(&mockReservationService{}, &mockRoomService{})

	rec := doRequest(router, http.MethodPost, "/api/v1/rooms/id/"+testRoom+"/book", testTenant, `{"title":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := decodeError(t, rec).Error; msg != "Invalid request body" {
		t.Errorf("unexpected message: %s", msg)
	}
}

func TestBook_ErrorMapping(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"room not found", roomserrors.RoomNotFound(testRoom), http.StatusNotFound, roomserrors.CodeRoomNotFound},
		{"invalid interval", roomserrors.InvalidInterval(start, start), http.StatusBadRequest, roomserrors.CodeInvalidInterval},
		{"conflict", roomserrors.BookingConflict(nil), http.StatusBadRequest, roomserrors.CodeBookingConflict},
		{"busy", roomserrors.Busy(testRoom, context.DeadlineExceeded), http.StatusServiceUnavailable, roomserrors.CodeBusy},
		{"persistence", roomserrors.PersistenceFailure("Failed to create reservation", errors.New("boom")), http.StatusInternalServerError, roomserrors.CodePersistenceFailure},
		{"missing field", apperrors.Validation("Invalid booking input", nil), http.StatusBadRequest, apperrors.CodeValidation},
		{"unclassified", errors.New("socket closed"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockReservationService{
				bookFunc: func(ctx context.Context, tenantID, roomID string, req *model.BookingRequest) (*model.Reservation, error) {
					return nil, tt.err
				},
			}
			router := newTestRouter(svc, &mockRoomService{})

			body := `{"title":"x","start_time":"2026-03-10T09:00:00Z","end_time":"2026-03-10T10:00:00Z"}`
			rec := doRequest(router, http.MethodPost, "/api/v1/rooms/id/"+testRoom+"/book", testTenant, body)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := decodeError(t, rec).Code; code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	var gotStart, gotEnd time.Time
	svc := &mockReservationService{
		availableFunc: func(ctx context.Context, tenantID string, start, end time.Time) ([]*model.Room, error) {
			gotStart, gotEnd = start, end
			return []*model.Room{{ID: testRoom, Name: "Conference Room A"}}, nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"valid window", "?start_time=2026-03-10T09:00:00Z&end_time=2026-03-10T10:00:00Z", http.StatusOK},
		{"missing end", "?start_time=2026-03-10T09:00:00Z", http.StatusBadRequest},
		{"missing both", "", http.StatusBadRequest},
		{"malformed start", "?start_time=tomorrow&end_time=2026-03-10T10:00:00Z", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/rooms/available"+tt.query, testTenant, "")
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
		})
	}

	if !gotStart.Equal(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)) || !gotEnd.Equal(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window passed to service: %s - %s", gotStart, gotEnd)
	}
}

func TestCheckAvailability(t *testing.T) {
	svc := &mockReservationService{
		conflictFunc: func(ctx context.Context, tenantID, roomID string, start, end time.Time) (bool, error) {
			return start.Hour() == 9, nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})

	tests := []struct {
		name          string
		query         string
		wantAvailable bool
	}{
		{"overlapping", "?start_time=2026-03-10T09:30:00Z&end_time=2026-03-10T10:30:00Z", false},
		{"free", "?start_time=2026-03-10T11:00:00Z&end_time=2026-03-10T12:00:00Z", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(router, http.MethodGet, "/api/v1/rooms/id/"+testRoom+"/availability"+tt.query, testTenant, "")
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp struct {
				Data AvailabilityResponse `json:"data"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			if resp.Data.Available != tt.wantAvailable || resp.Data.RoomID != testRoom {
				t.Errorf("unexpected response: %+v", resp.Data)
			}
		})
	}
}

func TestListBookings_Filter(t *testing.T) {
	var got model.ReservationFilter
	svc := &mockReservationService{
		listFunc: func(ctx context.Context, tenantID string, filter model.ReservationFilter) ([]*model.Reservation, error) {
			got = filter
			return []*model.Reservation{}, nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})

	rec := doRequest(router, http.MethodGet, "/api/v1/bookings?start_time=2026-03-10T00:00:00Z&room_id="+testRoom, testTenant, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.StartTime == nil || got.EndTime != nil || got.RoomID != testRoom {
		t.Errorf("unexpected filter: %+v", got)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"data":[]}` {
		t.Errorf("expected empty list, got %s", body)
	}

	rec = doRequest(router, http.MethodGet, "/api/v1/bookings?end_time=yesterday", testTenant, "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed end_time, got %d", rec.Code)
	}
}

func TestReservationAdminRoutes(t *testing.T) {
	deleted := ""
	svc := &mockReservationService{
		deleteFunc: func(ctx context.Context, tenantID, id string) error {
			if id != testResv {
				return roomserrors.ReservationNotFound(id)
			}
			deleted = id
			return nil
		},
	}
	router := newTestRouter(svc, &mockRoomService{})

	if rec := doRequest(router, http.MethodGet, "/api/v1/bookings/id/"+testResv, testTenant, ""); rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/v1/bookings/id/65f0000000000000000000ff", testTenant, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get missing: expected 404, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodPatch, "/api/v1/bookings/id/"+testResv, testTenant, `{"title":"Renamed"}`); rec.Code != http.StatusOK {
		t.Errorf("update: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodDelete, "/api/v1/bookings/id/"+testResv, testTenant, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", rec.Code)
	}
	if deleted != testResv {
		t.Errorf("expected %s to be deleted, got %q", testResv, deleted)
	}
}

func TestRoomRoutes(t *testing.T) {
	rooms := &mockRoomService{rooms: []*model.Room{{ID: testRoom, TenantID: testTenant, Name: "Conference Room A", Capacity: 10}}}
	router := newTestRouter(&mockReservationService{}, rooms)

	if rec := doRequest(router, http.MethodGet, "/api/v1/rooms", testTenant, ""); rec.Code != http.StatusOK {
		t.Errorf("list: expected 200, got %d", rec.Code)
	}
	if rec := doRequest(router, http.MethodGet, "/api/v1/rooms/id/"+testRoom, testTenant, ""); rec.Code != http.StatusOK {
		t.Errorf("get: expected 200, got %d", rec.Code)
	}
	rec := doRequest(router, http.MethodGet, "/api/v1/rooms/id/65f0000000000000000000ff", testTenant, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("get foreign: expected 404, got %d", rec.Code)
	}
}

func TestReady(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})

	tests := []struct {
		name       string
		checks     []DependencyCheck
		wantStatus int
		wantState  map[string]string
	}{
		{
			name: "all healthy",
			checks: []DependencyCheck{
				{Name: "database", Ping: func(ctx context.Context) error { return nil }},
			},
			wantStatus: http.StatusOK,
			wantState:  map[string]string{"database": "ok"},
		},
		{
			name: "redis down",
			checks: []DependencyCheck{
				{Name: "database", Ping: func(ctx context.Context) error { return nil }},
				{Name: "redis", Ping: func(ctx context.Context) error { return errors.New("connection refused") }},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantState:  map[string]string{"database": "ok", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			NewHealthHandler(log, tt.checks...).RegisterRoutes(router)

			rec := doRequest(router, http.MethodGet, "/ready", "", "")
			if rec.Code != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var resp HealthResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode: %v", err)
			}
			for name, state := range tt.wantState {
				if resp.Dependencies[name] != state {
					t.Errorf("dependency %s: expected %s, got %s", name, state, resp.Dependencies[name])
				}
			}
		})
	}
}
