package client

import (
	"context"
	"net/url"
	"roombook/pkg/model"
	"time"
)

const tenantHeader = "Tenant-Id"

// RoomsClient calls the rooms API on behalf of one tenant.
type RoomsClient struct {
	httpClient *HttpClient
}

func NewRoomsClient(baseURL, tenantID string) *RoomsClient {
	c := NewHttpClient(baseURL)
	c.Headers[tenantHeader] = tenantID
	return &RoomsClient{httpClient: c}
}

func (c *RoomsClient) WaitForHealthy(ctx context.Context, maxWait time.Duration) error {
	return c.httpClient.WaitForHealthy(ctx, maxWait)
}

func (c *RoomsClient) ListRooms(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/rooms")
}

func (c *RoomsClient) GetRoom(ctx context.Context, roomID string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/rooms/id/"+url.PathEscape(roomID))
}

func (c *RoomsClient) AvailableRooms(ctx context.Context, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("start_time", start.Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))
	return c.httpClient.GET(ctx, "/api/v1/rooms/available?"+q.Encode())
}

func (c *RoomsClient) CheckAvailability(ctx context.Context, roomID string, start, end time.Time) (*Response, error) {
	q := url.Values{}
	q.Set("start_time", start.Format(time.RFC3339))
	q.Set("end_time", end.Format(time.RFC3339))
	return c.httpClient.GET(ctx, "/api/v1/rooms/id/"+url.PathEscape(roomID)+"/availability?"+q.Encode())
}

// Book posts a booking request. A non-empty idempotencyKey is sent as the
// Idempotency-Key header.
func (c *RoomsClient) Book(ctx context.Context, roomID string, req model.BookingRequest, idempotencyKey string) (*Response, error) {
	var headers map[string]string
	if idempotencyKey != "" {
		headers = map[string]string{"Idempotency-Key": idempotencyKey}
	}
	return c.httpClient.POST(ctx, "/api/v1/rooms/id/"+url.PathEscape(roomID)+"/book", req, headers)
}

func (c *RoomsClient) ListBookings(ctx context.Context, filter model.ReservationFilter) (*Response, error) {
	q := url.Values{}
	if filter.StartTime != nil {
		q.Set("start_time", filter.StartTime.Format(time.RFC3339))
	}
	if filter.EndTime != nil {
		q.Set("end_time", filter.EndTime.Format(time.RFC3339))
	}
	if filter.RoomID != "" {
		q.Set("room_id", filter.RoomID)
	}

	path := "/api/v1/bookings"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}
	return c.httpClient.GET(ctx, path)
}

func (c *RoomsClient) GetBooking(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *RoomsClient) UpdateBooking(ctx context.Context, id string, update model.ReservationUpdate) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/bookings/id/"+url.PathEscape(id), update)
}

func (c *RoomsClient) DeleteBooking(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/bookings/id/"+url.PathEscape(id))
}

func (c *RoomsClient) DecodeReservation(resp *Response) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := resp.DecodeData(&reservation); err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (c *RoomsClient) DecodeReservations(resp *Response) ([]*model.Reservation, error) {
	var reservations []*model.Reservation
	if err := resp.DecodeData(&reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (c *RoomsClient) DecodeRooms(resp *Response) ([]*model.Room, error) {
	var rooms []*model.Room
	if err := resp.DecodeData(&rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}
