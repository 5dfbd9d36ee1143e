// Package events publishes reservation lifecycle events and consumes them
// for auditing.
package events

import (
	"context"
	"roombook/pkg/kafka"
	"roombook/pkg/logger"
	"roombook/pkg/model"
	"time"
)

const (
	TypeReservationCreated = "reservation.created"
	TypeReservationUpdated = "reservation.updated"
	TypeReservationDeleted = "reservation.deleted"

	SchemaVersion = "1"
	Source        = "rooms"
)

// ReservationEvent is the payload of every reservation event.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID string    `json:"reservation_id"`
	TenantID      string    `json:"tenant_id"`
	RoomID        string    `json:"room_id"`
	Title         string    `json:"title,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType string, r *model.Reservation) ReservationEvent {
	return ReservationEvent{
		Type:          eventType,
		ReservationID: r.ID,
		TenantID:      r.TenantID,
		RoomID:        r.RoomID,
		Title:         r.Title,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		OccurredAt:    time.Now().UTC(),
	}
}

// Publisher emits reservation events after the write they describe has
// committed. Delivery is best effort: callers log failures and move on.
type Publisher interface {
	Publish(ctx context.Context, event ReservationEvent) error
}

type messagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type kafkaPublisher struct {
	producer messagePublisher
}

// NewKafkaPublisher keys messages by room id so every event for a room lands
// on the same partition in commit order.
func NewKafkaPublisher(producer messagePublisher) Publisher {
	return &kafkaPublisher{producer: producer}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event ReservationEvent) error {
	msg, err := kafka.NewMessage().
		WithKey(event.RoomID).
		WithValue(event).
		WithEventType(event.Type).
		WithTenantID(event.TenantID).
		WithRequestID(logger.RequestID(ctx)).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		Build()
	if err != nil {
		return err
	}
	return p.producer.Publish(ctx, msg)
}

type nopPublisher struct{}

func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, ReservationEvent) error {
	return nil
}
